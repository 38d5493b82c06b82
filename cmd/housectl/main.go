// Command housectl inspects and repairs a world's house regions offline,
// straight from the region store and the audit log.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"houseregions.ai/internal/audit"
	"houseregions.ai/internal/housing/codec"
	"houseregions.ai/internal/housing/config"
	"houseregions.ai/internal/housing/registry"
	"houseregions.ai/internal/regionstore"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// exitError carries the process exit status; 2 is a usage error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func usageErr(format string, args ...any) error {
	return &exitError{code: 2, err: fmt.Errorf(format, args...)}
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stderr)
		return 2
	}
	c := &cli{out: stdout, errOut: stderr}
	var err error
	switch args[0] {
	case "list":
		err = c.list(args[1:])
	case "summary":
		err = c.summary(args[1:])
	case "show":
		err = c.show(args[1:])
	case "delete":
		err = c.delete(args[1:])
	case "transfer":
		err = c.transfer(args[1:])
	case "audit":
		err = c.audit(args[1:])
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		printUsage(stderr)
		return 2
	}
	if err == nil {
		return 0
	}
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	fmt.Fprintln(stderr, "error:", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `usage: housectl <command> [flags]

commands:
  list      list house regions (--owner to filter)
  summary   count houses per owner
  show      print one house region by name
  delete    remove one house region by name
  transfer  rename a house region to a new owner, keeping its index
  audit     print audit entries (--region, --actor, --action to filter)
`)
}

type cli struct {
	out    io.Writer
	errOut io.Writer
}

// storeFlags are shared by every command that opens the region store.
type storeFlags struct {
	dataDir string
	worldID string
	dbPath  string
}

func (c *cli) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func (s *storeFlags) add(fs *pflag.FlagSet) {
	fs.StringVar(&s.dataDir, "data", "./data", "runtime data directory")
	fs.StringVar(&s.worldID, "world", "world_1", "world id")
	fs.StringVar(&s.dbPath, "db", "", "region store path (default: <data>/worlds/<world>/regions.sqlite)")
}

func (s *storeFlags) path() string {
	if p := strings.TrimSpace(s.dbPath); p != "" {
		return p
	}
	return filepath.Join(s.dataDir, "worlds", s.worldID, "regions.sqlite")
}

// open refuses to create a store that does not exist yet.
func (s *storeFlags) open(rec audit.Recorder) (*registry.Registry, func(), error) {
	path := s.path()
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("region store %s: %w", path, err)
	}
	store, err := regionstore.OpenSQLite(path, s.worldID)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	logger := log.New(io.Discard, "[housectl] ", log.LstdFlags)
	reg := registry.New(store, operator{}, config.Defaults(), logger, rec)
	return reg, func() { _ = store.Close() }, nil
}

// operator is the offline administrator; it holds every capability.
type operator struct{}

func (operator) HasCapability(string, string) bool { return true }

type houseRow struct {
	Region        string   `json:"region"`
	Owner         string   `json:"owner"`
	Index         int      `json:"index"`
	X             int      `json:"x"`
	Y             int      `json:"y"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	Priority      int      `json:"priority"`
	AllowedUsers  []string `json:"allowed_users,omitempty"`
	AllowedGroups []string `json:"allowed_groups,omitempty"`
}

func rowOf(h registry.House) houseRow {
	rg := h.Region
	return houseRow{
		Region:        rg.Name,
		Owner:         h.Owner,
		Index:         h.Index,
		X:             rg.Area.X,
		Y:             rg.Area.Y,
		Width:         rg.Area.Width,
		Height:        rg.Area.Height,
		Priority:      rg.Priority,
		AllowedUsers:  rg.AllowedUsers,
		AllowedGroups: rg.AllowedGroups,
	}
}

func (c *cli) list(args []string) error {
	var sf storeFlags
	fs := c.flagSet("list")
	sf.add(fs)
	owner := fs.String("owner", "", "only houses of this owner")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, closeFn, err := sf.open(nil)
	if err != nil {
		return err
	}
	defer closeFn()

	all, err := reg.Store().ListAll(context.Background())
	if err != nil {
		return err
	}
	for _, rg := range all {
		o, idx, ok := codec.Decode(rg.Name)
		if !ok {
			continue
		}
		if *owner != "" && o != *owner {
			continue
		}
		c.printJSON(rowOf(registry.House{Owner: o, Index: idx, Region: rg}))
	}
	return nil
}

func (c *cli) summary(args []string) error {
	var sf storeFlags
	fs := c.flagSet("summary")
	sf.add(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, closeFn, err := sf.open(nil)
	if err != nil {
		return err
	}
	defer closeFn()

	counts, err := reg.Summary(context.Background())
	if err != nil {
		return err
	}
	for _, oc := range counts {
		fmt.Fprintf(c.out, "%s\t%d\n", oc.Owner, oc.Houses)
	}
	return nil
}

// house resolves a positional region name to a house.
func house(ctx context.Context, reg *registry.Registry, name string) (registry.House, error) {
	owner, idx, ok := registry.FindHouseData(name)
	if !ok {
		return registry.House{}, usageErr("%q is not a house region name", name)
	}
	rg, found, err := reg.Store().GetByName(ctx, name)
	if err != nil {
		return registry.House{}, err
	}
	if !found {
		return registry.House{}, fmt.Errorf("%s: %w", name, regionstore.ErrNotFound)
	}
	return registry.House{Owner: owner, Index: idx, Region: rg}, nil
}

func (c *cli) show(args []string) error {
	var sf storeFlags
	fs := c.flagSet("show")
	sf.add(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageErr("show takes exactly one region name")
	}

	reg, closeFn, err := sf.open(nil)
	if err != nil {
		return err
	}
	defer closeFn()

	h, err := house(context.Background(), reg, fs.Arg(0))
	if err != nil {
		return err
	}
	c.printJSON(rowOf(h))
	return nil
}

func (c *cli) delete(args []string) error {
	var sf storeFlags
	fs := c.flagSet("delete")
	sf.add(fs)
	actor := fs.String("actor", "housectl", "actor name written to the audit log")
	noAudit := fs.Bool("no-audit", false, "do not append an audit entry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageErr("delete takes exactly one region name")
	}

	rec, closeAudit := auditRecorder(sf.dataDir, *noAudit)
	defer closeAudit()
	reg, closeFn, err := sf.open(rec)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := context.Background()
	h, err := house(ctx, reg, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := reg.DeleteHouse(ctx, *actor, h); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "deleted %s (owner %s)\n", h.Region.Name, h.Owner)
	return nil
}

func (c *cli) transfer(args []string) error {
	var sf storeFlags
	fs := c.flagSet("transfer")
	sf.add(fs)
	actor := fs.String("actor", "housectl", "actor name written to the audit log")
	noAudit := fs.Bool("no-audit", false, "do not append an audit entry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usageErr("transfer takes a region name and the new owner")
	}
	newOwner := strings.TrimSpace(fs.Arg(1))
	if newOwner == "" {
		return usageErr("new owner must not be empty")
	}

	rec, closeAudit := auditRecorder(sf.dataDir, *noAudit)
	defer closeAudit()
	reg, closeFn, err := sf.open(rec)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := context.Background()
	h, err := house(ctx, reg, fs.Arg(0))
	if err != nil {
		return err
	}
	moved, err := reg.TransferOwnership(ctx, *actor, h.Region, newOwner)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "transferred %s to %s as %s\n", h.Region.Name, newOwner, moved.Name)
	return nil
}

// auditRecorder writes under its own file prefix so it never shares a zstd
// stream with a running server.
func auditRecorder(dataDir string, disabled bool) (audit.Recorder, func()) {
	if disabled {
		return audit.Nop{}, func() {}
	}
	al := audit.NewWriterLogger(dataDir, "housectl")
	return al, func() { _ = al.Close() }
}

func (c *cli) audit(args []string) error {
	fs := c.flagSet("audit")
	dataDir := fs.String("data", "./data", "runtime data directory")
	region := fs.String("region", "", "only entries for this region")
	actor := fs.String("actor", "", "only entries by this actor")
	action := fs.String("action", "", "only entries with this action (e.g. HOUSE_CREATE)")
	since := fs.Duration("since", 0, "only entries newer than this (e.g. 24h)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entries, err := audit.ReadAll(*dataDir)
	if err != nil {
		return err
	}
	var cutoff time.Time
	if *since > 0 {
		cutoff = time.Now().Add(-*since)
	}
	for _, e := range entries {
		if *region != "" && e.Region != *region {
			continue
		}
		if *actor != "" && e.Actor != *actor {
			continue
		}
		if *action != "" && !strings.EqualFold(e.Action, *action) {
			continue
		}
		if !cutoff.IsZero() && e.Time.Before(cutoff) {
			continue
		}
		c.printJSON(e)
	}
	return nil
}

func (c *cli) printJSON(v any) {
	enc := json.NewEncoder(c.out)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
