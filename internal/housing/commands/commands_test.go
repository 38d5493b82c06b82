package commands

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"houseregions.ai/internal/directory"
	"houseregions.ai/internal/housing/codec"
	"houseregions.ai/internal/housing/config"
	"houseregions.ai/internal/housing/define"
	"houseregions.ai/internal/housing/geometry"
	"houseregions.ai/internal/housing/notify"
	"houseregions.ai/internal/housing/notify/notifytest"
	"houseregions.ai/internal/housing/permissions"
	"houseregions.ai/internal/housing/registry"
	"houseregions.ai/internal/housing/resize"
	"houseregions.ai/internal/regionstore"
)

type fixture struct {
	h      *Handler
	dir    *directory.Directory
	reg    *registry.Registry
	store  *regionstore.Memory
	rec    *notifytest.Recording
	clock  *notify.Manual
	define *define.Manager
	reload func() (config.Config, error)
}

var aliceHouse = geometry.Rect{X: 10, Y: 10, Width: 10, Height: 10}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir, err := directory.New(directory.File{
		DefaultGroup: "guest",
		Groups: map[string][]string{
			"guest":  nil,
			"player": {permissions.Define, permissions.Delete, permissions.Share, permissions.ShareWithGroups},
			"admin":  {"*"},
		},
		Users: []directory.UserSpec{
			{Name: "alice", Group: "player"},
			{Name: "bob", Group: "player"},
			{Name: "root", Group: "admin"},
		},
	})
	if err != nil {
		t.Fatalf("directory.New: %v", err)
	}
	dir.Login("p-alice", "alice")
	dir.Login("p-bob", "bob")
	dir.Login("p-root", "root")

	store := regionstore.NewMemory(regionstore.Region{Name: codec.Encode("alice", 1), Owner: "alice", Area: aliceHouse})
	logger := log.New(&bytes.Buffer{}, "", 0)
	reg := registry.New(store, dir, config.Defaults(), logger, nil)
	f := &fixture{dir: dir, reg: reg, store: store, rec: &notifytest.Recording{}, clock: &notify.Manual{}}
	f.define = define.NewManager(reg, f.rec, f.clock, logger)
	f.h = New(Deps{
		Registry: reg,
		Resize:   resize.New(reg, logger),
		Define:   f.define,
		Accounts: dir,
		Out:      f.rec,
		Previews: notify.NewPreviewer(f.rec, f.clock),
		Reload:   func() (config.Config, error) { return f.reload() },
		Logger:   logger,
	})
	return f
}

func (f *fixture) run(t *testing.T, player string, at geometry.Point, line string) error {
	t.Helper()
	acc, ok := f.dir.Account(player)
	if !ok {
		t.Fatalf("player %s not logged in", player)
	}
	f.rec.Reset()
	return f.h.Execute(context.Background(), Invocation{Player: player, Account: acc, Position: at, Args: strings.Fields(line)})
}

func (f *fixture) house(t *testing.T, name string) (regionstore.Region, bool) {
	t.Helper()
	rg, ok, err := f.store.GetByName(context.Background(), name)
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	return rg, ok
}

var inside = geometry.Point{X: 12, Y: 12}

func TestStatusLine(t *testing.T) {
	f := newFixture(t)
	if err := f.run(t, "p-alice", inside, ""); err != nil {
		t.Fatalf("status: %v", err)
	}
	got := f.rec.Notices(notify.KindInfo)
	if len(got) == 0 || got[0] != "You've defined 1 of 5 possible houses so far." {
		t.Fatalf("status line: %v", got)
	}
}

func TestCommandsListFollowsPermissions(t *testing.T) {
	f := newFixture(t)
	f.dir.Login("p-guest", "guest1")
	if err := f.run(t, "p-guest", inside, "cmds"); err != nil {
		t.Fatalf("cmds: %v", err)
	}
	guest := f.rec.Notices(notify.KindInfo)
	if len(guest) != 3 {
		t.Fatalf("guest commands: %v", guest)
	}
	listed := false
	for _, line := range guest {
		if strings.Contains(line, "summary") {
			listed = true
		}
	}
	if !listed {
		t.Fatalf("guest may run summary but it is not listed: %v", guest)
	}
	if err := f.run(t, "p-guest", inside, "summary"); err != nil {
		t.Fatalf("guest summary: %v", err)
	}
	f.run(t, "p-root", inside, "commands")
	if got := f.rec.Notices(notify.KindInfo); len(got) != 12 {
		t.Fatalf("admin commands: %v", got)
	}
}

func TestDefineRequiresPermission(t *testing.T) {
	f := newFixture(t)
	f.dir.Login("p-guest", "guest1")
	err := f.run(t, "p-guest", inside, "define")
	if !errors.Is(err, registry.ErrMissingPermission) {
		t.Fatalf("expected missing permission, got %v", err)
	}
	if _, live := f.define.Active("p-guest"); live {
		t.Fatalf("session started without permission")
	}
}

func TestAnyCommandStopsDefinition(t *testing.T) {
	f := newFixture(t)
	if err := f.run(t, "p-alice", inside, "def"); err != nil {
		t.Fatalf("def: %v", err)
	}
	if st, live := f.define.Active("p-alice"); !live || st != define.AwaitingCorner1 {
		t.Fatalf("session not started: %s %v", st, live)
	}
	f.run(t, "p-alice", inside, "info")
	if _, live := f.define.Active("p-alice"); live {
		t.Fatalf("info did not stop the definition")
	}
}

func TestInfoShowsOwnerAndTimedPreview(t *testing.T) {
	f := newFixture(t)
	if err := f.run(t, "p-bob", inside, "info"); err != nil {
		t.Fatalf("info: %v", err)
	}
	got := f.rec.Notices(notify.KindInfo)
	if len(got) != 3 || got[0] != "Owned by: alice" {
		t.Fatalf("info lines: %v", got)
	}
	if f.rec.Count("outline") != 1 {
		t.Fatalf("outline not shown")
	}
	f.clock.Advance(5 * time.Second)
	if f.rec.Count("restore_area") != 1 {
		t.Fatalf("outline not hidden after 5s")
	}

	err := f.run(t, "p-bob", geometry.Point{X: 100, Y: 100}, "info")
	if !errors.Is(err, registry.ErrNotAHouseRegion) {
		t.Fatalf("expected no house, got %v", err)
	}
}

func TestResizeCommand(t *testing.T) {
	f := newFixture(t)
	if err := f.run(t, "p-alice", inside, "resize u r 2"); err != nil {
		t.Fatalf("resize: %v", err)
	}
	rg, _ := f.house(t, codec.Encode("alice", 1))
	if rg.Area != (geometry.Rect{X: 10, Y: 8, Width: 12, Height: 12}) {
		t.Fatalf("stored area: %+v", rg.Area)
	}
	if len(f.rec.Notices(notify.KindSuccess)) != 1 {
		t.Fatalf("no success notice")
	}

	if err := f.run(t, "p-alice", inside, "resize up"); !errors.Is(err, ErrSyntax) {
		t.Fatalf("missing amount: %v", err)
	}
	if err := f.run(t, "p-alice", inside, "resize sideways 2"); !errors.Is(err, ErrSyntax) {
		t.Fatalf("bad direction: %v", err)
	}
	if err := f.run(t, "p-bob", inside, "resize up 1"); !errors.Is(err, registry.ErrNotOwner) {
		t.Fatalf("foreign resize: %v", err)
	}
	if err := f.run(t, "p-alice", inside, "resize left -20"); !errors.Is(err, registry.ErrInvalidSize) {
		t.Fatalf("shrink below minimum: %v", err)
	}
}

func TestDeleteOwnerAndMaster(t *testing.T) {
	f := newFixture(t)
	name := codec.Encode("alice", 1)
	if err := f.run(t, "p-bob", inside, "delete"); !errors.Is(err, registry.ErrNotOwner) {
		t.Fatalf("bob delete: %v", err)
	}
	if err := f.run(t, "p-root", inside, "del"); err != nil {
		t.Fatalf("master delete: %v", err)
	}
	if _, ok := f.house(t, name); ok {
		t.Fatalf("house still present")
	}
}

func TestShareAndUnshare(t *testing.T) {
	f := newFixture(t)
	name := codec.Encode("alice", 1)
	if err := f.run(t, "p-alice", inside, "share bob"); err != nil {
		t.Fatalf("share: %v", err)
	}
	if err := f.run(t, "p-alice", inside, "sharegroup guest"); err != nil {
		t.Fatalf("sharegroup: %v", err)
	}
	rg, _ := f.house(t, name)
	if len(rg.AllowedUsers) != 1 || rg.AllowedUsers[0] != "bob" || len(rg.AllowedGroups) != 1 {
		t.Fatalf("access lists: %+v", rg)
	}
	if err := f.run(t, "p-alice", inside, "share nobody"); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("unknown user: %v", err)
	}
	if err := f.run(t, "p-alice", inside, "shareg nogroup"); !errors.Is(err, ErrUnknownGroup) {
		t.Fatalf("unknown group: %v", err)
	}
	if err := f.run(t, "p-alice", inside, "unshare bob"); err != nil {
		t.Fatalf("unshare: %v", err)
	}
	if err := f.run(t, "p-alice", inside, "unsharegroup guest"); err != nil {
		t.Fatalf("unsharegroup: %v", err)
	}
	rg, _ = f.house(t, name)
	if len(rg.AllowedUsers) != 0 || len(rg.AllowedGroups) != 0 {
		t.Fatalf("access lists not cleared: %+v", rg)
	}
}

func TestSetOwner(t *testing.T) {
	f := newFixture(t)
	if err := f.run(t, "p-alice", inside, "setowner alice"); !errors.Is(err, ErrAlreadyOwner) {
		t.Fatalf("same owner: %v", err)
	}
	if err := f.run(t, "p-alice", inside, "setowner bob"); err != nil {
		t.Fatalf("setowner: %v", err)
	}
	if _, ok := f.house(t, codec.Encode("alice", 1)); ok {
		t.Fatalf("old house still present")
	}
	rg, ok := f.house(t, codec.Encode("bob", 1))
	if !ok || rg.Owner != "bob" || rg.Area != aliceHouse {
		t.Fatalf("new house: %+v %v", rg, ok)
	}
}

func TestScanAndSummary(t *testing.T) {
	f := newFixture(t)
	if err := f.run(t, "p-bob", geometry.Point{X: 0, Y: 0}, "scan"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if f.rec.Count("outline") != 1 {
		t.Fatalf("scan outlines: %+v", f.rec.Calls())
	}
	f.run(t, "p-bob", geometry.Point{X: 5000, Y: 5000}, "scan")
	if got := f.rec.Notices(notify.KindSuccess); len(got) != 1 {
		t.Fatalf("far scan: %v", got)
	}

	f.run(t, "p-bob", inside, "summary")
	got := f.rec.Notices(notify.KindInfo)
	if len(got) != 1 || got[0] != "alice (1)" {
		t.Fatalf("summary: %v", got)
	}
}

func TestReloadConfig(t *testing.T) {
	f := newFixture(t)
	if err := f.run(t, "p-alice", inside, "reloadcfg"); !errors.Is(err, registry.ErrMissingPermission) {
		t.Fatalf("player reload: %v", err)
	}

	f.reload = func() (config.Config, error) { return config.Config{}, errors.New("bad yaml") }
	if err := f.run(t, "p-root", inside, "reloadconfig"); err == nil {
		t.Fatalf("expected reload failure")
	}
	if f.reg.Config().MaxHousesPerUser != 5 {
		t.Fatalf("failed reload changed config")
	}

	next := config.Defaults()
	next.MaxHousesPerUser = 9
	f.reload = func() (config.Config, error) { return next, nil }
	if err := f.run(t, "p-root", inside, "reloadconfiguration"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if f.reg.Config().MaxHousesPerUser != 9 {
		t.Fatalf("config not applied")
	}
}
