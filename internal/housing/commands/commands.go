// Package commands implements the /house chat command surface.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"houseregions.ai/internal/directory"
	"houseregions.ai/internal/housing/config"
	"houseregions.ai/internal/housing/define"
	"houseregions.ai/internal/housing/geometry"
	"houseregions.ai/internal/housing/notify"
	"houseregions.ai/internal/housing/permissions"
	"houseregions.ai/internal/housing/registry"
	"houseregions.ai/internal/housing/resize"
)

// Accounts resolves command targets by name.
type Accounts interface {
	UserByName(name string) (directory.Account, bool)
	GroupExists(name string) bool
}

// Reloader reads the configuration again and returns the new value.
type Reloader func() (config.Config, error)

// Invocation is one /house command typed by a logged in or guest player.
type Invocation struct {
	Player   string
	Account  directory.Account
	Position geometry.Point
	Args     []string
}

type Handler struct {
	reg      *registry.Registry
	resize   *resize.Engine
	define   *define.Manager
	accounts Accounts
	out      notify.Presenter
	previews *notify.Previewer
	reload   Reloader
	log      *log.Logger
}

type Deps struct {
	Registry *registry.Registry
	Resize   *resize.Engine
	Define   *define.Manager
	Accounts Accounts
	Out      notify.Presenter
	Previews *notify.Previewer
	Reload   Reloader
	Logger   *log.Logger
}

func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[commands] ", log.LstdFlags)
	}
	return &Handler{
		reg:      d.Registry,
		resize:   d.Resize,
		define:   d.Define,
		accounts: d.Accounts,
		out:      d.Out,
		previews: d.Previews,
		reload:   d.Reload,
		log:      logger,
	}
}

var ErrSyntax = errors.New("invalid command syntax")

// Execute runs inv and reports everything to the player. The returned error
// is the rejection the player was shown, or nil.
func (h *Handler) Execute(ctx context.Context, inv Invocation) error {
	h.define.Abort(inv.Player)

	if len(inv.Args) == 0 {
		return h.status(ctx, inv)
	}
	sub := strings.ToLower(inv.Args[0])
	rest := inv.Args[1:]
	switch sub {
	case "commands", "cmds":
		h.say(inv, notify.Heading("House Commands"))
		for _, c := range permissions.Commands(h.reg.Permissions(), inv.Account.Group) {
			h.say(inv, notify.Info("/house "+c))
		}
		return nil
	case "summary":
		return h.summary(ctx, inv)
	case "info":
		return h.info(ctx, inv)
	case "scan":
		return h.scan(ctx, inv)
	case "define", "def":
		return h.gated(inv, permissions.Define, func() error { return h.startDefine(ctx, inv) })
	case "resize":
		return h.gated(inv, permissions.Define, func() error { return h.resizeHouse(ctx, inv, rest) })
	case "delete", "del":
		return h.gated(inv, permissions.Delete, func() error { return h.deleteHouse(ctx, inv) })
	case "setowner":
		return h.gated(inv, permissions.Share, func() error { return h.setOwner(ctx, inv, rest) })
	case "share", "shareuser":
		return h.gated(inv, permissions.Share, func() error { return h.share(ctx, inv, rest, registry.AccessUser, true) })
	case "unshare", "unshareuser":
		return h.gated(inv, permissions.Share, func() error { return h.share(ctx, inv, rest, registry.AccessUser, false) })
	case "sharegroup", "shareg":
		return h.gated(inv, permissions.ShareWithGroups, func() error { return h.share(ctx, inv, rest, registry.AccessGroup, true) })
	case "unsharegroup", "unshareg":
		return h.gated(inv, permissions.ShareWithGroups, func() error { return h.share(ctx, inv, rest, registry.AccessGroup, false) })
	case "reloadconfiguration", "reloadconfig", "reloadcfg":
		return h.gated(inv, permissions.Configure, func() error { return h.reloadConfig(inv) })
	default:
		return h.status(ctx, inv)
	}
}

func (h *Handler) say(inv Invocation, notices ...notify.Notice) {
	notify.NotifyAll(h.out, inv.Player, notices...)
}

// fail explains err to the player and returns it.
func (h *Handler) fail(inv Invocation, err error) error {
	if !registry.IsDomainError(err) {
		h.log.Printf("house command by %s: %v", inv.Account.Name, err)
	}
	h.say(inv, notify.Explain(err, h.reg.Config())...)
	return err
}

func (h *Handler) gated(inv Invocation, perm string, fn func() error) error {
	if !h.reg.HasCapability(inv.Account, perm) {
		return h.fail(inv, &registry.PermissionError{Permission: perm})
	}
	return fn()
}

func (h *Handler) syntax(inv Invocation, usage string) error {
	h.say(inv, notify.Error("Proper syntax: "+usage))
	return ErrSyntax
}

func (h *Handler) status(ctx context.Context, inv Invocation) error {
	n := 0
	if inv.Account.LoggedIn {
		var err error
		if n, err = h.reg.CountHouses(ctx, inv.Account.Name); err != nil {
			return h.fail(inv, err)
		}
	}
	h.say(inv,
		notify.Info(fmt.Sprintf("You've defined %d of %d possible houses so far.", n, h.reg.Config().MaxHousesPerUser)),
		notify.Info(`Type "/house commands" to get a list of available commands.`),
	)
	return nil
}

func (h *Handler) summary(ctx context.Context, inv Invocation) error {
	owners, err := h.reg.Summary(ctx)
	if err != nil {
		return h.fail(inv, err)
	}
	if len(owners) == 0 {
		h.say(inv, notify.Info("There are no house regions in this world."))
		return nil
	}
	terms := make([]string, 0, len(owners))
	for _, o := range owners {
		terms = append(terms, fmt.Sprintf("%s (%d)", o.Owner, o.Houses))
	}
	h.say(inv, notify.Heading("House Owners:"), notify.Info(strings.Join(terms, ", ")))
	return nil
}

// houseHere finds the house at the player's position.
func (h *Handler) houseHere(ctx context.Context, inv Invocation) (registry.House, error) {
	house, ok, err := h.reg.HouseAt(ctx, inv.Position)
	if err != nil {
		return registry.House{}, err
	}
	if !ok {
		return registry.House{}, registry.ErrNotAHouseRegion
	}
	return house, nil
}

// accessibleHouseHere additionally requires ownership or the master capability.
func (h *Handler) accessibleHouseHere(ctx context.Context, inv Invocation) (registry.House, error) {
	house, err := h.houseHere(ctx, inv)
	if err != nil {
		return house, err
	}
	return house, h.reg.RequireAccess(inv.Account, house)
}

func (h *Handler) info(ctx context.Context, inv Invocation) error {
	house, err := h.houseHere(ctx, inv)
	if err != nil {
		return h.fail(inv, err)
	}
	rg := house.Region
	h.say(inv, notify.Heading("Information About This House:"), notify.Info("Owned by: "+house.Owner))
	if len(rg.AllowedUsers) > 0 {
		h.say(inv, notify.Info("Shared with: "+strings.Join(rg.AllowedUsers, ", ")))
	} else {
		h.say(inv, notify.Info("House is not shared with any users."))
	}
	if len(rg.AllowedGroups) > 0 {
		h.say(inv, notify.Info("Shared with groups: "+strings.Join(rg.AllowedGroups, ", ")))
	} else {
		h.say(inv, notify.Info("House is not shared with any groups."))
	}
	h.previews.Show(inv.Player, h.reg.Config().Previews.Info, rg.Area)
	return nil
}

func (h *Handler) scan(ctx context.Context, inv Invocation) error {
	cfg := h.reg.Config()
	near, err := h.reg.Nearby(ctx, inv.Position, cfg.ScanRadius)
	if err != nil {
		return h.fail(inv, err)
	}
	if len(near) == 0 {
		h.say(inv, notify.Success("There are no nearby house regions."))
		return nil
	}
	areas := make([]geometry.Rect, 0, len(near))
	for _, rg := range near {
		areas = append(areas, rg.Area)
	}
	h.previews.Show(inv.Player, cfg.Previews.Scan, areas...)
	h.say(inv, notify.Info("Hold a wire or wire tool to see all nearby house regions."))
	return nil
}

func (h *Handler) startDefine(ctx context.Context, inv Invocation) error {
	if !inv.Account.LoggedIn {
		return h.fail(inv, registry.ErrNoOwner)
	}
	h.define.Start(ctx, inv.Player, inv.Account)
	return nil
}

// resizeHouse parses "<dir>[ <dir>...] <amount>".
func (h *Handler) resizeHouse(ctx context.Context, inv Invocation, args []string) error {
	const usage = "/house resize <up|down|left|right>[...] <amount>"
	if len(args) < 2 {
		return h.syntax(inv, usage)
	}
	amount, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		return h.syntax(inv, usage)
	}
	dirs := make([]geometry.Direction, 0, len(args)-1)
	for _, a := range args[:len(args)-1] {
		d, err := geometry.ParseDirection(a)
		if err != nil {
			return h.syntax(inv, usage)
		}
		dirs = append(dirs, d)
	}

	house, err := h.accessibleHouseHere(ctx, inv)
	if err != nil {
		return h.fail(inv, err)
	}
	region := house.Region
	oldArea := region.Area
	if err := h.resize.Resize(ctx, inv.Account.Name, &region, dirs, amount); err != nil {
		return h.fail(inv, err)
	}
	h.say(inv, notify.Success("House was successfully resized."))
	h.out.RestoreArea(inv.Player, oldArea)
	h.previews.Show(inv.Player, h.reg.Config().Previews.Resize, region.Area)
	return nil
}

func (h *Handler) deleteHouse(ctx context.Context, inv Invocation) error {
	house, err := h.accessibleHouseHere(ctx, inv)
	if err != nil {
		return h.fail(inv, err)
	}
	if err := h.reg.DeleteHouse(ctx, inv.Account.Name, house); err != nil {
		return h.fail(inv, err)
	}
	h.say(inv, notify.Success("The house was successfully deleted."))
	return nil
}

var (
	ErrUnknownUser  = errors.New("unknown user")
	ErrUnknownGroup = errors.New("unknown group")
	ErrAlreadyOwner = errors.New("already the owner")
)

func (h *Handler) setOwner(ctx context.Context, inv Invocation, args []string) error {
	if len(args) == 0 {
		return h.syntax(inv, "/house setowner <user name>")
	}
	name := strings.Join(args, " ")
	target, ok := h.accounts.UserByName(name)
	if !ok {
		h.say(inv, notify.Error(fmt.Sprintf("No user with the name %q exists.", name)))
		return ErrUnknownUser
	}
	house, err := h.accessibleHouseHere(ctx, inv)
	if err != nil {
		return h.fail(inv, err)
	}
	if target.Name == house.Owner {
		h.say(inv, notify.Error(target.Name+" is already the owner of this house."))
		return ErrAlreadyOwner
	}
	if _, err := h.reg.SetOwner(ctx, house, target); err != nil {
		if errors.Is(err, registry.ErrLimitExceeded) {
			h.say(inv, notify.Error("The new owner of the house would exceed their house limit."))
			return err
		}
		return h.fail(inv, err)
	}
	h.say(inv, notify.Success(fmt.Sprintf(
		"The owner of this house has been set to %q and all shared users and groups were removed from it.", target.Name)))
	return nil
}

func (h *Handler) share(ctx context.Context, inv Invocation, args []string, kind registry.AccessKind, grant bool) error {
	verb := "share"
	if !grant {
		verb = "unshare"
	}
	if kind == registry.AccessGroup {
		verb += "group"
	}
	if len(args) == 0 {
		return h.syntax(inv, fmt.Sprintf("/house %s <%s name>", verb, kind))
	}
	target := strings.Join(args, " ")
	if kind == registry.AccessGroup {
		if !h.accounts.GroupExists(target) {
			h.say(inv, notify.Error(fmt.Sprintf("A group with the name %q does not exist.", target)))
			return ErrUnknownGroup
		}
	} else {
		acc, ok := h.accounts.UserByName(target)
		if !ok {
			h.say(inv, notify.Error(fmt.Sprintf("No user with the name %q exists.", target)))
			return ErrUnknownUser
		}
		target = acc.Name
	}

	house, err := h.accessibleHouseHere(ctx, inv)
	if err != nil {
		return h.fail(inv, err)
	}
	if grant {
		err = h.reg.Share(ctx, inv.Account.Name, house, kind, target)
	} else {
		err = h.reg.Unshare(ctx, inv.Account.Name, house, kind, target)
	}
	if err != nil {
		return h.fail(inv, err)
	}

	var msg string
	switch {
	case kind == registry.AccessGroup && grant:
		msg = fmt.Sprintf("All users of group %q have build access to this house now.", target)
	case kind == registry.AccessGroup:
		msg = fmt.Sprintf("Users of group %q have no build access to this house anymore.", target)
	case grant:
		msg = fmt.Sprintf("User %q has build access to this house now.", target)
	default:
		msg = fmt.Sprintf("User %q has no build access to this house anymore.", target)
	}
	h.say(inv, notify.Success(msg))
	return nil
}

func (h *Handler) reloadConfig(inv Invocation) error {
	if h.reload == nil {
		h.say(inv, notify.Error("Configuration reloading is not available."))
		return errors.New("reload not configured")
	}
	h.log.Printf("reloading configuration (requested by %s)", inv.Account.Name)
	cfg, err := h.reload()
	if err != nil {
		h.log.Printf("reload failed, keeping old configuration: %v", err)
		h.say(inv, notify.Error("Reloading the configuration file failed. Keeping old configuration."))
		return err
	}
	h.reg.ApplyConfig(cfg)
	h.log.Printf("configuration reloaded")
	h.say(inv, notify.Success("Configuration file successfully reloaded."))
	return nil
}
