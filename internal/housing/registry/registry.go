// Package registry creates, transfers and looks up house regions on top of
// a generic region store. It holds no regions itself.
package registry

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"

	"houseregions.ai/internal/audit"
	"houseregions.ai/internal/directory"
	"houseregions.ai/internal/housing/codec"
	"houseregions.ai/internal/housing/config"
	"houseregions.ai/internal/housing/geometry"
	"houseregions.ai/internal/housing/permissions"
	"houseregions.ai/internal/regionstore"
)

type Registry struct {
	store regionstore.Store
	perms permissions.Checker
	audit audit.Recorder
	log   *log.Logger

	mu  sync.RWMutex
	cfg config.Config
}

func New(store regionstore.Store, perms permissions.Checker, cfg config.Config, logger *log.Logger, rec audit.Recorder) *Registry {
	if logger == nil {
		logger = log.New(log.Writer(), "[registry] ", log.LstdFlags)
	}
	if rec == nil {
		rec = audit.Nop{}
	}
	return &Registry{store: store, perms: perms, audit: rec, log: logger, cfg: cfg}
}

func (r *Registry) Store() regionstore.Store { return r.store }

func (r *Registry) Config() config.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

func (r *Registry) ApplyConfig(cfg config.Config) {
	r.mu.Lock()
	r.cfg = cfg
	r.mu.Unlock()
}

func (r *Registry) HasCapability(acc directory.Account, perm string) bool {
	return r.perms.HasCapability(acc.Group, perm)
}

func (r *Registry) Permissions() permissions.Checker { return r.perms }

// House is a region whose name decodes to an owner and index.
type House struct {
	Owner  string
	Index  int
	Region regionstore.Region
}

type Options struct {
	CheckOverlap bool
	CheckLimits  bool
	// SkipDefinePermission keeps the limit and size checks but does not
	// require the owner to hold the define capability.
	SkipDefinePermission bool
}

// CheckSize validates area against the configured bounds.
func (r *Registry) CheckSize(area geometry.Rect) error {
	cfg := r.Config()
	ok, bound := geometry.CheckSize(area, cfg.MinSize, cfg.MaxSize)
	if ok {
		return nil
	}
	limits := cfg.MinSize
	if bound == geometry.BoundMax {
		limits = cfg.MaxSize
	}
	return &SizeError{Bound: bound, Limits: limits, Area: area}
}

// CheckOverlap lists the store and reports ErrOverlap on a disallowed overlap.
func (r *Registry) CheckOverlap(ctx context.Context, owner string, area geometry.Rect) error {
	all, err := r.store.ListAll(ctx)
	if err != nil {
		return storeFailure("list regions", err)
	}
	if geometry.CheckOverlap(owner, area, regionstore.Zones(all), r.Config().AllowForeignOverlap) {
		return ErrOverlap
	}
	return nil
}

func (r *Registry) CreateHouse(ctx context.Context, owner directory.Account, area geometry.Rect, opts Options) (regionstore.Region, error) {
	if owner.Name == "" {
		return regionstore.Region{}, ErrNoOwner
	}
	if area.Degenerate() {
		return regionstore.Region{}, ErrDegenerateArea
	}
	cfg := r.Config()

	maxHouses := math.MaxInt
	if opts.CheckLimits {
		if !opts.SkipDefinePermission && !r.perms.HasCapability(owner.Group, permissions.Define) {
			return regionstore.Region{}, &PermissionError{Permission: permissions.Define}
		}
		if !r.perms.HasCapability(owner.Group, permissions.NoLimits) {
			if cfg.MaxHousesPerUser > 0 {
				maxHouses = cfg.MaxHousesPerUser
			}
			if err := r.CheckSize(area); err != nil {
				return regionstore.Region{}, err
			}
		}
	}

	if opts.CheckOverlap {
		if err := r.CheckOverlap(ctx, owner.Name, area); err != nil {
			return regionstore.Region{}, err
		}
	}

	name := ""
	for index := 1; index <= maxHouses; index++ {
		candidate := codec.Encode(owner.Name, index)
		_, exists, err := r.store.GetByName(ctx, candidate)
		if err != nil {
			return regionstore.Region{}, storeFailure("lookup "+candidate, err)
		}
		if !exists {
			name = candidate
			break
		}
	}
	if name == "" {
		return regionstore.Region{}, ErrLimitExceeded
	}

	region := regionstore.Region{
		Name:     name,
		Owner:    owner.Name,
		Area:     area,
		Priority: cfg.DefaultPriority,
	}
	if err := r.store.AddRegion(ctx, region); err != nil {
		r.log.Printf("create %s: %v", name, err)
		return regionstore.Region{}, storeFailure("create "+name, err)
	}
	r.Record(audit.Entry{Actor: owner.Name, Action: audit.ActionCreate, Region: name, Owner: owner.Name, Area: &area})
	return region, nil
}

// TransferOwnership renames region to newOwner's name with the same index.
// Limits are not re-checked here.
func (r *Registry) TransferOwnership(ctx context.Context, actor string, region regionstore.Region, newOwner string) (regionstore.Region, error) {
	if region.Owner == newOwner {
		return region, nil
	}
	_, index, ok := codec.Decode(region.Name)
	if !ok {
		return region, ErrNotAHouseRegion
	}
	newName := codec.Encode(newOwner, index)
	if err := r.store.RenameAndReown(ctx, region.Name, newName, newOwner); err != nil {
		r.log.Printf("transfer %s to %s: %v", region.Name, newOwner, err)
		return region, storeFailure("transfer "+region.Name, err)
	}
	r.Record(audit.Entry{
		Actor:   actor,
		Action:  audit.ActionTransfer,
		Region:  newName,
		Owner:   newOwner,
		Details: map[string]any{"from": region.Name},
	})
	region.Name = newName
	region.Owner = newOwner
	return region, nil
}

// SetOwner moves a house to newOwner by creating a fresh house for them
// (limits and size enforced, overlap not) and deleting the old region.
// Shared users and groups are not carried over.
func (r *Registry) SetOwner(ctx context.Context, house House, newOwner directory.Account) (regionstore.Region, error) {
	created, err := r.CreateHouse(ctx, newOwner, house.Region.Area, Options{CheckLimits: true, SkipDefinePermission: true})
	if err != nil {
		return regionstore.Region{}, err
	}
	if err := r.store.DeleteRegion(ctx, house.Region.Name); err != nil {
		r.log.Printf("set owner: delete old %s: %v", house.Region.Name, err)
		return created, storeFailure("delete "+house.Region.Name, err)
	}
	r.Record(audit.Entry{
		Actor:   house.Owner,
		Action:  audit.ActionTransfer,
		Region:  created.Name,
		Owner:   newOwner.Name,
		Details: map[string]any{"from": house.Region.Name},
	})
	return created, nil
}

func FindHouseData(name string) (owner string, index int, ok bool) {
	return codec.Decode(name)
}

// FindHouseAt returns the first house (in iteration order) containing pos.
func FindHouseAt(pos geometry.Point, regions []regionstore.Region) (House, bool) {
	for _, rg := range regions {
		if !rg.Area.Contains(pos) {
			continue
		}
		if owner, index, ok := codec.Decode(rg.Name); ok {
			return House{Owner: owner, Index: index, Region: rg}, true
		}
	}
	return House{}, false
}

func (r *Registry) HouseAt(ctx context.Context, pos geometry.Point) (House, bool, error) {
	all, err := r.store.ListAll(ctx)
	if err != nil {
		return House{}, false, storeFailure("list regions", err)
	}
	h, ok := FindHouseAt(pos, all)
	return h, ok, nil
}

// RequireAccess allows the owner and housing masters.
func (r *Registry) RequireAccess(acc directory.Account, h House) error {
	if acc.Name == h.Owner || r.perms.HasCapability(acc.Group, permissions.HousingMaster) {
		return nil
	}
	return ErrNotOwner
}

func (r *Registry) DeleteHouse(ctx context.Context, actor string, h House) error {
	if err := r.store.DeleteRegion(ctx, h.Region.Name); err != nil {
		r.log.Printf("delete %s: %v", h.Region.Name, err)
		return storeFailure("delete "+h.Region.Name, err)
	}
	area := h.Region.Area
	r.Record(audit.Entry{Actor: actor, Action: audit.ActionDelete, Region: h.Region.Name, Owner: h.Owner, Area: &area})
	return nil
}

type AccessKind int

const (
	AccessUser AccessKind = iota
	AccessGroup
)

func (k AccessKind) String() string {
	if k == AccessGroup {
		return "group"
	}
	return "user"
}

// Share grants build access to a user or group.
func (r *Registry) Share(ctx context.Context, actor string, h House, kind AccessKind, target string) error {
	var err error
	if kind == AccessGroup {
		err = r.store.AllowGroup(ctx, h.Region.Name, target)
	} else {
		err = r.store.AddUser(ctx, h.Region.Name, target)
	}
	if err != nil {
		r.log.Printf("share %s with %s %s: %v", h.Region.Name, kind, target, err)
		return storeFailure("share "+h.Region.Name, err)
	}
	r.Record(audit.Entry{Actor: actor, Action: audit.ActionShare, Region: h.Region.Name, Owner: h.Owner,
		Details: map[string]any{kind.String(): target}})
	return nil
}

func (r *Registry) Unshare(ctx context.Context, actor string, h House, kind AccessKind, target string) error {
	var err error
	if kind == AccessGroup {
		err = r.store.RemoveGroup(ctx, h.Region.Name, target)
	} else {
		err = r.store.RemoveUser(ctx, h.Region.Name, target)
	}
	if err != nil {
		r.log.Printf("unshare %s from %s %s: %v", h.Region.Name, kind, target, err)
		return storeFailure("unshare "+h.Region.Name, err)
	}
	r.Record(audit.Entry{Actor: actor, Action: audit.ActionUnshare, Region: h.Region.Name, Owner: h.Owner,
		Details: map[string]any{kind.String(): target}})
	return nil
}

func (r *Registry) CountHouses(ctx context.Context, owner string) (int, error) {
	all, err := r.store.ListAll(ctx)
	if err != nil {
		return 0, storeFailure("list regions", err)
	}
	n := 0
	for _, rg := range all {
		if o, _, ok := codec.Decode(rg.Name); ok && o == owner {
			n++
		}
	}
	return n, nil
}

type OwnerCount struct {
	Owner  string
	Houses int
}

// Summary counts houses per owner in first-seen order.
func (r *Registry) Summary(ctx context.Context) ([]OwnerCount, error) {
	all, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, storeFailure("list regions", err)
	}
	var out []OwnerCount
	pos := map[string]int{}
	for _, rg := range all {
		owner, _, ok := codec.Decode(rg.Name)
		if !ok {
			continue
		}
		i, seen := pos[owner]
		if !seen {
			pos[owner] = len(out)
			out = append(out, OwnerCount{Owner: owner, Houses: 1})
			continue
		}
		out[i].Houses++
	}
	return out, nil
}

// Nearby lists house regions whose center lies within radius tiles of pos.
func (r *Registry) Nearby(ctx context.Context, pos geometry.Point, radius int) ([]regionstore.Region, error) {
	all, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, storeFailure("list regions", err)
	}
	var out []regionstore.Region
	for _, rg := range all {
		if !codec.IsHouseRegion(rg.Name) {
			continue
		}
		if geometry.DistanceSq(pos, rg.Area.Center()) <= radius*radius {
			out = append(out, rg)
		}
	}
	return out, nil
}

// Record appends an audit entry; failures are logged, not returned.
func (r *Registry) Record(e audit.Entry) {
	if err := r.audit.Record(e); err != nil {
		r.log.Printf("audit %s %s: %v", e.Action, e.Region, err)
	}
}

// IsDomainError reports whether err is one of the expected rule rejections.
func IsDomainError(err error) bool {
	for _, target := range []error{ErrMissingPermission, ErrInvalidSize, ErrOverlap, ErrLimitExceeded, ErrNotAHouseRegion, ErrNotOwner, ErrDegenerateArea, ErrNoOwner} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
