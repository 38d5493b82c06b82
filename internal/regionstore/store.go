// Package regionstore holds the generic protected-region store the housing
// core builds on, with in-memory and SQLite implementations.
package regionstore

import (
	"context"
	"errors"

	"houseregions.ai/internal/housing/geometry"
)

var (
	ErrNotFound = errors.New("region not found")
	ErrExists   = errors.New("region already exists")
)

type Region struct {
	Name     string
	Owner    string
	WorldID  string
	Area     geometry.Rect
	Priority int

	AllowedUsers  []string
	AllowedGroups []string
}

func (r Region) Zone() geometry.Zone {
	return geometry.Zone{Name: r.Name, Area: r.Area}
}

// Zones projects regions onto the view the overlap check consumes.
func Zones(regions []Region) []geometry.Zone {
	out := make([]geometry.Zone, 0, len(regions))
	for _, r := range regions {
		out = append(out, r.Zone())
	}
	return out
}

func (r Region) clone() Region {
	r.AllowedUsers = append([]string(nil), r.AllowedUsers...)
	r.AllowedGroups = append([]string(nil), r.AllowedGroups...)
	return r
}

// Store is the region service contract. ListAll returns regions in a stable
// iteration order (creation order for both implementations).
type Store interface {
	AddRegion(ctx context.Context, r Region) error
	DeleteRegion(ctx context.Context, name string) error
	ResizeRegion(ctx context.Context, name string, amount int, dir geometry.Direction) error
	RenameAndReown(ctx context.Context, name, newName, newOwner string) error
	GetByName(ctx context.Context, name string) (Region, bool, error)
	ListAll(ctx context.Context) ([]Region, error)

	AddUser(ctx context.Context, regionName, user string) error
	RemoveUser(ctx context.Context, regionName, user string) error
	AllowGroup(ctx context.Context, regionName, group string) error
	RemoveGroup(ctx context.Context, regionName, group string) error
}
