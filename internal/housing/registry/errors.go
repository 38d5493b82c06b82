package registry

import (
	"errors"
	"fmt"

	"houseregions.ai/internal/housing/geometry"
)

var (
	ErrMissingPermission = errors.New("missing permission")
	ErrInvalidSize       = errors.New("invalid house size")
	ErrOverlap           = errors.New("house would overlap another region")
	ErrLimitExceeded     = errors.New("house limit reached")
	ErrNotAHouseRegion   = errors.New("not a house region")
	ErrNotOwner          = errors.New("not the owner of this house")
	ErrStoreFailure      = errors.New("region store failure")

	ErrDegenerateArea = errors.New("house area must be at least one tile wide and high")
	ErrNoOwner        = errors.New("house owner must be a logged in account")
)

// PermissionError names the capability that was missing.
type PermissionError struct {
	Permission string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("missing permission %s", e.Permission)
}

func (e *PermissionError) Is(target error) bool { return target == ErrMissingPermission }

// SizeError carries the violated bound so callers can explain it.
type SizeError struct {
	Bound  geometry.Bound
	Limits geometry.SizeLimits
	Area   geometry.Rect
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("invalid house size %dx%d (%d tiles): violates %s bound %dx%d (%d tiles)",
		e.Area.Width, e.Area.Height, e.Area.Tiles(), e.Bound, e.Limits.Width, e.Limits.Height, e.Limits.TotalTiles)
}

func (e *SizeError) Is(target error) bool { return target == ErrInvalidSize }

func storeFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreFailure, err)
}
