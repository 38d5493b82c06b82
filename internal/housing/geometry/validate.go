package geometry

import "houseregions.ai/internal/housing/codec"

// SizeLimits bounds a house in each of the three measures.
type SizeLimits struct {
	Width      int `yaml:"width" json:"width"`
	Height     int `yaml:"height" json:"height"`
	TotalTiles int `yaml:"total_tiles" json:"total_tiles"`
}

type Bound int

const (
	BoundNone Bound = iota
	BoundMin
	BoundMax
)

func (b Bound) String() string {
	switch b {
	case BoundMin:
		return "min"
	case BoundMax:
		return "max"
	default:
		return "none"
	}
}

// CheckSize reports whether area satisfies both limits. The min bound is
// checked first; each measure is checked independently.
func CheckSize(area Rect, minSize, maxSize SizeLimits) (bool, Bound) {
	tiles := area.Tiles()
	if area.Width < minSize.Width || area.Height < minSize.Height || tiles < minSize.TotalTiles {
		return false, BoundMin
	}
	if area.Width > maxSize.Width || area.Height > maxSize.Height || tiles > maxSize.TotalTiles {
		return false, BoundMax
	}
	return true, BoundNone
}

// Zone is the minimal view of an existing region the overlap check needs.
type Zone struct {
	Name string
	Area Rect
}

// CheckOverlap reports whether area would overlap a region the owner may not
// overlap: another owner's house, or a non-house region unless foreign
// overlap is allowed or the region is a system region.
func CheckOverlap(owner string, area Rect, zones []Zone, allowForeignOverlap bool) bool {
	for _, z := range zones {
		if !area.Intersects(z.Area) {
			continue
		}
		houseOwner, _, isHouse := codec.Decode(z.Name)
		if !isHouse {
			if allowForeignOverlap || codec.IsSystemRegion(z.Name) {
				continue
			}
			return true
		}
		if houseOwner == owner {
			continue
		}
		return true
	}
	return false
}
