// Package define runs the interactive two-corner house definition driven by
// wire edits.
package define

import "houseregions.ai/internal/housing/geometry"

type EditType string

const (
	PlaceWire         EditType = "PLACE_WIRE"
	PlaceWireBlue     EditType = "PLACE_WIRE_BLUE"
	PlaceWireGreen    EditType = "PLACE_WIRE_GREEN"
	PlaceWireYellow   EditType = "PLACE_WIRE_YELLOW"
	DestroyWire       EditType = "DESTROY_WIRE"
	DestroyWireBlue   EditType = "DESTROY_WIRE_BLUE"
	DestroyWireGreen  EditType = "DESTROY_WIRE_GREEN"
	DestroyWireYellow EditType = "DESTROY_WIRE_YELLOW"

	PlaceTile   EditType = "PLACE_TILE"
	DestroyTile EditType = "DESTROY_TILE"
	PlaceWall   EditType = "PLACE_WALL"
	DestroyWall EditType = "DESTROY_WALL"
)

func (t EditType) IsPlaceMarker() bool {
	switch t {
	case PlaceWire, PlaceWireBlue, PlaceWireGreen, PlaceWireYellow:
		return true
	}
	return false
}

func (t EditType) IsDestroyMarker() bool {
	switch t {
	case DestroyWire, DestroyWireBlue, DestroyWireGreen, DestroyWireYellow:
		return true
	}
	return false
}

func (t EditType) IsMarker() bool { return t.IsPlaceMarker() || t.IsDestroyMarker() }

// Known reports whether t is an edit type the host may send.
func (t EditType) Known() bool {
	switch t {
	case PlaceTile, DestroyTile, PlaceWall, DestroyWall:
		return true
	}
	return t.IsMarker()
}

// Edit is one tile edit made by a player.
type Edit struct {
	Player string
	Type   EditType
	At     geometry.Point
}
