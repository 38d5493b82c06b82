package geometry

import (
	"testing"

	"houseregions.ai/internal/housing/codec"
)

func TestCheckSize(t *testing.T) {
	minSize := SizeLimits{Width: 5, Height: 5, TotalTiles: 30}
	maxSize := SizeLimits{Width: 20, Height: 20, TotalTiles: 200}

	if ok, b := CheckSize(Rect{Width: 6, Height: 6}, minSize, maxSize); !ok || b != BoundNone {
		t.Fatalf("6x6: got (%v, %v)", ok, b)
	}
	// Width fails although height and total tiles pass.
	if ok, b := CheckSize(Rect{Width: 4, Height: 8}, minSize, maxSize); ok || b != BoundMin {
		t.Fatalf("4x8: got (%v, %v)", ok, b)
	}
	// Total tiles fail although width and height pass.
	if ok, b := CheckSize(Rect{Width: 5, Height: 5}, minSize, maxSize); ok || b != BoundMin {
		t.Fatalf("5x5: got (%v, %v)", ok, b)
	}
	if ok, b := CheckSize(Rect{Width: 21, Height: 6}, minSize, maxSize); ok || b != BoundMax {
		t.Fatalf("21x6: got (%v, %v)", ok, b)
	}
	if ok, b := CheckSize(Rect{Width: 15, Height: 15}, minSize, maxSize); ok || b != BoundMax {
		t.Fatalf("15x15 (225 tiles): got (%v, %v)", ok, b)
	}
}

func TestCheckOverlap(t *testing.T) {
	area := Rect{X: 10, Y: 10, Width: 10, Height: 10}
	own := Zone{Name: codec.Encode("alice", 1), Area: area}
	other := Zone{Name: codec.Encode("bob", 1), Area: Rect{X: 20, Y: 15, Width: 5, Height: 5}}
	foreign := Zone{Name: "spawn", Area: Rect{X: 0, Y: 0, Width: 10, Height: 10}}
	system := Zone{Name: "*arena", Area: Rect{X: 12, Y: 12, Width: 2, Height: 2}}
	far := Zone{Name: "market", Area: Rect{X: 100, Y: 100, Width: 5, Height: 5}}

	if CheckOverlap("alice", area, []Zone{own}, false) {
		t.Fatalf("same-owner house with identical area must not conflict")
	}
	if !CheckOverlap("alice", area, []Zone{own, other}, true) {
		t.Fatalf("expected conflict with another owner's house")
	}
	if !CheckOverlap("alice", area, []Zone{foreign}, false) {
		t.Fatalf("foreign region touching at a corner must conflict when foreign overlap is disallowed")
	}
	if CheckOverlap("alice", area, []Zone{foreign}, true) {
		t.Fatalf("foreign overlap allowed")
	}
	if CheckOverlap("alice", area, []Zone{system, far}, false) {
		t.Fatalf("system regions and distant regions must not conflict")
	}
	if CheckOverlap("alice", area, nil, false) {
		t.Fatalf("no regions, no conflict")
	}
}
