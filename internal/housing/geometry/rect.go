package geometry

import "fmt"

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Rect is an axis-aligned tile rectangle. Right and Bottom are the far edge
// coordinates (X+Width, Y+Height) and are part of the area.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r Rect) Left() int   { return r.X }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }

func (r Rect) Tiles() int { return r.Width * r.Height }

func (r Rect) Empty() bool { return r == Rect{} }

// Degenerate reports a rectangle that cannot back a house.
func (r Rect) Degenerate() bool { return r.Width <= 0 || r.Height <= 0 }

func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains uses inclusive bounds on all four edges.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Intersects treats touching edges as an intersection; two rects are apart
// only when one lies strictly left/right/above/below the other.
func (r Rect) Intersects(o Rect) bool {
	if r.Right() < o.Left() || r.Left() > o.Right() {
		return false
	}
	if r.Bottom() < o.Top() || r.Top() > o.Bottom() {
		return false
	}
	return true
}

func (r Rect) String() string {
	return fmt.Sprintf("x=%d y=%d w=%d h=%d", r.X, r.Y, r.Width, r.Height)
}

// BoundingRect spans two corner tiles.
func BoundingRect(a, b Point) Rect {
	return Rect{
		X:      min(a.X, b.X),
		Y:      min(a.Y, b.Y),
		Width:  abs(a.X - b.X),
		Height: abs(a.Y - b.Y),
	}
}

// Outline returns the dotted boundary of r: every boundary tile whose
// coordinate sum is even, walked clockwise from the top-left corner.
func Outline(r Rect) []Point {
	if r.Width < 0 || r.Height < 0 {
		return nil
	}
	var out []Point
	seen := map[Point]bool{}
	add := func(x, y int) {
		p := Point{X: x, Y: y}
		if seen[p] || (x+y)&1 != 0 {
			return
		}
		seen[p] = true
		out = append(out, p)
	}
	for x := r.Left(); x <= r.Right(); x++ {
		add(x, r.Top())
	}
	for y := r.Top() + 1; y <= r.Bottom(); y++ {
		add(r.Right(), y)
	}
	for x := r.Right() - 1; x >= r.Left(); x-- {
		add(x, r.Bottom())
	}
	for y := r.Bottom() - 1; y > r.Top(); y-- {
		add(r.Left(), y)
	}
	return out
}

// Cross is the plus-shaped corner marker centered on p.
func Cross(p Point) []Point {
	return []Point{
		p,
		{X: p.X - 1, Y: p.Y},
		{X: p.X + 1, Y: p.Y},
		{X: p.X, Y: p.Y - 1},
		{X: p.X, Y: p.Y + 1},
	}
}

// DistanceSq is the squared euclidean distance between two tiles.
func DistanceSq(a, b Point) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
