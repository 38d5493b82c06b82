package geometry

import (
	"fmt"
	"strings"
)

// Direction codes match the region store's resize codes.
type Direction int

const (
	Up    Direction = 0
	Right Direction = 1
	Down  Direction = 2
	Left  Direction = 3
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "right", "r":
		return Right, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Grow moves the edge facing d outward by amount; a negative amount shrinks.
func (r Rect) Grow(d Direction, amount int) Rect {
	switch d {
	case Up:
		r.Y -= amount
		r.Height += amount
	case Down:
		r.Height += amount
	case Left:
		r.X -= amount
		r.Width += amount
	case Right:
		r.Width += amount
	}
	return r
}
