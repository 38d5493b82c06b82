// Package resize moves the edges of an existing house region.
package resize

import (
	"context"
	"fmt"
	"log"

	"houseregions.ai/internal/audit"
	"houseregions.ai/internal/housing/codec"
	"houseregions.ai/internal/housing/geometry"
	"houseregions.ai/internal/housing/registry"
	"houseregions.ai/internal/regionstore"
)

type Engine struct {
	reg *registry.Registry
	log *log.Logger
}

func New(reg *registry.Registry, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(log.Writer(), "[resize] ", log.LstdFlags)
	}
	return &Engine{reg: reg, log: logger}
}

// Step is one store call: move the edge facing Dir by Amount.
type Step struct {
	Dir    geometry.Direction
	Amount int
}

// Steps turns a resize into store calls. When the result would be less than
// one tile wide or high, the last step on that axis is shortened so the edge
// stops one tile from the opposite one.
func Steps(area geometry.Rect, dirs []geometry.Direction, amount int) []Step {
	steps := make([]Step, 0, len(dirs))
	lastH, lastV := -1, -1
	for i, d := range dirs {
		steps = append(steps, Step{Dir: d, Amount: amount})
		area = area.Grow(d, amount)
		switch d {
		case geometry.Left, geometry.Right:
			lastH = i
		case geometry.Up, geometry.Down:
			lastV = i
		}
	}
	if area.Width <= 0 && lastH >= 0 {
		steps[lastH].Amount += 1 - area.Width
	}
	if area.Height <= 0 && lastV >= 0 {
		steps[lastV].Amount += 1 - area.Height
	}
	return steps
}

// Plan is the area the store ends up with after Steps.
func Plan(area geometry.Rect, dirs []geometry.Direction, amount int) geometry.Rect {
	for _, st := range Steps(area, dirs, amount) {
		area = area.Grow(st.Dir, st.Amount)
	}
	return area
}

// Dedupe keeps the first occurrence of each direction.
func Dedupe(dirs []geometry.Direction) []geometry.Direction {
	seen := map[geometry.Direction]bool{}
	out := make([]geometry.Direction, 0, len(dirs))
	for _, d := range dirs {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

// Resize validates the planned area, commits it to region, then applies the
// per-direction deltas to the store. A failing store step rolls region back,
// undoes the steps already applied (best effort) and returns ErrStoreFailure.
func (e *Engine) Resize(ctx context.Context, actor string, region *regionstore.Region, dirs []geometry.Direction, amount int) error {
	dirs = Dedupe(dirs)
	if len(dirs) == 0 || amount == 0 {
		return nil
	}
	owner, _, ok := codec.Decode(region.Name)
	if !ok {
		return registry.ErrNotAHouseRegion
	}

	steps := Steps(region.Area, dirs, amount)
	newArea := region.Area
	for _, st := range steps {
		newArea = newArea.Grow(st.Dir, st.Amount)
	}
	if err := e.reg.CheckSize(newArea); err != nil {
		return err
	}
	if err := e.reg.CheckOverlap(ctx, owner, newArea); err != nil {
		return err
	}

	store := e.reg.Store()
	oldArea := region.Area
	region.Area = newArea
	for i, st := range steps {
		err := store.ResizeRegion(ctx, region.Name, st.Amount, st.Dir)
		if err == nil {
			continue
		}
		e.log.Printf("resize %s %s by %d: %v", region.Name, st.Dir, st.Amount, err)
		region.Area = oldArea
		for j := i - 1; j >= 0; j-- {
			if uerr := store.ResizeRegion(ctx, region.Name, -steps[j].Amount, steps[j].Dir); uerr != nil {
				e.log.Printf("resize %s: undo %s: %v", region.Name, steps[j].Dir, uerr)
			}
		}
		return fmt.Errorf("resize %s: %w: %w", region.Name, registry.ErrStoreFailure, err)
	}

	names := make([]string, 0, len(dirs))
	for _, d := range dirs {
		names = append(names, d.String())
	}
	e.reg.Record(audit.Entry{
		Actor:   actor,
		Action:  audit.ActionResize,
		Region:  region.Name,
		Owner:   owner,
		Area:    &newArea,
		Details: map[string]any{"from": oldArea, "directions": names, "amount": amount},
	})
	return nil
}
