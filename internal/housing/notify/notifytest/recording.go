// Package notifytest provides a Presenter that records calls for tests.
package notifytest

import (
	"sync"

	"houseregions.ai/internal/housing/geometry"
	"houseregions.ai/internal/housing/notify"
)

// Call is one Presenter invocation captured by Recording.
type Call struct {
	Player string
	Op     string
	Notice notify.Notice
	Point  geometry.Point
	Area   geometry.Rect
}

var _ notify.Presenter = (*Recording)(nil)

// Recording is a Presenter that keeps every call in memory.
type Recording struct {
	mu    sync.Mutex
	calls []Call
}

func (r *Recording) add(c Call) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

func (r *Recording) Notify(player string, n notify.Notice) {
	r.add(Call{Player: player, Op: "notify", Notice: n})
}

func (r *Recording) ShowCross(player string, p geometry.Point) {
	r.add(Call{Player: player, Op: "cross", Point: p})
}

func (r *Recording) ShowOutline(player string, a geometry.Rect) {
	r.add(Call{Player: player, Op: "outline", Area: a})
}

func (r *Recording) Restore(player string, p geometry.Point) {
	r.add(Call{Player: player, Op: "restore", Point: p})
}

func (r *Recording) RestoreArea(player string, a geometry.Rect) {
	r.add(Call{Player: player, Op: "restore_area", Area: a})
}

func (r *Recording) RefundWire(player string) {
	r.add(Call{Player: player, Op: "refund"})
}

func (r *Recording) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

func (r *Recording) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

// Count returns how many calls with op were recorded.
func (r *Recording) Count(op string) int {
	n := 0
	for _, c := range r.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Notices returns the texts of all recorded notices of kind k.
func (r *Recording) Notices(k notify.Kind) []string {
	var out []string
	for _, c := range r.Calls() {
		if c.Op == "notify" && c.Notice.Kind == k {
			out = append(out, c.Notice.Text)
		}
	}
	return out
}
