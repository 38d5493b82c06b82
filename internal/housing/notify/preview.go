package notify

import (
	"sync"
	"time"

	"houseregions.ai/internal/housing/geometry"
)

// Previewer shows outlines that hide themselves after a delay. Pending hides
// are tracked per player so a disconnect can cancel them.
type Previewer struct {
	out   Presenter
	sched Scheduler

	mu      sync.Mutex
	pending map[string]map[*preview]struct{}
}

type preview struct {
	areas []geometry.Rect
	task  Task
}

func NewPreviewer(out Presenter, sched Scheduler) *Previewer {
	if sched == nil {
		sched = Timers{}
	}
	return &Previewer{out: out, sched: sched, pending: map[string]map[*preview]struct{}{}}
}

// Show draws the outlines now and removes them after d.
func (v *Previewer) Show(player string, d time.Duration, areas ...geometry.Rect) {
	if len(areas) == 0 {
		return
	}
	for _, a := range areas {
		v.out.ShowOutline(player, a)
	}
	p := &preview{areas: append([]geometry.Rect(nil), areas...)}

	v.mu.Lock()
	set := v.pending[player]
	if set == nil {
		set = map[*preview]struct{}{}
		v.pending[player] = set
	}
	set[p] = struct{}{}
	// Scheduling under the lock keeps a zero-delay callback from racing the insert.
	p.task = v.sched.AfterFunc(d, func() { v.expire(player, p) })
	v.mu.Unlock()
}

func (v *Previewer) expire(player string, p *preview) {
	v.mu.Lock()
	set := v.pending[player]
	_, live := set[p]
	if live {
		delete(set, p)
		if len(set) == 0 {
			delete(v.pending, player)
		}
	}
	v.mu.Unlock()
	if !live {
		return
	}
	for _, a := range p.areas {
		v.out.RestoreArea(player, a)
	}
}

// CancelAll drops every pending hide for player without drawing anything.
func (v *Previewer) CancelAll(player string) {
	v.mu.Lock()
	set := v.pending[player]
	delete(v.pending, player)
	v.mu.Unlock()
	for p := range set {
		p.task.Stop()
	}
}

// Pending reports how many timed previews are outstanding for player.
func (v *Previewer) Pending(player string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.pending[player])
}
