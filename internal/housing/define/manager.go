package define

import (
	"context"
	"log"
	"sync"

	"houseregions.ai/internal/directory"
	"houseregions.ai/internal/housing/geometry"
	"houseregions.ai/internal/housing/notify"
	"houseregions.ai/internal/housing/registry"
)

// Manager owns at most one live session per player.
type Manager struct {
	reg   *registry.Registry
	out   notify.Presenter
	sched notify.Scheduler
	log   *log.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(reg *registry.Registry, out notify.Presenter, sched notify.Scheduler, logger *log.Logger) *Manager {
	if sched == nil {
		sched = notify.Timers{}
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[define] ", log.LstdFlags)
	}
	return &Manager{reg: reg, out: out, sched: sched, log: logger, sessions: map[string]*Session{}}
}

// Start begins a house definition for player, cancelling any session the
// player already had.
func (m *Manager) Start(ctx context.Context, player string, acc directory.Account) *Session {
	d := &definition{m: m, ctx: context.WithoutCancel(ctx), player: player, account: acc}
	cb := Callbacks{Edit: d.edit, Timeout: d.timeout, Abort: d.abort}
	s := newSession(player, cb, m.sched, m.reg.Config().DefineTimeout, m.remove)

	m.mu.Lock()
	old := m.sessions[player]
	m.sessions[player] = s
	m.mu.Unlock()
	if old != nil {
		old.abort()
	}

	notify.NotifyAll(m.out, player, promptCorner1...)
	return s
}

// HandleEdit routes e to the player's live session. It reports whether the
// edit was consumed; unconsumed edits should be applied by the host as usual.
func (m *Manager) HandleEdit(e Edit) bool {
	s := m.session(e.Player)
	if s == nil {
		return false
	}
	return s.handle(e)
}

// Abort cancels the player's live session, clearing any markers it shows.
func (m *Manager) Abort(player string) bool {
	s := m.session(player)
	if s == nil {
		return false
	}
	return s.abort()
}

// Active returns the state of the player's live session.
func (m *Manager) Active(player string) (State, bool) {
	s := m.session(player)
	if s == nil {
		return 0, false
	}
	st := s.State()
	return st, !st.Terminal()
}

func (m *Manager) session(player string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[player]
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	if m.sessions[s.Player] == s {
		delete(m.sessions, s.Player)
	}
	m.mu.Unlock()
}

var (
	promptCorner1 = []notify.Notice{
		notify.Heading("First Mark"),
		notify.Info("Mark the top left tile of your house by placing a wire using a wrench."),
	}
	promptCorner2 = []notify.Notice{
		notify.Heading("Second Mark"),
		notify.Info("Mark the bottom right tile of your house by placing a wire using a wrench."),
	}
	promptFinal = []notify.Notice{
		notify.Heading("Final Mark"),
		notify.Info("Mark any point inside your house to accept, or any point outside the house to cancel."),
	}
)

// definition holds the corners of one session. Its callbacks run with the
// session lock held.
type definition struct {
	m       *Manager
	ctx     context.Context
	player  string
	account directory.Account

	corner1, corner2 geometry.Point
	has1, has2       bool
	area             geometry.Rect
	hasArea          bool
}

func (d *definition) edit(s *Session, e Edit) State {
	out := d.m.out
	if e.Type.IsDestroyMarker() {
		switch {
		case d.has1 && e.At == d.corner1:
			d.has1 = false
			d.unsetCorner(e.At, d.corner2, d.has2)
			notify.NotifyAll(out, d.player, promptCorner1...)
			return d.cornerState()
		case d.has2 && e.At == d.corner2:
			d.has2 = false
			d.unsetCorner(e.At, d.corner1, d.has1)
			notify.NotifyAll(out, d.player, promptCorner2...)
			return d.cornerState()
		case s.state != AwaitingConfirmation:
			return s.state
		}
	}

	if s.state != AwaitingConfirmation {
		if !d.has1 {
			d.corner1, d.has1 = e.At, true
		} else {
			d.corner2, d.has2 = e.At, true
		}
		out.Restore(d.player, e.At)
		out.ShowCross(d.player, e.At)
		if e.Type.IsPlaceMarker() {
			out.RefundWire(d.player)
		}
		next := d.cornerState()
		switch next {
		case AwaitingConfirmation:
			d.area, d.hasArea = geometry.BoundingRect(d.corner1, d.corner2), true
			out.ShowOutline(d.player, d.area)
			notify.NotifyAll(out, d.player, promptFinal...)
		case AwaitingCorner2:
			notify.NotifyAll(out, d.player, promptCorner2...)
		default:
			notify.NotifyAll(out, d.player, promptCorner1...)
		}
		return next
	}

	return d.finalMark(e)
}

// unsetCorner removes the preview and the cross at at, then redraws the
// remaining corner.
func (d *definition) unsetCorner(at, other geometry.Point, hasOther bool) {
	out := d.m.out
	if d.hasArea {
		out.RestoreArea(d.player, d.area)
		d.hasArea = false
	}
	out.Restore(d.player, at)
	if hasOther {
		out.ShowCross(d.player, other)
	}
}

func (d *definition) cornerState() State {
	switch {
	case !d.has1:
		return AwaitingCorner1
	case !d.has2:
		return AwaitingCorner2
	default:
		return AwaitingConfirmation
	}
}

func (d *definition) finalMark(e Edit) State {
	out := d.m.out
	d.clearMarkers()
	out.Restore(d.player, e.At)
	if e.Type.IsPlaceMarker() {
		out.RefundWire(d.player)
	}

	if !d.area.Contains(e.At) {
		out.Notify(d.player, notify.Warning("Defining of house was aborted."))
		return Cancelled
	}
	if d.area.Degenerate() {
		out.Notify(d.player, notify.Error("The house has to be at least one block high and wide."))
		return Cancelled
	}
	region, err := d.m.reg.CreateHouse(d.ctx, d.account, d.area, registry.Options{CheckOverlap: true, CheckLimits: true})
	if err != nil {
		if !registry.IsDomainError(err) {
			d.m.log.Printf("define %s: %v", d.account.Name, err)
		}
		notify.NotifyAll(out, d.player, notify.Explain(err, d.m.reg.Config())...)
		return Cancelled
	}
	d.m.log.Printf("define %s: created %s at %s", d.account.Name, region.Name, region.Area)
	notify.NotifyAll(out, d.player,
		notify.Success("House was successfully created. Other players can no longer change blocks"),
		notify.Success("inside the defined house region."),
	)
	return Committed
}

func (d *definition) clearMarkers() {
	out := d.m.out
	if d.has1 {
		out.Restore(d.player, d.corner1)
	}
	if d.has2 {
		out.Restore(d.player, d.corner2)
	}
	if d.hasArea {
		out.RestoreArea(d.player, d.area)
		d.hasArea = false
	}
}

// timeout leaves markers in place; the host redraws them on the next tile update.
func (d *definition) timeout(*Session) {
	d.m.out.Notify(d.player, notify.Error("Waited too long. No house will be defined."))
}

func (d *definition) abort(*Session) {
	d.clearMarkers()
}
