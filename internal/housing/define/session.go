package define

import (
	"sync"
	"time"

	"houseregions.ai/internal/housing/notify"
)

type State int

const (
	AwaitingCorner1 State = iota
	AwaitingCorner2
	AwaitingConfirmation
	Committed
	Cancelled
	TimedOut
)

func (s State) String() string {
	switch s {
	case AwaitingCorner1:
		return "awaiting_corner1"
	case AwaitingCorner2:
		return "awaiting_corner2"
	case AwaitingConfirmation:
		return "awaiting_confirmation"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	case TimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

func (s State) Terminal() bool { return s >= Committed }

// Callbacks parameterize a Session. Edit only sees marker edits; it returns
// the state the session moves to. Timeout and Abort run once, after the
// session has ended.
type Callbacks struct {
	Edit    func(s *Session, e Edit) State
	Timeout func(s *Session)
	Abort   func(s *Session)
}

// Session is one player's interaction. Its methods are serialized by mu,
// so edits for a player are processed one at a time in arrival order.
type Session struct {
	Player string

	mu      sync.Mutex
	state   State
	cb      Callbacks
	sched   notify.Scheduler
	timeout time.Duration
	timer   notify.Task
	gen     int
	onEnd   func(*Session)
}

func newSession(player string, cb Callbacks, sched notify.Scheduler, timeout time.Duration, onEnd func(*Session)) *Session {
	s := &Session{Player: player, cb: cb, sched: sched, timeout: timeout, onEnd: onEnd}
	s.mu.Lock()
	s.armLocked()
	s.mu.Unlock()
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// armLocked (re)starts the inactivity deadline.
func (s *Session) armLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = s.sched.AfterFunc(s.timeout, func() { s.expire(gen) })
}

// handle feeds e to the Edit callback. Non-marker edits are not handled.
func (s *Session) handle(e Edit) bool {
	if !e.Type.IsMarker() {
		return false
	}
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return false
	}
	next := s.cb.Edit(s, e)
	s.state = next
	if !next.Terminal() {
		s.armLocked()
		s.mu.Unlock()
		return true
	}
	s.timer.Stop()
	s.mu.Unlock()
	s.onEnd(s)
	return true
}

func (s *Session) expire(gen int) {
	s.mu.Lock()
	if s.state.Terminal() || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.state = TimedOut
	if s.cb.Timeout != nil {
		s.cb.Timeout(s)
	}
	s.mu.Unlock()
	s.onEnd(s)
}

// abort ends a live session as Cancelled. It reports false if the session
// had already ended.
func (s *Session) abort() bool {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return false
	}
	s.state = Cancelled
	s.timer.Stop()
	if s.cb.Abort != nil {
		s.cb.Abort(s)
	}
	s.mu.Unlock()
	s.onEnd(s)
	return true
}
