package notify

import (
	"sort"
	"sync"
	"time"
)

// Task is a pending delayed callback.
type Task interface {
	// Stop cancels the callback; it reports false if it already ran or was stopped.
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Task
}

// Timers schedules callbacks on the runtime timer heap.
type Timers struct{}

func (Timers) AfterFunc(d time.Duration, fn func()) Task { return time.AfterFunc(d, fn) }

// Manual is a Scheduler driven by Advance, for deterministic tests.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	m   *Manual
	at  time.Duration
	seq int
	fn  func()
	// guarded by m.mu
	done bool
}

func (t *manualTask) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTask{m: m, at: m.now + d, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance moves the clock forward and runs every due callback in deadline
// order. Callbacks run without the scheduler lock held and may schedule more.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()
	for {
		m.mu.Lock()
		sort.SliceStable(m.tasks, func(i, j int) bool {
			if m.tasks[i].at != m.tasks[j].at {
				return m.tasks[i].at < m.tasks[j].at
			}
			return m.tasks[i].seq < m.tasks[j].seq
		})
		var next *manualTask
		for len(m.tasks) > 0 {
			t := m.tasks[0]
			if t.done {
				m.tasks = m.tasks[1:]
				continue
			}
			if t.at <= target {
				next = t
				next.done = true
				m.tasks = m.tasks[1:]
				if t.at > m.now {
					m.now = t.at
				}
			}
			break
		}
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.mu.Unlock()
		next.fn()
	}
}

// Pending counts scheduled callbacks that have not run or been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.done {
			n++
		}
	}
	return n
}
