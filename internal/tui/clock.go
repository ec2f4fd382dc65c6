package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ensigniasec/cybershield/internal/clock"
)

// teaClock schedules session callbacks as Bubble Tea ticks so that every
// callback runs inside Update, on the program goroutine.
type teaClock struct {
	now     func() time.Time
	nextID  uint64
	pending map[uint64]*teaTimer
	queued  []tea.Cmd
}

type teaTimer struct {
	c   *teaClock
	id  uint64
	due time.Time
	fn  func()
}

func newTeaClock(now func() time.Time) *teaClock {
	return &teaClock{now: now, pending: make(map[uint64]*teaTimer)}
}

// Now implements clock.Clock.
func (c *teaClock) Now() time.Time { return c.now() }

// AfterFunc implements clock.Clock. The tick command is queued until the next
// drain.
func (c *teaClock) AfterFunc(d time.Duration, fn func()) clock.Timer { //nolint:ireturn
	c.nextID++
	t := &teaTimer{c: c, id: c.nextID, due: c.now().Add(d), fn: fn}
	c.pending[t.id] = t
	id := t.id
	c.queued = append(c.queued, tea.Tick(d, func(time.Time) tea.Msg { return timerFiredMsg{id: id} }))
	return t
}

// Stop implements clock.Timer.
func (t *teaTimer) Stop() bool {
	if _, ok := t.c.pending[t.id]; !ok {
		return false
	}
	delete(t.c.pending, t.id)
	return true
}

// fire runs the callback for id unless it was stopped.
func (c *teaClock) fire(id uint64) {
	t, ok := c.pending[id]
	if !ok {
		return
	}
	delete(c.pending, id)
	t.fn()
}

// drain hands the queued ticks to the runtime.
func (c *teaClock) drain() tea.Cmd {
	if len(c.queued) == 0 {
		return nil
	}
	cmds := c.queued
	c.queued = nil
	return tea.Batch(cmds...)
}
