package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ensigniasec/cybershield/internal/session"
)

type toast struct {
	id        uint64
	kind      session.NotifyKind
	title     string
	detail    string
	scheduled bool
}

// toastBoard collects notifications raised while handling a message. Update
// schedules their expiry afterwards.
type toastBoard struct {
	nextID uint64
	items  []toast
}

// Notify implements session.Notifier.
func (b *toastBoard) Notify(kind session.NotifyKind, title, detail string) {
	b.nextID++
	b.items = append(b.items, toast{id: b.nextID, kind: kind, title: title, detail: detail})
}

// schedule returns an expiry tick for every toast not yet scheduled.
func (b *toastBoard) schedule() []tea.Cmd {
	var cmds []tea.Cmd
	for i := range b.items {
		if b.items[i].scheduled {
			continue
		}
		b.items[i].scheduled = true
		id := b.items[i].id
		cmds = append(cmds, tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} }))
	}
	return cmds
}

func (b *toastBoard) expire(id uint64) {
	for i, t := range b.items {
		if t.id == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}

// visible returns the newest toasts, oldest first.
func (b *toastBoard) visible() []toast {
	if len(b.items) <= maxToasts {
		return b.items
	}
	return b.items[len(b.items)-maxToasts:]
}
