package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ensigniasec/cybershield/internal/session"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	var cmds []tea.Cmd

	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		m.layout()

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(x)
		cmds = append(cmds, cmd)

	case timerFiredMsg:
		m.clk.fire(x.id)

	case toastExpiredMsg:
		m.toasts.expire(x.id)

	case spinner.TickMsg:
		// Letting the tick chain lapse stops the spinner between scans.
		if m.sess.Scanning() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(x)
			cmds = append(cmds, cmd)
		}

	case filesLoadedMsg:
		if x.err != nil {
			m.toasts.Notify(session.NotifyError, "File discovery failed", x.err.Error())
			break
		}
		items := make([]list.Item, 0, len(x.entries))
		for _, e := range x.entries {
			items = append(items, fileItem{entry: e})
		}
		cmds = append(cmds, m.files.SetItems(items))

	case clipboardMsg:
		if x.err != nil {
			m.toasts.Notify(session.NotifyError, "Copy failed", x.err.Error())
			break
		}
		m.toasts.Notify(session.NotifySuccess, "Copied to clipboard", preview(x.text))
	}

	cmds = append(cmds, m.settle()...)
	if m.quitting {
		return m, tea.Quit
	}
	return m, tea.Batch(cmds...)
}

// settle runs after every message: it hands new timers and toasts to the
// runtime, restores the input once a scan ends and refreshes the output.
func (m *Model) settle() []tea.Cmd {
	var cmds []tea.Cmd
	if cmd := m.clk.drain(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, m.toasts.schedule()...)

	scanning := m.sess.Scanning()
	if m.wasScanning && !scanning && m.focus == focusInput {
		cmds = append(cmds, m.input.Focus())
	}
	m.wasScanning = scanning

	m.refreshOutput()
	return cmds
}
