package tui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/cybershield/internal/history"
	"github.com/ensigniasec/cybershield/internal/palette"
	"github.com/ensigniasec/cybershield/internal/picker"
	"github.com/ensigniasec/cybershield/internal/session"
)

// handleKey processes key bindings and returns updated model and command.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) { // nolint:ireturn
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		m.sess.Close()
		return m, nil
	}

	if m.pal.IsOpen() {
		return m.handlePaletteKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Palette):
		m.pal.Open()
		return m, nil
	case key.Matches(msg, m.keys.History):
		return m.runAction(palette.ActionHistory)
	case key.Matches(msg, m.keys.ScanLog):
		return m.runAction(palette.ActionScanLog)
	case key.Matches(msg, m.keys.Settings):
		return m.runAction(palette.ActionSettings)
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyLatestReply()
	}

	switch m.page {
	case pageScanLog:
		return m.handleScanLogKey(msg)
	case pageSettings:
		return m.handleSettingsKey(msg)
	default:
		return m.handleTerminalKey(msg)
	}
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Palette):
		m.pal.Close()
	case key.Matches(msg, m.keys.Up):
		m.pal.Up()
	case key.Matches(msg, m.keys.Down):
		m.pal.Down()
	case key.Matches(msg, m.keys.Submit):
		if a, ok := m.pal.Enter(); ok {
			return m.runAction(a.ID)
		}
	case msg.Type == tea.KeyBackspace:
		q := []rune(m.pal.Query())
		if len(q) > 0 {
			m.pal.SetQuery(string(q[:len(q)-1]))
		}
	case msg.Type == tea.KeyRunes, msg.Type == tea.KeySpace:
		m.pal.SetQuery(m.pal.Query() + string(msg.Runes))
	}
	return m, nil
}

// runAction performs a palette action or its keyboard shortcut.
func (m Model) runAction(id string) (Model, tea.Cmd) {
	logrus.WithField("action", id).Debug("palette action")
	switch id {
	case palette.ActionScan:
		m.page = pageTerminal
		m.setFocus(focusFiles)
		m.toasts.Notify(session.NotifyInfo, "Use drag & drop to scan files", "or pick one from the list")
	case palette.ActionHistory, palette.ActionClear, palette.ActionHelp:
		m.page = pageTerminal
		m.sess.Command(id)
		m.recallIdx = -1
	case palette.ActionScanLog:
		m.page = pageScanLog
		m.syncScanLog()
	case palette.ActionSettings:
		m.page = pageSettings
	}
	return m, nil
}

func (m Model) handleTerminalKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusInput {
			m.setFocus(focusFiles)
		} else {
			return m, m.setFocus(focusInput)
		}
		return m, nil
	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}

	if m.focus == focusFiles {
		return m.handleFilesKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleFilesKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		return m, m.setFocus(focusInput)
	case key.Matches(msg, m.keys.Reload):
		return m, m.loadFiles()
	case key.Matches(msg, m.keys.Submit):
		it, ok := m.files.SelectedItem().(fileItem)
		if !ok {
			return m, nil
		}
		return m.startScan(it.entry.Name)
	}
	var cmd tea.Cmd
	m.files, cmd = m.files.Update(msg)
	return m, cmd
}

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// The prompt is inert while a scan narrative runs.
	if m.sess.Scanning() {
		return m, nil
	}

	if msg.Paste {
		if path, ok := picker.Resolve(string(msg.Runes)); ok {
			return m.startScan(filepath.Base(path))
		}
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Up):
		m.recall(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.recall(-1)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the prompt line to the session.
func (m Model) submit() (Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}
	m.input.Reset()
	m.recallIdx = -1
	m.sess.Command(line)
	return m, nil
}

// recall walks the command history: +1 towards older entries, -1 towards
// newer ones. Stepping past the newest entry clears the prompt.
func (m *Model) recall(dir int) {
	hist := m.sess.History()
	switch {
	case dir > 0 && m.recallIdx < len(hist)-1:
		m.recallIdx++
	case dir < 0 && m.recallIdx > 0:
		m.recallIdx--
	case dir < 0 && m.recallIdx == 0:
		m.recallIdx = -1
		m.input.SetValue("")
		return
	default:
		return
	}
	m.input.SetValue(hist[m.recallIdx])
	m.input.CursorEnd()
}

// startScan hands filename to the session and starts the spinner.
func (m Model) startScan(filename string) (Model, tea.Cmd) {
	if err := m.sess.ScanFile(filename); err != nil {
		m.toasts.Notify(session.NotifyError, "Scan rejected", err.Error())
		return m, nil
	}
	m.page = pageTerminal
	m.input.Blur()
	return m, m.spin.Tick
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	if f == focusFiles {
		m.input.Blur()
		return nil
	}
	return m.input.Focus()
}

func (m Model) handleScanLogKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.page = pageTerminal
		return m, nil
	case key.Matches(msg, m.keys.Quarantine):
		it, ok := m.scanLog.SelectedItem().(logItem)
		if ok && it.item.Quarantinable() {
			m.toasts.Notify(session.NotifySuccess, "Quarantined "+it.item.Filename, "simulated; nothing was moved")
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.scanLog, cmd = m.scanLog.Update(msg)
	return m, cmd
}

// syncScanLog rebuilds the scan log from session verdicts and the demo entries.
func (m *Model) syncScanLog() {
	now := m.clk.Now()
	entries := history.Log(now, m.sess.Results())
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, logItem{item: e, now: now})
	}
	m.scanLog.SetItems(items)
	m.scanLog.Select(0)
}

// setting is one toggle on the settings page.
type setting struct {
	label string
	desc  string
	get   func(m *Model) bool
	set   func(m *Model, on bool)
}

func settingsTable() []setting {
	return []setting{
		{
			label: "Full Animations",
			desc:  "Typing effects and spinners",
			get:   func(m *Model) bool { return m.cfg.Animations },
			set: func(m *Model, on bool) {
				m.cfg.Animations = on
				m.sess.SetAnimations(on)
			},
		},
		{
			label: "Plain Mode",
			desc:  "Minimal UI for accessibility & performance",
			get:   func(m *Model) bool { return m.cfg.PlainMode },
			set: func(m *Model, on bool) {
				m.cfg.PlainMode = on
				*m.styles = newStyles(on)
			},
		},
		{
			label: "Sound Effects",
			desc:  "Scan blips and keystroke sounds",
			get:   func(m *Model) bool { return m.cfg.Sound },
			set:   func(m *Model, on bool) { m.cfg.Sound = on },
		},
		{
			label: "Demo Mode",
			desc:  "Simulated scans with preset results",
			get:   func(m *Model) bool { return m.cfg.DemoMode },
			set: func(m *Model, on bool) {
				m.cfg.DemoMode = on
				m.rnd.SetDemo(on)
			},
		},
	}
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	table := settingsTable()
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.page = pageTerminal
	case key.Matches(msg, m.keys.Up):
		if m.settingsIdx > 0 {
			m.settingsIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.settingsIdx < len(table)-1 {
			m.settingsIdx++
		}
	case key.Matches(msg, m.keys.Toggle):
		s := table[m.settingsIdx]
		on := !s.get(&m)
		s.set(&m, on)
		state := "disabled"
		if on {
			state = "enabled"
		}
		m.toasts.Notify(session.NotifyInfo, s.label+" "+state, "")
	case key.Matches(msg, m.keys.Save):
		if err := m.cfg.Save(); err != nil {
			m.toasts.Notify(session.NotifyError, "Could not save settings", err.Error())
			break
		}
		m.toasts.Notify(session.NotifySuccess, "Settings saved", m.cfg.Path())
	}
	return m, nil
}

// copyLatestReply copies the newest assistant or system message.
func (m Model) copyLatestReply() tea.Cmd {
	reply, ok := m.sess.LatestReply()
	if !ok {
		return nil
	}
	clip, text := m.clip, reply.Content
	return func() tea.Msg {
		return clipboardMsg{text: text, err: clip.WriteAll(text)}
	}
}

func preview(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	r := []rune(line)
	if len(r) > copiedPreviewRunes {
		return string(r[:copiedPreviewRunes]) + "…"
	}
	return line
}
