package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/cybershield/internal/history"
	"github.com/ensigniasec/cybershield/internal/scan"
	"github.com/ensigniasec/cybershield/internal/session"
)

func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	w := m.contentWidth()
	var body string
	switch {
	case m.pal.IsOpen():
		body = m.renderPalette(w)
	case m.page == pageScanLog:
		body = m.renderScanLog(w)
	case m.page == pageSettings:
		body = m.renderSettings(w)
	default:
		body = m.renderTerminal(w)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(w),
		body,
		m.renderFooter(),
	)
}

// layout sizes the widgets after a resize.
func (m *Model) layout() {
	w := m.contentWidth()
	m.input.Width = w - lipgloss.Width(m.input.Prompt) - 1
	m.bar.Width = w - 4
	m.files.SetSize(w-4, fileListHeight)

	h := m.height - headerLines - cardOverheadLines - fileListHeight - chromeLines
	if h < minViewportHeight {
		h = minViewportHeight
	}
	m.output.Width = w
	m.output.Height = h

	logHeight := m.height - scanLogOverheadLines - headerLines
	if logHeight < minViewportHeight {
		logHeight = minViewportHeight
	}
	m.scanLog.SetSize(w, logHeight)
}

func (m Model) contentWidth() int {
	if m.width <= 0 || m.width > contentMaxWidth {
		return contentMaxWidth
	}
	return m.width
}

// refreshOutput re-renders the message log into the viewport, following the
// tail unless the user scrolled away.
func (m *Model) refreshOutput() {
	msgs := m.sess.Messages()
	w := m.contentWidth()
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, m.renderMessage(msg, w))
	}
	follow := m.output.AtBottom() || len(msgs) != m.lastLen
	m.output.SetContent(strings.Join(parts, "\n\n"))
	if follow {
		m.output.GotoBottom()
	}
	m.lastLen = len(msgs)
}

func (m Model) renderMessage(msg session.Message, w int) string {
	s := m.styles
	ts := s.muted.Render(msg.Timestamp.Format("15:04:05"))
	if msg.Role == session.RoleUser {
		return ts + " " + s.prompt.Render("cybershield>") + " " + msg.Content
	}

	text := m.sess.Visible(msg)
	if m.sess.Typing(msg) {
		text += "▌"
	}
	out := ts + "\n" + s.reply.Width(w-4).Render(text)
	if lvl := msg.SeverityLevel(); lvl > 0 {
		out += fmt.Sprintf("\n  Severity: %s %d/%d", s.meter(lvl, scan.MaxSeverity), lvl, scan.MaxSeverity)
	}
	return out
}

func (m Model) renderHeader(w int) string {
	s := m.styles
	title := s.title.Render("CYBERSHIELD") + " " + m.modeBadges()
	sub := s.subtitle.Render("Advanced Malware Detection Terminal")
	addr := s.muted.Render("terminal://cybershield/scan")
	pad := w - lipgloss.Width(sub) - lipgloss.Width(addr)
	if pad < 1 {
		pad = 1
	}
	rule := s.muted.Render(strings.Repeat("─", w))
	return title + "\n" + sub + strings.Repeat(" ", pad) + addr + "\n" + rule
}

func (m Model) modeBadges() string {
	s := m.styles
	var badges []string
	if m.rnd.Demo() {
		badges = append(badges, s.badge.Inherit(s.amber).Render("DEMO"))
	}
	if !m.sess.Animations() {
		badges = append(badges, s.badge.Inherit(s.muted).Render("NO-ANIM"))
	}
	if s.plain {
		badges = append(badges, s.badge.Render("PLAIN"))
	}
	return strings.Join(badges, "")
}

func (m Model) renderTerminal(w int) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderScanCard(w),
		m.output.View(),
		m.renderToasts(),
		m.renderInput(),
	)
}

func (m Model) renderScanCard(w int) string {
	s := m.styles
	lines := []string{
		s.warning.Render("⚠ Educational Use Only"),
		s.muted.Render("Do not upload real malware except in an isolated VM. Only file names are used."),
	}

	if m.sess.Scanning() {
		step, file := m.sess.ScanProgress()
		lines = append(lines,
			m.spin.View()+" Scanning in progress... "+s.prompt.Render(file),
			m.renderProgress(step),
		)
	} else {
		lines = append(lines,
			"Drop a file here (paste its path) or pick one below",
			s.muted.Render("cybershield> scan file /path/to/file"),
		)
	}

	switch {
	case len(m.files.Items()) == 0:
		lines = append(lines, s.muted.Render("No files found under "+m.cfg.ScanRoot))
	case m.focus == focusFiles:
		lines = append(lines, m.files.View())
	default:
		lines = append(lines, s.muted.Render(fmt.Sprintf("%d files available (tab to browse)", len(m.files.Items()))))
	}

	return s.card.Width(w - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderProgress(step int) string {
	pct := float64(step) / float64(scan.ProgressSteps+1)
	if pct > 1 {
		pct = 1
	}
	if m.styles.plain {
		n := int(pct * plainBarWidth)
		return fmt.Sprintf("[%s%s] %3.0f%%", strings.Repeat("#", n), strings.Repeat(".", plainBarWidth-n), pct*100)
	}
	return m.bar.ViewAs(pct)
}

func (m Model) renderInput() string {
	if m.sess.Scanning() {
		return m.styles.muted.Render(m.input.Prompt + "scan in progress...")
	}
	return m.input.View()
}

// renderToasts always yields maxToasts lines so the layout does not jump.
func (m Model) renderToasts() string {
	s := m.styles
	lines := make([]string, 0, maxToasts)
	for _, t := range m.toasts.visible() {
		icon := "ℹ"
		switch t.kind {
		case session.NotifySuccess:
			icon = "✔"
		case session.NotifyError:
			icon = "✖"
		case session.NotifyInfo:
		}
		line := icon + " " + t.title
		if t.detail != "" {
			line += " · " + t.detail
		}
		lines = append(lines, s.toast(t.kind).Render(line))
	}
	for len(lines) < maxToasts {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	var bindings []key.Binding
	switch m.page {
	case pageScanLog:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Quarantine, m.keys.Escape, m.keys.Palette, m.keys.Quit}
	case pageSettings:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Toggle, m.keys.Save, m.keys.Escape, m.keys.Quit}
	default:
		bindings = []key.Binding{m.keys.Palette, m.keys.Focus, m.keys.Up, m.keys.Copy, m.keys.ScanLog, m.keys.Settings, m.keys.Quit}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return m.styles.muted.Render(strings.Join(parts, " • "))
}

func (m Model) renderPalette(w int) string {
	s := m.styles
	lines := []string{
		s.title.Render("Command Palette"),
		"> " + m.pal.Query() + "▌",
		"",
	}
	actions := m.pal.Filtered()
	if len(actions) == 0 {
		lines = append(lines, s.muted.Render("No commands found"))
	}
	for i, a := range actions {
		left := "  " + a.Label
		style := s.muted
		if i == m.pal.Selected() {
			left = "> " + a.Label
			style = s.selected
		}
		pad := paletteWidth - 2 - lipgloss.Width(left) - lipgloss.Width(a.Shortcut)
		if pad < 1 {
			pad = 1
		}
		lines = append(lines, style.Render(left)+strings.Repeat(" ", pad)+s.muted.Render(a.Shortcut))
	}
	box := s.overlay.Width(paletteWidth).Render(strings.Join(lines, "\n"))

	height := m.output.Height + fileListHeight + cardOverheadLines
	return lipgloss.Place(w, height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderScanLog(w int) string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.title.Render("Scan History"))
	b.WriteString("\n")
	b.WriteString(s.muted.Render("Review all previous malware scans and detections"))
	b.WriteString("\n\n")

	if len(m.scanLog.Items()) == 0 {
		b.WriteString(s.muted.Render("No Scan History\nYour scan results will appear here"))
		return b.String()
	}
	b.WriteString(m.scanLog.View())
	b.WriteString("\n")

	it, ok := m.scanLog.SelectedItem().(logItem)
	if !ok {
		return b.String()
	}
	detail := []string{
		fmt.Sprintf("%s  %s  %s", s.title.Render(it.item.Filename), s.status(it.item.Status), s.muted.Render(history.FormatAge(it.now, it.item.Timestamp))),
		fmt.Sprintf("ID: %s", it.item.ID),
		fmt.Sprintf("Severity: %s %d/%d", s.meter(it.item.Severity, scan.MaxSeverity), it.item.Severity, scan.MaxSeverity),
	}
	if len(it.item.Threats) > 0 {
		detail = append(detail, s.alert.Render("Threats Detected:"))
		for _, t := range it.item.Threats {
			detail = append(detail, "  ▸ "+t)
		}
	}
	if it.item.Quarantinable() {
		detail = append(detail, s.alert.Render("[x] Quarantine"))
	}
	b.WriteString(s.card.Width(w - 2).Render(strings.Join(detail, "\n")))
	return b.String()
}

func (m Model) renderSettings(w int) string {
	s := m.styles
	lines := []string{
		s.title.Render("System Settings"),
		s.muted.Render("Configure CyberShield terminal preferences"),
		"",
	}
	for i, st := range settingsTable() {
		box := "[ ]"
		if st.get(&m) {
			box = "[x]"
		}
		left := "  "
		label := s.prompt
		if i == m.settingsIdx {
			left = "> "
			label = s.selected
		}
		lines = append(lines,
			left+box+" "+label.Render(st.label),
			"      "+s.muted.Render(st.desc),
		)
	}
	lines = append(lines,
		"",
		s.muted.Render("Config file: "+m.cfg.Path()),
		s.warning.Render("⚠ Educational Use Only · Do not upload real malware except in an isolated VM"),
	)
	return s.card.Width(w - 2).Render(strings.Join(lines, "\n"))
}
