package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/cybershield/internal/history"
	"github.com/ensigniasec/cybershield/internal/session"
)

// styles groups every lipgloss style the views use. Plain mode swaps in
// unstyled variants.
type styles struct {
	plain bool

	title    lipgloss.Style
	subtitle lipgloss.Style
	muted    lipgloss.Style
	prompt   lipgloss.Style
	reply    lipgloss.Style
	warning  lipgloss.Style
	selected lipgloss.Style
	badge    lipgloss.Style
	card     lipgloss.Style
	overlay  lipgloss.Style

	clean lipgloss.Style
	amber lipgloss.Style
	alert lipgloss.Style
}

func newStyles(plain bool) styles {
	if plain {
		base := lipgloss.NewStyle()
		return styles{
			plain:    true,
			title:    base.Bold(true),
			subtitle: base,
			muted:    base,
			prompt:   base,
			reply:    base.PaddingLeft(2),
			warning:  base,
			selected: base.Bold(true),
			badge:    base,
			card:     base,
			overlay:  base.Border(lipgloss.NormalBorder()).Padding(0, 1),
			clean:    base,
			amber:    base,
			alert:    base,
		}
	}
	return styles{
		title:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		reply: lipgloss.NewStyle().Foreground(lipgloss.Color("46")).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("22")).PaddingLeft(1),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		badge:    lipgloss.NewStyle().Bold(true).Padding(0, 1),
		card:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("22")).Padding(0, 1),
		overlay:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("69")).Padding(0, 1),
		clean:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		amber:    lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		alert:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// severity picks the meter colour for a level.
func (s styles) severity(level int) lipgloss.Style {
	switch {
	case level >= 4:
		return s.alert
	case level >= 3:
		return s.amber
	default:
		return s.clean
	}
}

// meter renders a five-cell severity gauge.
func (s styles) meter(level, cells int) string {
	filled, empty := "■", "□"
	if s.plain {
		filled, empty = "#", "."
	}
	style := s.severity(level)
	var b strings.Builder
	for i := 1; i <= cells; i++ {
		if i <= level {
			b.WriteString(style.Render(filled))
		} else {
			b.WriteString(s.muted.Render(empty))
		}
	}
	return b.String()
}

func (s styles) status(st history.Status) string {
	label := strings.ToUpper(string(st))
	switch st {
	case history.StatusClean:
		return s.clean.Render(label)
	case history.StatusSuspicious:
		return s.amber.Render(label)
	case history.StatusMalicious:
		return s.alert.Render(label)
	default:
		return label
	}
}

func (s styles) toast(kind session.NotifyKind) lipgloss.Style {
	switch kind {
	case session.NotifySuccess:
		return s.clean
	case session.NotifyError:
		return s.alert
	default:
		return s.subtitle
	}
}
