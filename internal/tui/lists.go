package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/cybershield/internal/history"
	"github.com/ensigniasec/cybershield/internal/picker"
)

// fileItem is the list item backing a picker row.
type fileItem struct{ entry picker.Entry }

// List item interface methods.
func (it fileItem) Title() string       { return it.entry.Name }
func (it fileItem) Description() string { return it.entry.Path }
func (it fileItem) FilterValue() string { return it.entry.Name }

// logItem is the list item backing a scan log row.
type logItem struct {
	item history.Item
	now  time.Time
}

func (it logItem) Title() string       { return it.item.Filename }
func (it logItem) Description() string { return it.item.ID }
func (it logItem) FilterValue() string { return it.item.Filename + " " + it.item.ID }

// rowDelegate renders single-line rows with a right-justified annotation.
type rowDelegate struct {
	styles *styles
}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	var left, right string
	switch it := listItem.(type) {
	case fileItem:
		left = it.entry.Name
		right = humanSize(it.entry.Size)
	case logItem:
		left = fmt.Sprintf("%s  %s", it.item.ID, it.item.Filename)
		right = fmt.Sprintf("%s %s", history.FormatAge(it.now, it.item.Timestamp), d.styles.status(it.item.Status))
	default:
		return
	}

	selected := index == m.Index()
	leftPrefix := "  "
	lineStyle := lipgloss.NewStyle()
	if selected {
		leftPrefix = "> "
		lineStyle = d.styles.selected
	}
	left = leftPrefix + left

	available := m.Width()
	padding := available - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	line := lineStyle.Render(left) + strings.Repeat(" ", padding) + right
	_, _ = fmt.Fprint(w, line)
}

func newRowList(s *styles) list.Model {
	lst := list.New([]list.Item{}, rowDelegate{styles: s}, 0, 0)
	lst.SetShowTitle(false)
	lst.SetShowStatusBar(false)
	lst.SetFilteringEnabled(false)
	lst.SetShowHelp(false)
	lst.SetShowPagination(true)
	lst.DisableQuitKeybindings()
	return lst
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
