// Package palette implements the command palette: a filtered list of named
// actions navigated with the keyboard.
package palette

import "strings"

// Action is one entry of the palette.
type Action struct {
	ID       string
	Label    string
	Shortcut string
}

// Action identifiers understood by the shell.
const (
	ActionScan     = "scan"
	ActionHistory  = "history"
	ActionClear    = "clear"
	ActionHelp     = "help"
	ActionScanLog  = "scan-log"
	ActionSettings = "settings"
)

// DefaultActions returns the terminal's palette entries.
func DefaultActions() []Action {
	return []Action{
		{ID: ActionScan, Label: "Scan File"},
		{ID: ActionHistory, Label: "View History", Shortcut: "Ctrl+H"},
		{ID: ActionClear, Label: "Clear Terminal"},
		{ID: ActionHelp, Label: "Show Help"},
		{ID: ActionScanLog, Label: "Open Scan Log", Shortcut: "Ctrl+L"},
		{ID: ActionSettings, Label: "Open Settings", Shortcut: "Ctrl+S"},
	}
}

// Palette holds the query, the filtered view and the selection.
type Palette struct {
	actions  []Action
	query    string
	filtered []Action
	selected int
	open     bool
}

// New returns a closed palette over actions.
func New(actions []Action) *Palette {
	p := &Palette{actions: actions}
	p.refilter()
	return p
}

// Open shows the palette with an empty query.
func (p *Palette) Open() {
	p.open = true
	p.SetQuery("")
}

// Close hides the palette.
func (p *Palette) Close() { p.open = false }

// IsOpen reports whether the palette is shown.
func (p *Palette) IsOpen() bool { return p.open }

// Query returns the current filter text.
func (p *Palette) Query() string { return p.query }

// SetQuery replaces the filter text and resets the selection.
func (p *Palette) SetQuery(q string) {
	p.query = q
	p.selected = 0
	p.refilter()
}

// Filtered returns the actions whose label contains the query, ignoring case.
func (p *Palette) Filtered() []Action {
	out := make([]Action, len(p.filtered))
	copy(out, p.filtered)
	return out
}

// Selected returns the selection index into Filtered.
func (p *Palette) Selected() int { return p.selected }

// Down moves the selection forward, stopping at the last match.
func (p *Palette) Down() {
	if p.selected < len(p.filtered)-1 {
		p.selected++
	}
}

// Up moves the selection back, stopping at the first match.
func (p *Palette) Up() {
	if p.selected > 0 {
		p.selected--
	}
}

// Enter returns the selected action and closes the palette. With no matches
// it does nothing and reports false.
func (p *Palette) Enter() (Action, bool) {
	if len(p.filtered) == 0 {
		return Action{}, false
	}
	a := p.filtered[p.selected]
	p.Close()
	return a, true
}

func (p *Palette) refilter() {
	q := strings.ToLower(p.query)
	p.filtered = p.filtered[:0]
	for _, a := range p.actions {
		if strings.Contains(strings.ToLower(a.Label), q) {
			p.filtered = append(p.filtered, a)
		}
	}
}
