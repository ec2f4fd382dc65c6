package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ensigniasec/cybershield/internal/config"
	"github.com/ensigniasec/cybershield/internal/palette"
	"github.com/ensigniasec/cybershield/internal/picker"
	"github.com/ensigniasec/cybershield/internal/session"
)

// page selects the screen shown below the header.
type page int

const (
	pageTerminal page = iota
	pageScanLog
	pageSettings
)

// focus selects which terminal widget receives keys.
type focus int

const (
	focusInput focus = iota
	focusFiles
)

// Options configures a Model. Zero values fall back to defaults.
type Options struct {
	Context   context.Context
	Config    *config.Config
	Clipboard Clipboard
	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx    context.Context
	cfg    *config.Config
	sess   *session.Session
	clk    *teaClock
	rnd    *switchRandom
	toasts *toastBoard
	clip   Clipboard
	pal    *palette.Palette

	page        page
	focus       focus
	recallIdx   int
	settingsIdx int
	wasScanning bool
	lastLen     int
	width       int
	height      int
	quitting    bool

	input   textinput.Model
	output  viewport.Model
	spin    spinner.Model
	bar     progress.Model
	files   list.Model
	scanLog list.Model

	styles *styles
	keys   keyMap
}

// NewModel constructs a Model with a fresh session.
func NewModel(opts Options) Model { // nolint:ireturn
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = systemClipboard{}
	}

	clk := newTeaClock(now)
	rnd := newSwitchRandom(cfg.DemoSeed, cfg.DemoMode)
	toasts := &toastBoard{}
	timing := cfg.Timing()
	sess := session.New(session.Options{
		Clock:        clk,
		Random:       rnd,
		Timing:       &timing,
		TypeInterval: cfg.TypewriterInterval,
		Animations:   cfg.Animations,
		Notifier: session.NotifierFunc(func(kind session.NotifyKind, title, detail string) {
			toasts.Notify(kind, title, detail)
			session.LogNotifier{}.Notify(kind, title, detail)
		}),
	})

	st := newStyles(cfg.PlainMode)

	in := textinput.New()
	in.Prompt = "cybershield> "
	in.Placeholder = "Enter command or type 'help'..."
	in.CharLimit = inputCharLimit
	in.Focus()

	out := viewport.New(contentMaxWidth, minViewportHeight)

	return Model{
		ctx:       ctx,
		cfg:       cfg,
		sess:      sess,
		clk:       clk,
		rnd:       rnd,
		toasts:    toasts,
		clip:      clip,
		pal:       palette.New(palette.DefaultActions()),
		page:      pageTerminal,
		focus:     focusInput,
		recallIdx: -1,
		input:     in,
		output:    out,
		spin:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:       progress.New(progress.WithDefaultGradient()),
		files:     newRowList(&st),
		scanLog:   newRowList(&st),
		styles:    &st,
		keys:      newKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.loadFiles(),
		m.clk.drain(),
	)
}

// Session exposes the underlying session, mainly so callers can close it.
func (m Model) Session() *session.Session { return m.sess }

// loadFiles discovers picker entries under the configured scan root.
func (m Model) loadFiles() tea.Cmd {
	ctx, root := m.ctx, m.cfg.ScanRoot
	return func() tea.Msg {
		entries, err := picker.Discover(ctx, root, picker.Options{})
		return filesLoadedMsg{entries: entries, err: err}
	}
}
