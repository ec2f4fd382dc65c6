// Package session owns the state of one terminal session: the message log,
// the scan narrative, the typewriter reveal and the command history.
//
// A Session is not safe for concurrent use. Drive it from a single goroutine,
// which is what the clock implementations guarantee for timer callbacks.
package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/cybershield/internal/clock"
	"github.com/ensigniasec/cybershield/internal/scan"
)

// ErrSessionClosed is returned by operations on a closed session.
var ErrSessionClosed = errors.New("session closed")

// DefaultTypeInterval is the typewriter cadence.
const DefaultTypeInterval = 30 * time.Millisecond

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	Clock        clock.Clock
	Random       scan.RandomSource
	Timing       *scan.Timing
	TypeInterval time.Duration
	// Animations enables the typewriter; when false messages appear at once.
	Animations bool
	Notifier   Notifier
	// OnMessage, if set, observes every appended message.
	OnMessage func(Message)
}

// Result is a verdict reached during this session.
type Result struct {
	Verdict scan.Verdict
	At      time.Time
}

// Session is the single owner of all terminal state.
type Session struct {
	id           string
	clock        clock.Clock
	ownClock     *clock.LoopClock
	store        *Store
	seq          *scan.Sequencer
	typewriter   Typewriter
	typeInterval time.Duration
	animations   bool
	typing       clock.Timer
	typingGen    uint64
	notifier     Notifier
	onMessage    func(Message)

	history []string
	results []Result
	closed  bool

	log *logrus.Entry
}

// New creates a session seeded with the welcome message.
func New(opts Options) *Session {
	c := opts.Clock
	var owned *clock.LoopClock
	if c == nil {
		owned = clock.NewLoopClock()
		c = owned
	}
	rnd := opts.Random
	if rnd == nil {
		rnd = globalRandom{}
	}
	timing := scan.DefaultTiming()
	if opts.Timing != nil {
		timing = *opts.Timing
	}
	interval := opts.TypeInterval
	if interval <= 0 {
		interval = DefaultTypeInterval
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = discardNotifier{}
	}

	s := &Session{
		id:           uuid.NewString(),
		clock:        c,
		ownClock:     owned,
		store:        NewStore(c),
		typeInterval: interval,
		animations:   opts.Animations,
		notifier:     notifier,
		onMessage:    opts.OnMessage,
	}
	s.log = logrus.WithField("session", s.id)
	s.seq = scan.NewSequencer(c, rnd, timing, func(content string, severity *int) {
		s.append(RoleAssistant, content, severity)
	}).WithVerdictHook(s.onVerdict)

	s.append(RoleSystem, WelcomeText, nil)
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Clock returns the clock the session schedules on. When Options.Clock was
// nil this is a *clock.LoopClock the caller must Run; Close releases it.
func (s *Session) Clock() clock.Clock { return s.clock }

// ScanFile starts the simulated scan of filename. Only the name is used.
func (s *Session) ScanFile(filename string) error {
	if s.closed {
		return ErrSessionClosed
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return scan.ErrEmptyFilename
	}
	if s.seq.Scanning() {
		return fmt.Errorf("%w: %s", scan.ErrScanInProgress, s.seq.Filename())
	}

	s.notifier.Notify(NotifyInfo, "Starting scan...", filename)
	s.append(RoleUser, "scan file "+filename, nil)
	if err := s.seq.Run(filename); err != nil {
		return fmt.Errorf("start scan: %w", err)
	}
	s.log.WithField("file", filename).Info("scan started")
	return nil
}

// Command interprets one line typed at the prompt.
func (s *Session) Command(raw string) Outcome {
	input := strings.TrimSpace(raw)
	if s.closed || input == "" {
		return Outcome{Action: ActionNone, Input: raw}
	}

	out := Interpret(input, s.history)
	s.history = append([]string{input}, s.history...)
	s.append(RoleUser, input, nil)

	switch out.Action {
	case ActionClear:
		s.stopTyping()
		m := s.store.Reset(ClearedText)
		s.track(m)
		if s.onMessage != nil {
			s.onMessage(m)
		}
		s.notifier.Notify(NotifySuccess, "Terminal cleared", "")
	case ActionScanHint:
		s.append(RoleSystem, out.Reply, nil)
		s.notifier.Notify(NotifyInfo, "Use drag & drop or file selector to scan files", "")
	case ActionHelp, ActionHistory, ActionUnknown:
		s.append(RoleSystem, out.Reply, nil)
	case ActionNone:
	}
	s.log.WithField("action", out.Action.String()).Debug("command interpreted")
	return out
}

// Messages returns a snapshot of the log.
func (s *Session) Messages() []Message { return s.store.Messages() }

// Len reports how many messages are in the log.
func (s *Session) Len() int { return s.store.Len() }

// Visible returns the text of m as currently revealed.
func (s *Session) Visible(m Message) string { return s.typewriter.Visible(m) }

// Typing reports whether m is still being revealed.
func (s *Session) Typing(m Message) bool { return s.typewriter.Typing(m) }

// LatestReply returns the newest assistant or system message.
func (s *Session) LatestReply() (Message, bool) { return s.store.LastNonUser() }

// Scanning reports whether a scan narrative is running.
func (s *Session) Scanning() bool { return s.seq.Scanning() }

// ScanProgress reports the current step (0..5) and the file being scanned.
func (s *Session) ScanProgress() (int, string) { return s.seq.Step(), s.seq.Filename() }

// History returns prior commands, most recent first.
func (s *Session) History() []string {
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// Results returns the verdicts reached so far, oldest first.
func (s *Session) Results() []Result {
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}

// Animations reports whether the typewriter is enabled.
func (s *Session) Animations() bool { return s.animations }

// SetAnimations toggles the typewriter. Turning it off reveals the current
// message immediately.
func (s *Session) SetAnimations(on bool) {
	s.animations = on
	if on {
		s.scheduleTyping()
		return
	}
	s.stopTyping()
	s.typewriter.Finish()
}

// Close stops every pending timer. Callbacks that still arrive are ignored.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.seq.Stop()
	s.stopTyping()
	if s.ownClock != nil {
		s.ownClock.Close()
	}
	s.log.Debug("session closed")
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool { return s.closed }

func (s *Session) append(role Role, content string, severity *int) {
	if s.closed {
		return
	}
	m := s.store.Append(role, content, severity)
	s.track(m)
	if s.onMessage != nil {
		s.onMessage(m)
	}
}

// track retargets the typewriter on non-user messages.
func (s *Session) track(m Message) {
	if !s.typewriter.Track(m) {
		return
	}
	if !s.animations {
		s.typewriter.Finish()
		return
	}
	s.scheduleTyping()
}

func (s *Session) scheduleTyping() {
	if s.closed || s.typing != nil || s.typewriter.Done() {
		return
	}
	gen := s.typingGen
	s.typing = s.clock.AfterFunc(s.typeInterval, func() { s.tick(gen) })
}

// tick reveals one rune. A callback from a stopped chain may still be
// delivered after Stop returned false; its generation no longer matches.
func (s *Session) tick(gen uint64) {
	if gen != s.typingGen {
		return
	}
	s.typing = nil
	if s.closed {
		return
	}
	if s.typewriter.Tick() && s.animations {
		s.scheduleTyping()
	}
}

func (s *Session) stopTyping() {
	s.typingGen++
	if s.typing != nil {
		s.typing.Stop()
		s.typing = nil
	}
}

func (s *Session) onVerdict(v scan.Verdict) {
	s.results = append(s.results, Result{Verdict: v, At: s.clock.Now()})
	if v.Clean {
		s.notifier.Notify(NotifySuccess, "Scan complete - File is clean", v.Filename)
		return
	}
	s.notifier.Notify(NotifyError, "Threat detected!", fmt.Sprintf("Risk level: %d/%d", v.Severity, scan.MaxSeverity))
}

// globalRandom draws from the math/rand/v2 top-level source.
type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }
func (globalRandom) IntN(n int) int   { return rand.IntN(n) }
