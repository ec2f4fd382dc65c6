// Package scan fabricates the multi-step malware scan narrative. Nothing here
// reads file content or touches the network: the steps are timed messages and
// the verdict is a random draw.
package scan

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/cybershield/internal/clock"
)

// Sentinel errors returned by Run.
var (
	ErrScanInProgress = errors.New("scan already in progress")
	ErrEmptyFilename  = errors.New("filename is empty")
)

// State is the sequencer lifecycle.
type State int

const (
	Idle State = iota
	Scanning
	VerdictReady
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case VerdictReady:
		return "verdict-ready"
	default:
		return "unknown"
	}
}

// Timing holds the delay before each progress step and before the verdict.
type Timing struct {
	Steps   [ProgressSteps]time.Duration
	Verdict time.Duration
}

// ProgressSteps is the number of status lines emitted before the verdict.
const ProgressSteps = 4

// DefaultTiming is the stock narrative pacing.
func DefaultTiming() Timing {
	return Timing{
		Steps: [ProgressSteps]time.Duration{
			800 * time.Millisecond,
			1200 * time.Millisecond,
			1200 * time.Millisecond,
			1000 * time.Millisecond,
		},
		Verdict: 1000 * time.Millisecond,
	}
}

// Total is the full length of one scan narrative.
func (t Timing) Total() time.Duration {
	total := t.Verdict
	for _, d := range t.Steps {
		total += d
	}
	return total
}

// progressLines are the status messages in emission order. The first one takes the filename.
//
//nolint:gochecknoglobals // immutable narrative table.
var progressLines = [ProgressSteps]string{
	"> Initializing deep scan on: %s...",
	"> Scanning file structure and entropy...",
	"> Checking hash signatures against threat database...",
	"> Running behavioral analysis...",
}

// Emitter receives each narrative message. severity is nil for progress lines.
type Emitter func(content string, severity *int)

// Sequencer runs one scan narrative at a time on a Clock.
type Sequencer struct {
	clock  clock.Clock
	rnd    RandomSource
	timing Timing
	emit   Emitter

	mu       sync.Mutex
	state    State
	step     int
	filename string
	pending  clock.Timer
	gen      uint64
	last     *Verdict

	onVerdict func(Verdict)
}

// NewSequencer wires a sequencer to its clock, random source and message sink.
func NewSequencer(c clock.Clock, rnd RandomSource, timing Timing, emit Emitter) *Sequencer {
	return &Sequencer{
		clock:  c,
		rnd:    rnd,
		timing: timing,
		emit:   emit,
		state:  Idle,
	}
}

// WithVerdictHook registers fn to run after the verdict message is emitted.
func (q *Sequencer) WithVerdictHook(fn func(Verdict)) *Sequencer {
	q.onVerdict = fn
	return q
}

// Run starts the narrative for filename. It returns immediately; messages are
// emitted as the clock advances.
func (q *Sequencer) Run(filename string) error {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return ErrEmptyFilename
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state == Scanning {
		return fmt.Errorf("%w: %s", ErrScanInProgress, q.filename)
	}
	q.state = Scanning
	q.step = 0
	q.filename = filename
	q.last = nil
	logrus.WithField("file", filename).Debug("scan sequence started")
	q.gen++
	q.pending = q.schedule(q.timing.Steps[0])
	return nil
}

// schedule arms the next step for the current run. Callers hold mu.
func (q *Sequencer) schedule(d time.Duration) clock.Timer {
	gen := q.gen
	return q.clock.AfterFunc(d, func() { q.advance(gen) })
}

// advance emits the current step and schedules the next one.
// A step from a stopped run can still be delivered after Stop returned
// false; its generation no longer matches and it is dropped.
func (q *Sequencer) advance(gen uint64) {
	q.mu.Lock()
	if q.state != Scanning || gen != q.gen {
		q.mu.Unlock()
		return
	}
	step := q.step
	filename := q.filename

	if step < ProgressSteps {
		line := progressLines[step]
		if step == 0 {
			line = fmt.Sprintf(line, filename)
		}
		q.step++
		next := q.timing.Verdict
		if q.step < ProgressSteps {
			next = q.timing.Steps[q.step]
		}
		q.pending = q.schedule(next)
		q.mu.Unlock()

		logrus.WithFields(logrus.Fields{"file": filename, "step": step}).Debug("scan step")
		q.emit(line, nil)
		return
	}

	verdict := Decide(filename, q.rnd)
	q.pending = nil
	q.mu.Unlock()

	severity := verdict.Severity
	q.emit(verdict.Report(), &severity)

	// The flag drops only once the verdict is on record.
	q.mu.Lock()
	q.state = VerdictReady
	q.step = ProgressSteps + 1
	q.last = &verdict
	q.mu.Unlock()

	logrus.WithFields(logrus.Fields{"file": filename, "clean": verdict.Clean, "severity": verdict.Severity}).Debug("scan verdict")
	if q.onVerdict != nil {
		q.onVerdict(verdict)
	}
}

// State reports the lifecycle state.
func (q *Sequencer) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Scanning reports whether a narrative is in flight.
func (q *Sequencer) Scanning() bool { return q.State() == Scanning }

// Step reports how many narrative messages have been emitted in the current
// or last run (0..5).
func (q *Sequencer) Step() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.step
}

// Filename reports the file of the current or last run.
func (q *Sequencer) Filename() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.filename
}

// LastVerdict returns the verdict of the last completed run.
func (q *Sequencer) LastVerdict() (Verdict, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.last == nil {
		return Verdict{}, false
	}
	return *q.last, true
}

// Stop drops any pending step. It exists so a closing session leaves no timer
// behind; an in-flight scan is abandoned rather than finished.
func (q *Sequencer) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.gen++
	if q.pending != nil {
		q.pending.Stop()
		q.pending = nil
	}
	if q.state == Scanning {
		q.state = Idle
	}
}
