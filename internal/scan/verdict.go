package scan

import (
	"fmt"
	"math/rand/v2"
)

const (
	// threatProbability is the share of scans that end in a threat verdict.
	threatProbability = 0.3
	// minThreatSeverity and threatSeveritySpan give threat severities 3, 4 or 5.
	minThreatSeverity  = 3
	threatSeveritySpan = 3
	// MaxSeverity is the top of the severity scale.
	MaxSeverity = 5
)

// RandomSource supplies the verdict draws. *rand.Rand from math/rand/v2
// satisfies it.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

// seededStream is the second PCG word of every seeded verdict source.
const seededStream = 0xC0FFEE

// NewSeededRandom returns the verdict source for a fixed seed. Demo mode and
// repeatable headless runs share it so one seed yields the same verdicts
// everywhere.
func NewSeededRandom(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seededStream)) //nolint:gosec // simulated verdicts only
}

// Verdict is the fabricated outcome of a scan.
type Verdict struct {
	Filename string
	Clean    bool
	// Severity is 0 for clean files and 3..5 for threats.
	Severity int
}

// Decide draws a verdict for filename from rnd.
func Decide(filename string, rnd RandomSource) Verdict {
	if rnd.Float64() >= threatProbability {
		return Verdict{Filename: filename, Clean: true, Severity: 0}
	}
	return Verdict{
		Filename: filename,
		Clean:    false,
		Severity: minThreatSeverity + rnd.IntN(threatSeveritySpan),
	}
}

// Report renders the verdict message shown to the operator.
func (v Verdict) Report() string {
	if v.Clean {
		return fmt.Sprintf(
			"> Scan complete.\n\n✅ All Systems Secure | No Threats Found (0/%d)\n\nFile: %s\nStatus: CLEAN\nIntegrity: VERIFIED\n\n\"Carry on, Operator. System integrity verified.\" 🛡️",
			MaxSeverity, v.Filename,
		)
	}
	return fmt.Sprintf(
		"> Scan complete.\n\n⚠️ Threat Detected | Risk Level: %d/%d\n\nFile: %s\nStatus: SUSPICIOUS\nThreat Signature: Matched\n\nRemediation: Quarantine recommended.\nCommand: cybershield> quarantine %s\n\n\"Threat neutralization protocol ready. Standing by for orders.\" 🔍",
		v.Severity, MaxSeverity, v.Filename, v.Filename,
	)
}
