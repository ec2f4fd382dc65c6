// Package history provides the scan log shown on the history screen: a fixed
// set of demonstration entries plus any verdicts reached in the running
// session.
package history

import (
	"fmt"
	"time"

	"github.com/ensigniasec/cybershield/internal/session"
)

// Status is the classification of a logged scan.
type Status string

const (
	StatusClean      Status = "clean"
	StatusSuspicious Status = "suspicious"
	StatusMalicious  Status = "malicious"
)

// maliciousThreshold is the severity from which a threat counts as malicious.
const maliciousThreshold = 5

// Item is one scan log entry.
type Item struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	Status    Status    `json:"status"`
	Severity  int       `json:"severity"`
	Threats   []string  `json:"threats,omitempty"`
}

// Quarantinable reports whether the entry offers the quarantine action.
func (it Item) Quarantinable() bool { return it.Status == StatusMalicious }

// Mock returns the demonstration entries relative to now, newest first.
func Mock(now time.Time) []Item {
	return []Item{
		{
			ID:        "0xA4F2E1",
			Filename:  "document.pdf",
			Timestamp: now.Add(-15 * time.Minute),
			Status:    StatusClean,
			Severity:  0,
		},
		{
			ID:        "0xB7C3D2",
			Filename:  "suspicious_script.js",
			Timestamp: now.Add(-2 * time.Hour),
			Status:    StatusSuspicious,
			Severity:  3,
			Threats:   []string{"Obfuscated code patterns", "Network calls to unknown domains"},
		},
		{
			ID:        "0xE8F1A5",
			Filename:  "malware_sample.exe",
			Timestamp: now.Add(-5 * time.Hour),
			Status:    StatusMalicious,
			Severity:  5,
			Threats:   []string{"Trojan.Generic", "Keylogger signature detected", "Registry modification attempts"},
		},
		{
			ID:        "0xC9D4B3",
			Filename:  "report.docx",
			Timestamp: now.Add(-24 * time.Hour),
			Status:    StatusClean,
			Severity:  0,
		},
		{
			ID:        "0xF5A2E7",
			Filename:  "update.bat",
			Timestamp: now.Add(-48 * time.Hour),
			Status:    StatusSuspicious,
			Severity:  2,
			Threats:   []string{"Batch script with system commands"},
		},
	}
}

// FromResults converts session verdicts into log entries, newest first.
func FromResults(results []session.Result) []Item {
	items := make([]Item, 0, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		r := results[i]
		status := StatusClean
		var threats []string
		if !r.Verdict.Clean {
			status = StatusSuspicious
			if r.Verdict.Severity >= maliciousThreshold {
				status = StatusMalicious
			}
			threats = []string{"Threat signature matched"}
		}
		items = append(items, Item{
			ID:        fmt.Sprintf("0x%06X", uint32(r.At.UnixNano())&0xFFFFFF), //nolint:gosec // display id only
			Filename:  r.Verdict.Filename,
			Timestamp: r.At,
			Status:    status,
			Severity:  r.Verdict.Severity,
			Threats:   threats,
		})
	}
	return items
}

// Log returns session entries followed by the demonstration entries.
func Log(now time.Time, results []session.Result) []Item {
	return append(FromResults(results), Mock(now)...)
}

// FormatAge renders how long ago t was: minutes under an hour, hours under a
// day, days otherwise.
func FormatAge(now, t time.Time) string {
	diff := now.Sub(t)
	minutes := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	default:
		return fmt.Sprintf("%dd ago", days)
	}
}
