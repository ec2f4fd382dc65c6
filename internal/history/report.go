package history

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

const reportWidth = 60

// Summary aggregates a set of log entries for printing.
type Summary struct {
	Items      []Item        `json:"items"`
	Total      int           `json:"total"`
	Clean      int           `json:"clean"`
	Suspicious int           `json:"suspicious"`
	Malicious  int           `json:"malicious"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}

// Summarize counts items by status.
func Summarize(items []Item, startedAt time.Time, duration time.Duration) Summary {
	s := Summary{
		Items:     items,
		Total:     len(items),
		StartedAt: startedAt,
		Duration:  duration,
	}
	if s.Items == nil {
		s.Items = []Item{}
	}
	for _, it := range items {
		switch it.Status {
		case StatusClean:
			s.Clean++
		case StatusSuspicious:
			s.Suspicious++
		case StatusMalicious:
			s.Malicious++
		}
	}
	return s
}

// PrintSummary writes the summary to w. If jsonOutput is true it writes the
// indented JSON form, otherwise a human-readable report.
//
//nolint:funlen // Verbose CLI rendering for readability.
func PrintSummary(w io.Writer, s Summary, jsonOutput bool) error {
	if jsonOutput {
		output, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(output))
		return err
	}

	rule := strings.Repeat("=", reportWidth)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "CYBERSHIELD SCAN LOG")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Report Time: %s\n", s.StartedAt.Format("2006-01-02 15:04:05 MST"))
	if s.Duration > 0 {
		fmt.Fprintf(w, "Scanned: %d files (duration: %s)\n", s.Total, HumanDuration(s.Duration))
	} else {
		fmt.Fprintf(w, "Entries: %d\n", s.Total)
	}

	fmt.Fprintf(w, "\nSUMMARY\n")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "   Clean      : %d\n", s.Clean)
	fmt.Fprintf(w, "   Suspicious : %d\n", s.Suspicious)
	fmt.Fprintf(w, "   Malicious  : %d\n", s.Malicious)

	if len(s.Items) > 0 {
		fmt.Fprintf(w, "\nENTRIES\n")
		fmt.Fprintln(w, rule)
	}
	for i, it := range s.Items {
		fmt.Fprintf(w, "\n[%d] %s  %s\n", i+1, it.ID, it.Filename)
		fmt.Fprintf(w, "    Status: %s", strings.ToUpper(string(it.Status)))
		if it.Status != StatusClean {
			fmt.Fprintf(w, " (risk %d/5)", it.Severity)
		}
		fmt.Fprintf(w, "  %s\n", FormatAge(s.StartedAt, it.Timestamp))
		for _, threat := range it.Threats {
			fmt.Fprintf(w, "    • %s\n", threat)
		}
		if it.Quarantinable() {
			fmt.Fprintf(w, "    Recommended: quarantine %s\n", it.Filename)
		}
	}

	fmt.Fprintf(w, "\nRun 'cybershield history --json' for machine-readable output\n")
	_, err := fmt.Fprintln(w, rule)
	return err
}

// HumanDuration returns a compact, human-readable duration string.
// Examples: 850ms, 1.23s, 2m05s, 1h02m.
func HumanDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d/time.Millisecond)
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%02ds", d/time.Minute, (d%time.Minute)/time.Second)
	}
	return fmt.Sprintf("%dh%02dm", d/time.Hour, (d%time.Hour)/time.Minute)
}
