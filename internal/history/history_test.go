package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/cybershield/internal/scan"
	"github.com/ensigniasec/cybershield/internal/session"
)

func TestFormatAge(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{name: "just now", ago: 10 * time.Second, want: "0m ago"},
		{name: "minutes", ago: 15 * time.Minute, want: "15m ago"},
		{name: "last minute of the hour", ago: 59*time.Minute + 59*time.Second, want: "59m ago"},
		{name: "one hour", ago: time.Hour, want: "1h ago"},
		{name: "hours", ago: 5 * time.Hour, want: "5h ago"},
		{name: "one day", ago: 24 * time.Hour, want: "1d ago"},
		{name: "days", ago: 49 * time.Hour, want: "2d ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAge(now, now.Add(-tt.ago)))
		})
	}
}

func TestMock(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	items := Mock(now)
	require.Len(t, items, 5)

	var quarantinable []string
	for i, it := range items {
		if i > 0 {
			assert.True(t, it.Timestamp.Before(items[i-1].Timestamp), "entries must be newest first")
		}
		if it.Quarantinable() {
			quarantinable = append(quarantinable, it.ID)
		}
		if it.Status == StatusClean {
			assert.Empty(t, it.Threats)
			assert.Zero(t, it.Severity)
		}
	}
	assert.Equal(t, []string{"0xE8F1A5"}, quarantinable)
	assert.Equal(t, "15m ago", FormatAge(now, items[0].Timestamp))
	assert.Equal(t, "2d ago", FormatAge(now, items[4].Timestamp))
}

func TestFromResults(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	results := []session.Result{
		{Verdict: scan.Verdict{Filename: "a.txt", Clean: true}, At: base},
		{Verdict: scan.Verdict{Filename: "b.exe", Severity: 3}, At: base.Add(time.Minute)},
		{Verdict: scan.Verdict{Filename: "c.dll", Severity: 5}, At: base.Add(2 * time.Minute)},
	}

	items := FromResults(results)
	require.Len(t, items, 3)

	assert.Equal(t, "c.dll", items[0].Filename)
	assert.Equal(t, StatusMalicious, items[0].Status)
	assert.True(t, items[0].Quarantinable())

	assert.Equal(t, "b.exe", items[1].Filename)
	assert.Equal(t, StatusSuspicious, items[1].Status)
	assert.Equal(t, 3, items[1].Severity)
	assert.NotEmpty(t, items[1].Threats)

	assert.Equal(t, "a.txt", items[2].Filename)
	assert.Equal(t, StatusClean, items[2].Status)
	assert.Empty(t, items[2].Threats)

	for _, it := range items {
		assert.Regexp(t, `^0x[0-9A-F]{6}$`, it.ID)
	}
}

func TestLog_SessionEntriesComeFirst(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	results := []session.Result{{Verdict: scan.Verdict{Filename: "fresh.bin", Clean: true}, At: now}}

	items := Log(now, results)
	require.Len(t, items, 6)
	assert.Equal(t, "fresh.bin", items[0].Filename)
	assert.Equal(t, "document.pdf", items[1].Filename)
}
