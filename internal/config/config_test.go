//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/cybershield/internal/scan"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Animations)
	assert.False(t, cfg.PlainMode)
	assert.Equal(t, 30*time.Millisecond, cfg.TypewriterInterval)
	assert.Equal(t, scan.DefaultTiming(), cfg.Timing())
	assert.NotEmpty(t, cfg.OperatorID)
	assert.Equal(t, path, cfg.Path())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "loading must not create the file")
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `animations: false
plain_mode: true
demo_mode: true
demo_seed: 7
typewriter_interval: 10ms
step_delays: [100ms, 200ms, 300ms, 400ms]
verdict_delay: 500ms
scan_root: /tmp
operator_id: 123e4567-e89b-42d3-a456-426614174000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Animations)
	assert.True(t, cfg.PlainMode)
	assert.True(t, cfg.DemoMode)
	assert.Equal(t, uint64(7), cfg.DemoSeed)
	assert.Equal(t, 10*time.Millisecond, cfg.TypewriterInterval)
	assert.Equal(t, "/tmp", cfg.ScanRoot)
	assert.Equal(t, "123e4567-e89b-42d3-a456-426614174000", cfg.OperatorID)

	timing := cfg.Timing()
	assert.Equal(t, 100*time.Millisecond, timing.Steps[0])
	assert.Equal(t, 400*time.Millisecond, timing.Steps[3])
	assert.Equal(t, 500*time.Millisecond, timing.Verdict)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "interval too slow", content: "typewriter_interval: 5s\n"},
		{name: "wrong step count", content: "step_delays: [1s, 1s]\n"},
		{name: "empty root", content: "scan_root: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Load(path)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("animations: [unterminated\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_RegeneratesInvalidOperatorID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("operator_id: not-a-uuid\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", cfg.OperatorID)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Sound = true
	cfg.StepDelays = []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond, 4 * time.Millisecond}
	require.NoError(t, cfg.Save())

	again, err := Load(path)
	require.NoError(t, err)
	assert.True(t, again.Sound)
	assert.Equal(t, cfg.OperatorID, again.OperatorID)
	assert.Equal(t, cfg.StepDelays, again.StepDelays)
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandTilde("~/.config/cybershield/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config/cybershield/config.yaml"), got)

	got, err = expandTilde("/etc/cybershield.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/cybershield.yaml", got)
}
