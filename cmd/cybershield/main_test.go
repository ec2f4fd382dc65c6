package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoglobals // test binary path is set in TestMain
var testBinaryPath string

// TestMain builds the CLI binary once for the entire package and reuses it.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cybershield-test-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1) //nolint:gocritic // Mkdir failed, nothing to cleanup
	}
	defer os.RemoveAll(dir)

	bin := filepath.Join(dir, "cybershield-test")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to build test binary: %v\nOutput: %s\n", err, string(out))
		os.Exit(1) //nolint:gocritic // Binary failed, nothing to cleanup
	}
	testBinaryPath = bin

	code := m.Run()
	os.Exit(code)
}

func buildTestBinary(t *testing.T) string {
	if testBinaryPath == "" {
		t.Fatalf("test binary not built")
	}
	return testBinaryPath
}

// newCmd points every invocation at a private config file and HOME so tests
// never touch the real preferences.
func newCmd(t *testing.T, binary string, args ...string) *exec.Cmd {
	t.Helper()
	home := t.TempDir()
	cfg := filepath.Join(home, "config.yaml")
	cmd := exec.Command(binary, append([]string{"--config", cfg}, args...)...)
	cmd.Env = append(os.Environ(), "HOME="+home)
	return cmd
}

// runJSON runs the command and decodes stdout as a report.
func runJSON(t *testing.T, cmd *exec.Cmd) map[string]any {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run(), "stderr: %s", stderr.String())

	var report map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report), "Output should be valid JSON: %s", stdout.String())
	return report
}

func TestCLI_HelpOutput(t *testing.T) {
	binary := buildTestBinary(t)

	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "root help",
			args:     []string{"--help"},
			contains: []string{"cybershield", "Educational use only", "scan", "history", "config", "--plain", "--no-animations", "--log-file"},
		},
		{
			name:     "scan help",
			args:     []string{"scan", "--help"},
			contains: []string{"FILE|DIR", "--json", "--seed", "--instant", "--verbose"},
		},
		{
			name:     "config help",
			args:     []string{"config", "--help"},
			contains: []string{"show", "init"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := newCmd(t, binary, tt.args...).CombinedOutput()
			require.NoError(t, err)
			for _, expected := range tt.contains {
				assert.Contains(t, string(output), expected)
			}
		})
	}
}

func TestCLI_Version(t *testing.T) {
	binary := buildTestBinary(t)

	output, err := newCmd(t, binary, "--version").CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(output), "cybershield dev")
	assert.Contains(t, string(output), "commit: none")
}

func TestCLI_ScanText(t *testing.T) {
	binary := buildTestBinary(t)

	output, err := newCmd(t, binary, "scan", "--instant", "invoice.pdf").CombinedOutput()
	require.NoError(t, err, "Output: %s", string(output))

	out := string(output)
	for _, expected := range []string{
		"cybershield> scan file invoice.pdf",
		"> Initializing deep scan on: invoice.pdf...",
		"> Scanning file structure and entropy...",
		"> Checking hash signatures against threat database...",
		"> Running behavioral analysis...",
		"CYBERSHIELD SCAN LOG",
		"Scanned: 1 files",
	} {
		assert.Contains(t, out, expected)
	}
}

func TestCLI_ScanJSON(t *testing.T) {
	binary := buildTestBinary(t)

	report := runJSON(t, newCmd(t, binary, "scan", "--instant", "--json", "a.bin", "b.bin"))
	assert.InDelta(t, 2, report["total"], 0)

	items, ok := report["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "b.bin", items[0].(map[string]any)["filename"], "newest first")
	assert.Equal(t, "a.bin", items[1].(map[string]any)["filename"])

	counts := report["clean"].(float64) + report["suspicious"].(float64) + report["malicious"].(float64)
	assert.InDelta(t, 2, counts, 0)
}

func TestCLI_ScanDirectory(t *testing.T) {
	binary := buildTestBinary(t)
	dir := t.TempDir()
	for _, name := range []string{"one.txt", "two.exe", ".hidden"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vendor", "skip.go"), []byte("x"), 0o600))

	report := runJSON(t, newCmd(t, binary, "scan", "--instant", "--json", dir))
	assert.InDelta(t, 2, report["total"], 0)
}

func TestCLI_ScanSeedIsRepeatable(t *testing.T) {
	binary := buildTestBinary(t)
	args := []string{"scan", "--instant", "--json", "--seed", "42", "a", "b", "c", "d", "e"}

	verdicts := func() []string {
		report := runJSON(t, newCmd(t, binary, args...))
		items := report["items"].([]any)
		out := make([]string, 0, len(items))
		for _, it := range items {
			m := it.(map[string]any)
			out = append(out, fmt.Sprintf("%s:%s:%v", m["filename"], m["status"], m["severity"]))
		}
		return out
	}

	first := verdicts()
	assert.Len(t, first, 5)
	assert.Equal(t, first, verdicts())
}

func TestCLI_ScanDirectorySeedIsRepeatable(t *testing.T) {
	binary := buildTestBinary(t)
	dir := t.TempDir()
	for _, name := range []string{"a/x.bin", "b/y.bin", "c/z.bin", "d/e/w.bin", "top.txt"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o700))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	}
	args := []string{"scan", "--instant", "--json", "--seed", "42", dir}

	verdicts := func() []string {
		report := runJSON(t, newCmd(t, binary, args...))
		items := report["items"].([]any)
		out := make([]string, 0, len(items))
		for _, it := range items {
			m := it.(map[string]any)
			out = append(out, fmt.Sprintf("%s:%s:%v", m["filename"], m["status"], m["severity"]))
		}
		return out
	}

	first := verdicts()
	require.Len(t, first, 5)
	for range 3 {
		assert.Equal(t, first, verdicts())
	}
}

func TestCLI_History(t *testing.T) {
	binary := buildTestBinary(t)

	output, err := newCmd(t, binary, "history").CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(output), "malware_sample.exe")
	assert.Contains(t, string(output), "Recommended: quarantine malware_sample.exe")
	assert.Contains(t, string(output), "Entries: 5")

	report := runJSON(t, newCmd(t, binary, "history", "--json"))
	assert.InDelta(t, 5, report["total"], 0)
	assert.InDelta(t, 1, report["malicious"], 0)
}

func TestCLI_ConfigInitAndShow(t *testing.T) {
	binary := buildTestBinary(t)
	home := t.TempDir()
	cfg := filepath.Join(home, "nested", "config.yaml")

	run := func(args ...string) (string, error) {
		cmd := exec.Command(binary, append([]string{"--config", cfg}, args...)...)
		cmd.Env = append(os.Environ(), "HOME="+home)
		out, err := cmd.CombinedOutput()
		return string(out), err
	}

	out, err := run("config", "init")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Wrote default config to "+cfg)
	assert.FileExists(t, cfg)

	out, err = run("config", "show")
	require.NoError(t, err, out)
	assert.Contains(t, out, "# "+cfg)
	assert.Contains(t, out, "animations: true")
	assert.Contains(t, out, "operator_id:")

	out, err = run("--plain", "config", "show")
	require.NoError(t, err, out)
	assert.Contains(t, out, "plain_mode: true")

	out, err = run("config", "init")
	require.Error(t, err)
	assert.Contains(t, out, "already exists")

	_, err = run("config", "init", "--force")
	require.NoError(t, err)
}

func TestCLI_ErrorHandling(t *testing.T) {
	binary := buildTestBinary(t)

	tests := []struct {
		name     string
		args     []string
		errorMsg string
	}{
		{
			name:     "scan without arguments",
			args:     []string{"scan"},
			errorMsg: "requires at least 1 arg(s)",
		},
		{
			name:     "invalid command",
			args:     []string{"invalid-command"},
			errorMsg: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := newCmd(t, binary, tt.args...).CombinedOutput()
			require.Error(t, err)
			assert.Contains(t, string(output), tt.errorMsg)
		})
	}
}

func TestCLI_InvalidConfigFails(t *testing.T) {
	binary := buildTestBinary(t)
	home := t.TempDir()
	cfg := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("step_delays: [1s]\nscan_root: .\n"), 0o600))

	cmd := exec.Command(binary, "--config", cfg, "config", "show")
	output, err := cmd.CombinedOutput()
	require.Error(t, err)
	assert.Contains(t, string(output), "invalid config")
}
