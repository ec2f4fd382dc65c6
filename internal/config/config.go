// Package config loads the terminal preferences file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ensigniasec/cybershield/internal/scan"
	"github.com/ensigniasec/cybershield/internal/validate"
)

// DefaultPath is where the preferences file lives unless --config says otherwise.
const DefaultPath = "~/.config/cybershield/config.yaml"

// ErrInvalidConfig wraps validation failures of a loaded file.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the operator's preferences.
type Config struct {
	// Animations enables the typewriter reveal.
	Animations bool `yaml:"animations"`
	Sound      bool `yaml:"sound"`
	// PlainMode drops colours and decorations.
	PlainMode bool `yaml:"plain_mode"`
	// DemoMode replays preset verdicts from DemoSeed.
	DemoMode bool   `yaml:"demo_mode"`
	DemoSeed uint64 `yaml:"demo_seed"`

	TypewriterInterval time.Duration   `yaml:"typewriter_interval" validate:"min=1ms,max=1s"`
	StepDelays         []time.Duration `yaml:"step_delays" validate:"len=4,dive,min=0s,max=1m"`
	VerdictDelay       time.Duration   `yaml:"verdict_delay" validate:"min=0s,max=1m"`

	// ScanRoot is the directory the file picker lists.
	ScanRoot string `yaml:"scan_root" validate:"required"`

	OperatorID string `yaml:"operator_id,omitempty" validate:"omitempty,uuid4"`

	path string
}

// Default returns the preferences of a fresh install.
func Default() *Config {
	timing := scan.DefaultTiming()
	return &Config{
		Animations:         true,
		Sound:              false,
		PlainMode:          false,
		DemoMode:           false,
		DemoSeed:           1,
		TypewriterInterval: 30 * time.Millisecond,
		StepDelays:         timing.Steps[:],
		VerdictDelay:       timing.Verdict,
		ScanRoot:           ".",
		OperatorID:         uuid.NewString(),
	}
}

// Load reads the file at path over the defaults. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	expanded, err := expandTilde(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	cfg.path = expanded

	logrus.Debug("Loading config file from: ", expanded)
	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", expanded, err)
	}

	// A missing or malformed operator id is regenerated rather than rejected.
	if cfg.OperatorID == "" || validate.Var(cfg.OperatorID, "uuid4") != nil {
		if cfg.OperatorID != "" {
			logrus.Warn("Invalid operator_id found in config; regenerating.")
		}
		cfg.OperatorID = uuid.NewString()
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, expanded, err)
	}
	return cfg, nil
}

// Save writes the config to its path, creating parent directories.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no path")
	}
	logrus.Debug("Saving config file to: ", c.path)
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o600)
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Path returns the resolved file location.
func (c *Config) Path() string { return c.path }

// WithPath sets the file location used by Save.
func (c *Config) WithPath(path string) (*Config, error) {
	expanded, err := expandTilde(path)
	if err != nil {
		return nil, err
	}
	c.path = expanded
	return c, nil
}

// Timing converts the configured delays into a scan timing.
func (c *Config) Timing() scan.Timing {
	t := scan.DefaultTiming()
	for i := range t.Steps {
		if i < len(c.StepDelays) {
			t.Steps[i] = c.StepDelays[i]
		}
	}
	t.Verdict = c.VerdictDelay
	return t
}

// expandTilde expands the tilde in a path to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
