package tui

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/cybershield/internal/config"
)

// Run starts the Bubble Tea TUI program and blocks until the user quits or
// ctx is canceled. When logFile is empty log output is discarded while the
// program owns the terminal.
func Run(ctx context.Context, cfg *config.Config, logFile string) error {
	model := NewModel(Options{Context: ctx, Config: cfg})
	defer model.Session().Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Silence external logs during TUI to avoid corrupting the view.
	prevOut := logrus.StandardLogger().Out
	defer logrus.SetOutput(prevOut)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return err
		}
		defer f.Close()
		logrus.SetOutput(f)
	} else {
		logrus.SetOutput(io.Discard)
	}

	logrus.WithField("session", model.Session().ID()).Info("terminal started")
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
