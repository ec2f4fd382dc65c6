package tui

import "github.com/ensigniasec/cybershield/internal/picker"

// Message types for Bubble Tea update loop.

// timerFiredMsg delivers a clock callback to Update.
type timerFiredMsg struct{ id uint64 }

// toastExpiredMsg removes a notification.
type toastExpiredMsg struct{ id uint64 }

// filesLoadedMsg carries the picker entries discovered under the scan root.
type filesLoadedMsg struct {
	entries []picker.Entry
	err     error
}

// clipboardMsg reports the outcome of a copy.
type clipboardMsg struct {
	text string
	err  error
}
