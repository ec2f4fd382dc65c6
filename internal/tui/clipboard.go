package tui

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnsupported is returned when no clipboard utility is available.
var ErrClipboardUnsupported = errors.New("clipboard unsupported on this system")

// Clipboard is the copy surface used by ctrl+y.
type Clipboard interface {
	WriteAll(text string) error
}

// systemClipboard writes through the platform clipboard utilities.
type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}
