package tui

import "time"

// Package-level constants to avoid magic numbers and improve readability.
const (
	// toastTTL is how long a notification stays on screen.
	toastTTL  = 4 * time.Second
	maxToasts = 3

	inputCharLimit  = 256
	contentMaxWidth = 100

	// fileListHeight is the number of picker rows shown in the scan card.
	fileListHeight = 5
	// headerLines covers the title, subtitle and rule.
	headerLines = 3
	// cardOverheadLines covers the warning, hint and progress rows of the scan card.
	cardOverheadLines = 5
	// chromeLines covers the input bar, toast area and footer.
	chromeLines       = 4 + maxToasts
	minViewportHeight = 5

	scanLogOverheadLines = 10
	plainBarWidth        = 20

	paletteWidth = 50

	copiedPreviewRunes = 32
)
