package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which cards stack above the track.
	LayoutCompactWidth = 100

	// CardWidth is the outer width of one telemetry card.
	CardWidth = 34

	// MinTrackWidth is the narrowest track panel worth drawing beside the cards.
	MinTrackWidth = 30
)

// Log display limits.
const (
	// LogBufferLimit is the maximum number of log lines read from the file.
	LogBufferLimit = 2000
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI takes a snapshot.
	DefaultUIInterval = 250 * time.Millisecond
)
