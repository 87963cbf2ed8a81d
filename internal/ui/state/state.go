package state

import (
	"time"
)

// AppState contains the UI state that is not owned by the playback selector
type AppState struct {
	// Source describes where the catalog came from (a directory or "built-in")
	Source string

	// Filter state
	FilterQuery string // live filter text, compared lower-cased

	// Cursor state
	CursorIndex    int    // position within the visible cards
	CursorSrc      string // sample under the cursor, kept across filter edits
	ViewportOffset int    // first visible row of cards
	ViewportRows   int    // rows of cards that fit on screen

	// Sample metadata
	Durations map[string]time.Duration // src -> length

	// UI state
	Loading       bool
	StatusMessage string
	StatusIsError bool
	Volume        float64
}

// NewAppState creates a new application state
func NewAppState(source string) *AppState {
	return &AppState{
		Source:       source,
		Durations:    make(map[string]time.Duration),
		ViewportRows: 4,
	}
}

// SetStatus shows an informational message in the status bar
func (s *AppState) SetStatus(msg string) {
	s.StatusMessage = msg
	s.StatusIsError = false
}

// SetError shows an error message in the status bar
func (s *AppState) SetError(msg string) {
	s.StatusMessage = msg
	s.StatusIsError = true
}

// ClearStatus removes the status message
func (s *AppState) ClearStatus() {
	s.StatusMessage = ""
	s.StatusIsError = false
}

// MergeDurations records probed sample lengths
func (s *AppState) MergeDurations(d map[string]time.Duration) {
	for src, length := range d {
		s.Durations[src] = length
	}
}

// ForgetDurations drops lengths for sources that are no longer listed
func (s *AppState) ForgetDurations(keep map[string]struct{}) {
	for src := range s.Durations {
		if _, ok := keep[src]; !ok {
			delete(s.Durations, src)
		}
	}
}
