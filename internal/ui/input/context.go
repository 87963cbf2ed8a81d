package input

import (
	"soundgrip/internal/domain"
	"soundgrip/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State     *state.AppState
	Visible   []int
	Selection domain.Selection
}

// CursorIndex returns the cursor position within the visible cards
func (c *ModelContext) CursorIndex() int {
	return c.State.CursorIndex
}

// VisibleCount returns the number of drawn cards
func (c *ModelContext) VisibleCount() int {
	return len(c.Visible)
}

// HasPlaying reports whether a sample is selected for playback
func (c *ModelContext) HasPlaying() bool {
	_, ok := domain.PlayingIndex(c.Selection)
	return ok
}

// FilterQuery returns the live filter text
func (c *ModelContext) FilterQuery() string {
	return c.State.FilterQuery
}
