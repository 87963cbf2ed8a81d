package types

import "soundgrip/internal/domain"

// Cursor actions
type NavigateAction struct {
	Direction string // "up", "down", "left", "right", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Playback actions

// AdvanceAction plays the next or previous sample with wraparound.
type AdvanceAction struct {
	Direction domain.Direction
}

func (a AdvanceAction) Type() string { return "advance" }

// PlayCursorAction plays the card under the cursor.
type PlayCursorAction struct{}

func (a PlayCursorAction) Type() string { return "play_cursor" }

// PlayIndexAction plays the sample at a catalog index.
type PlayIndexAction struct {
	Index int
}

func (a PlayIndexAction) Type() string { return "play_index" }

type TogglePauseAction struct{}

func (a TogglePauseAction) Type() string { return "toggle_pause" }

type VolumeAction struct {
	Delta float64
}

func (a VolumeAction) Type() string { return "volume" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Command actions
type ReloadAction struct{}

func (a ReloadAction) Type() string { return "reload" }

// SaveVolumeAction stores the current volume in the config file.
type SaveVolumeAction struct{}

func (a SaveVolumeAction) Type() string { return "save_volume" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
