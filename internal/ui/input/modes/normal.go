package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"soundgrip/internal/ui/input/types"
)

// doubleTapWindow bounds the gap between the two presses of "gg".
const doubleTapWindow = 500 * time.Millisecond

// boardMoves maps cursor keys to their grid direction.
var boardMoves = map[string]string{
	"up": "up", "k": "up",
	"down": "down", "j": "down",
	"h": "left", "l": "right",
	"pgup": "pageup", "pgdown": "pagedown",
	"home": "home", "end": "end", "G": "end",
}

// NormalMode is the board's default mode: cursor movement, playback and
// the entry points into the other modes.
type NormalMode struct {
	pendingG time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	key := msg.String()
	if key == "g" {
		return m.pressG(), true
	}
	m.pendingG = time.Time{}

	if dir, ok := boardMoves[key]; ok {
		return one(types.NavigateAction{Direction: dir}), true
	}

	switch key {
	case "ctrl+c":
		return one(types.QuitAction{Force: true}), true
	case "q":
		return one(types.QuitAction{}), true
	case "enter":
		if ctx.VisibleCount() == 0 {
			return nil, true
		}
		return one(types.PlayCursorAction{}), true
	case " ":
		if !ctx.HasPlaying() {
			return nil, true
		}
		return one(types.TogglePauseAction{}), true
	case "esc":
		if ctx.FilterQuery() == "" {
			return nil, true
		}
		return one(types.CancelTextAction{}), true
	case "/", "f":
		return one(types.ChangeModeAction{Mode: types.ModeFilter}), true
	case "+", "=":
		return one(types.VolumeAction{Delta: 0.5}), true
	case "-", "_":
		return one(types.VolumeAction{Delta: -0.5}), true
	case "r":
		return one(types.ReloadAction{}), true
	case "S":
		return one(types.SaveVolumeAction{}), true
	case "?":
		return one(types.ToggleHelpAction{}), true
	}
	return nil, false
}

// pressG jumps home on the second of two quick presses.
func (m *NormalMode) pressG() []types.Action {
	now := time.Now()
	if !m.pendingG.IsZero() && now.Sub(m.pendingG) < doubleTapWindow {
		m.pendingG = time.Time{}
		return one(types.NavigateAction{Direction: "home"})
	}
	m.pendingG = now
	return nil
}

func one(a types.Action) []types.Action {
	return []types.Action{a}
}
