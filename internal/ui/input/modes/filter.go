package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"soundgrip/internal/ui/input/types"
)

type FilterMode struct {
	TextInputMode
}

func NewFilterMode(ti *textinput.Model) *FilterMode {
	return &FilterMode{
		TextInputMode: NewTextInputMode(types.ModeFilter, "filter", "Filter: ", ti),
	}
}

// Enter keeps editing the current filter instead of starting empty.
func (m *FilterMode) Enter(ctx types.Context) []types.Action {
	actions := m.TextInputMode.Enter(ctx)
	if m.textInput != nil {
		m.textInput.SetValue(ctx.FilterQuery())
		m.textInput.CursorEnd()
	}
	return actions
}
