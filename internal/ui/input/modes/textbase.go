package modes

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"soundgrip/internal/ui/input/types"
)

// TextInputMode is the shared behaviour of a focused text field. Keys it does
// not consume are typed into the field by the handler.
type TextInputMode struct {
	mode      types.Mode
	name      string
	prompt    string
	textInput *textinput.Model
}

func NewTextInputMode(mode types.Mode, name, prompt string, ti *textinput.Model) TextInputMode {
	return TextInputMode{
		mode:      mode,
		name:      name,
		prompt:    prompt,
		textInput: ti,
	}
}

func (m TextInputMode) Name() string { return m.name }

// Prompt is the label drawn in front of the field.
func (m TextInputMode) Prompt() string { return m.prompt }

func (m TextInputMode) Enter(ctx types.Context) []types.Action {
	if m.textInput == nil {
		return nil
	}
	m.textInput.Reset()
	m.textInput.Prompt = ""
	m.textInput.Focus()
	return nil
}

func (m TextInputMode) Exit(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Blur()
	}
	return nil
}

func (m TextInputMode) value() string {
	if m.textInput == nil {
		return ""
	}
	return m.textInput.Value()
}

func (m TextInputMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		return []types.Action{
			types.CancelTextAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true

	case tea.KeyEnter:
		// Blank text keeps nothing
		text := m.value()
		if strings.TrimSpace(text) == "" {
			text = ""
		}
		return []types.Action{
			types.SubmitTextAction{Text: text, Mode: m.mode},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true

	case tea.KeyCtrlU:
		if m.textInput != nil {
			m.textInput.SetValue("")
		}
		return []types.Action{types.UpdateTextAction{Text: ""}}, true
	}

	return nil, false
}
