package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists bindings for the help bar. Dispatch itself happens in the
// input package; these only describe the keys.
type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Move   key.Binding
	Play   key.Binding
	Pause  key.Binding
	Volume key.Binding
	Save   key.Binding
	Filter key.Binding
	Keep   key.Binding
	Clear  key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
		Prev:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev")),
		Move:   key.NewBinding(key.WithKeys("up", "down", "j", "k", "h", "l"), key.WithHelp("↑↓/hjkl", "move")),
		Play:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		Pause:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Volume: key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "volume")),
		Save:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "save volume")),
		Filter: key.NewBinding(key.WithKeys("/", "f"), key.WithHelp("/", "filter")),
		Keep:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "keep filter")),
		Clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Move, k.Play, k.Pause, k.Filter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Play, k.Pause, k.Volume},
		{k.Move, k.Filter, k.Clear},
		{k.Reload, k.Save, k.Help, k.Quit},
	}
}

// filterHelp is the short help while the filter field has focus
func (k keyMap) filterHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Keep, k.Clear}
}
