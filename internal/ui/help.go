package ui

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/noborus/ov/oviewer"
)

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

var errNoProgram = errors.New("program not set")

const helpMarkdown = `# soundgrip

A grid of sound cards. At most one sample plays at a time.

## Playback

| Key | Action |
|-----|--------|
| → | Play the next sample (wraps around) |
| ← | Play the previous sample (wraps around) |
| Enter / click | Play the card under the cursor |
| Space | Pause or resume the playing sample |
| + / - | Volume up / down |

→ and ← work while typing a filter, too. Starting from nothing playing,
→ plays the first sample and ← plays the last.

## Cursor

| Key | Action |
|-----|--------|
| ↑ ↓, j k | Move between rows |
| h l | Move within a row |
| PgUp / PgDn | Page up / down |
| gg / G | First / last card |

## Filter

| Key | Action |
|-----|--------|
| / or f | Type a filter |
| Enter | Keep the filter and leave the field |
| Ctrl+U | Empty the field |
| Esc | Clear the filter |

The filter matches names case-insensitively. The playing card stays
visible even when it does not match.

## Other

| Key | Action |
|-----|--------|
| r | Reload samples from disk |
| S | Save the volume to the config file |
| ? | This help |
| q / Ctrl+C | Quit |
`

// RenderHelp renders the help text for a terminal of the given width
func RenderHelp(width int) string {
	if width <= 0 || width > 100 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}

// HelpOps handles help operations
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{program: program}
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h.program == nil {
		return errNoProgram
	}

	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// let ov leave the alternate screen before we take it back
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// showHelpCmd runs the pager outside the Update loop
func (m *Model) showHelpCmd() tea.Cmd {
	ops := NewHelpOps(m.program)
	content := RenderHelp(m.width)
	return func() tea.Msg {
		return helpPagerMsg{err: ops.ShowHelpInPager(content)}
	}
}
