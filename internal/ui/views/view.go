package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	cardGap = 1
	// Lines around the grid: title, blank, two scroll indicators, blank,
	// now playing, status, help, and the main container's padding.
	reservedLines = 10
	filterLines   = 2
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int
	Source string

	Cards          []Card // visible cards in catalog order
	Total          int    // catalog size
	ViewportOffset int    // first row drawn
	ViewportRows   int

	FilterQuery  string
	FilterActive bool   // the filter field has focus
	FilterPrompt string // label in front of the field
	FilterInput  string // rendered text input

	NowPlaying string // display name of the playing sample, if any
	NowState   string
	Position   time.Duration
	Volume     float64

	Loading       bool
	StatusMessage string
	StatusIsError bool
	HelpView      string

	// Mark wraps a rendered card so mouse clicks can find it
	Mark func(id, content string) string
}

// Renderer handles all view rendering
type Renderer struct {
	styles     *Styles
	cardRender *CardRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(cardWidth int, showDurations bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:     styles,
		cardRender: NewCardRenderer(styles, cardWidth, showDurations),
	}
}

// CardID is the click zone id for the card of src
func CardID(src string) string {
	return "card:" + src
}

// Columns is how many cards fit side by side in width
func (r *Renderer) Columns(width int) int {
	if width <= 0 {
		width = 80
	}
	avail := width - 4 // main container padding
	cols := (avail + cardGap) / (r.cardRender.Width() + cardGap)
	if cols < 1 {
		cols = 1
	}
	return cols
}

// Rows is how many rows of cards fit in height
func (r *Renderer) Rows(height int, filterShown bool) int {
	if height <= 0 {
		height = 24
	}
	avail := height - reservedLines
	if filterShown {
		avail -= filterLines
	}
	rows := avail / CardHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n\n")

	if state.FilterActive {
		content.WriteString(r.styles.Filter.Render(state.FilterPrompt))
		content.WriteString(state.FilterInput)
		content.WriteString("\n\n")
	}

	switch {
	case state.Loading && state.Total == 0:
		content.WriteString(r.styles.Dim.Render("Loading samples..."))
	case state.Total == 0:
		content.WriteString(r.styles.Dim.Render(fmt.Sprintf("No samples found in %s.", state.Source)))
	case len(state.Cards) == 0:
		content.WriteString(r.styles.Dim.Render(fmt.Sprintf("No samples match %q.", state.FilterQuery)))
	default:
		content.WriteString(r.renderGrid(state))
	}

	content.WriteString("\n\n")
	content.WriteString(r.renderFooter(state))

	return r.styles.Main.Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("soundgrip")

	right := r.styles.Dim.Render(fmt.Sprintf("%d samples · %s", state.Total, state.Source))
	if state.FilterQuery != "" && !state.FilterActive {
		right = r.styles.Filter.Render(fmt.Sprintf("[Filter: %s]", state.FilterQuery)) + "  " + right
	}

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderGrid(state ViewState) string {
	cols := r.Columns(state.Width)
	rowCount := (len(state.Cards) + cols - 1) / cols

	first := state.ViewportOffset
	last := first + state.ViewportRows
	if last > rowCount {
		last = rowCount
	}

	var lines []string
	if first > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more rows above ↑", first)))
	}

	for row := first; row < last; row++ {
		start := row * cols
		end := start + cols
		if end > len(state.Cards) {
			end = len(state.Cards)
		}

		cells := make([]string, 0, 2*(end-start))
		for i := start; i < end; i++ {
			c := state.Cards[i]
			rendered := r.cardRender.RenderCard(c, state.FilterQuery)
			if state.Mark != nil {
				rendered = state.Mark(CardID(c.Sample.Src), rendered)
			}
			if i > start {
				cells = append(cells, strings.Repeat(" ", cardGap))
			}
			cells = append(cells, rendered)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	if last < rowCount {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more rows below ↓", rowCount-last)))
	}

	return strings.Join(lines, "\n")
}

func (r *Renderer) renderFooter(state ViewState) string {
	var lines []string

	if state.NowPlaying != "" {
		line := r.styles.NowPlaying.Render("▶ " + state.NowPlaying)
		meta := fmt.Sprintf("  %s  %s", state.NowState, FormatDuration(state.Position))
		line += r.styles.Status.Render(meta)
		lines = append(lines, line)
	} else {
		lines = append(lines, r.styles.Dim.Render("Nothing playing. Press → to start."))
	}

	status := r.styles.Status.Render(fmt.Sprintf("vol %+.1f", state.Volume))
	if state.StatusMessage != "" {
		msgStyle := r.styles.StatusSuccess
		if state.StatusIsError {
			msgStyle = r.styles.StatusError
		}
		status += "  " + msgStyle.Render(state.StatusMessage)
	}
	lines = append(lines, status)

	if state.HelpView != "" {
		lines = append(lines, state.HelpView)
	}
	return strings.Join(lines, "\n")
}
