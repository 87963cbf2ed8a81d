package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"soundgrip/internal/domain"
	"soundgrip/internal/ui/logic"
)

// CardHeight is the number of terminal lines one card takes, border included.
const CardHeight = 4

// Card is everything needed to draw one sample
type Card struct {
	Sample      domain.Sample
	Index       int // catalog position, shown 1-based
	Playing     bool
	Cursor      bool
	State       domain.ElementState
	Duration    time.Duration
	HasDuration bool
}

// CardRenderer handles rendering of sample cards
type CardRenderer struct {
	styles        *Styles
	width         int
	showDurations bool
}

// NewCardRenderer creates a new card renderer. width is the outer width of
// a card including its border.
func NewCardRenderer(styles *Styles, width int, showDurations bool) *CardRenderer {
	return &CardRenderer{
		styles:        styles,
		width:         width,
		showDurations: showDurations,
	}
}

// Width is the outer card width.
func (r *CardRenderer) Width() int {
	return r.width
}

// RenderCard renders one card
func (r *CardRenderer) RenderCard(c Card, filter string) string {
	inner := r.width - 4 // border and padding

	box := r.styles.Card
	nameStyle := r.styles.CardName
	switch {
	case c.Playing && c.Cursor:
		box = r.styles.CardPlayingCursor
		nameStyle = r.styles.CardNamePlaying
	case c.Playing:
		box = r.styles.CardPlaying
		nameStyle = r.styles.CardNamePlaying
	case c.Cursor:
		box = r.styles.CardCursor
	}

	icon := lipgloss.NewStyle().Foreground(StateColor(c.State)).Render(StateIcon(c.State))

	name := truncate.StringWithTail(logic.DisplayName(c.Sample.Name), uint(inner-2), "…")
	if name == "" {
		name = r.styles.Dim.Render("(unnamed)")
	} else {
		name = r.highlightMatch(name, filter, r.styles.Highlight, nameStyle)
	}

	first := icon + " " + name
	second := r.styles.CardMeta.Render(truncate.String(r.meta(c), uint(inner)))

	return box.Width(r.width - 2).Render(first + "\n" + second)
}

func (r *CardRenderer) meta(c Card) string {
	parts := []string{fmt.Sprintf("#%d", c.Index+1)}
	if r.showDurations && c.HasDuration {
		parts = append(parts, FormatDuration(c.Duration))
	}
	if c.State != domain.ElementStopped {
		parts = append(parts, strings.ToLower(c.State.String()))
	}
	return strings.Join(parts, "  ")
}

// highlightMatch highlights the filter match within a name
func (r *CardRenderer) highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	start, end := logic.MatchRange(text, query)
	if start < 0 {
		return normalStyle.Render(text)
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString(normalStyle.Render(text[:start]))
	}
	b.WriteString(highlightStyle.Render(text[start:end]))
	if end < len(text) {
		b.WriteString(normalStyle.Render(text[end:]))
	}
	return b.String()
}

// FormatDuration renders a sample length as seconds, or m:ss past a minute.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
