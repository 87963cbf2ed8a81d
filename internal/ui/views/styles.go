package views

import (
	"github.com/charmbracelet/lipgloss"

	"soundgrip/internal/domain"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Filter        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	NowPlaying    lipgloss.Style

	Card              lipgloss.Style
	CardCursor        lipgloss.Style
	CardPlaying       lipgloss.Style
	CardPlayingCursor lipgloss.Style
	CardName          lipgloss.Style
	CardNamePlaying   lipgloss.Style
	CardMeta          lipgloss.Style
}

const (
	colorAccent  = lipgloss.Color("99")  // purple
	colorPlaying = lipgloss.Color("78")  // green
	colorWarn    = lipgloss.Color("214") // yellow
	colorError   = lipgloss.Color("203") // red
	colorMuted   = lipgloss.Color("241") // gray
)

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(0, 1)

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(colorMuted),
		Filter:        lipgloss.NewStyle().Foreground(colorWarn),
		Help:          lipgloss.NewStyle().Faint(true),
		Main:          lipgloss.NewStyle().Padding(1, 2),
		Scroll:        lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(colorError),
		StatusSuccess: lipgloss.NewStyle().Foreground(colorPlaying),
		NowPlaying:    lipgloss.NewStyle().Foreground(colorPlaying).Bold(true),

		Card:              card,
		CardCursor:        card.BorderForeground(colorAccent),
		CardPlaying:       card.BorderForeground(colorPlaying),
		CardPlayingCursor: card.Border(lipgloss.ThickBorder()).BorderForeground(colorPlaying),
		CardName:          lipgloss.NewStyle(),
		CardNamePlaying:   lipgloss.NewStyle().Foreground(colorPlaying).Bold(true),
		CardMeta:          lipgloss.NewStyle().Foreground(colorMuted),
	}
}

// StateIcon returns the one-cell marker for an element state
func StateIcon(s domain.ElementState) string {
	switch s {
	case domain.ElementPlaying:
		return "▶"
	case domain.ElementPaused:
		return "‖"
	case domain.ElementEnded:
		return "✓"
	default:
		return "·"
	}
}

// StateColor returns the color for an element state
func StateColor(s domain.ElementState) lipgloss.Color {
	switch s {
	case domain.ElementPlaying, domain.ElementEnded:
		return colorPlaying
	case domain.ElementPaused:
		return colorWarn
	default:
		return colorMuted
	}
}
