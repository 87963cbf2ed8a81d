package logic

import (
	"strings"

	"soundgrip/internal/domain"
)

// Visible reports whether a card is drawn: its name contains the filter
// (case-insensitive) or it is the playing card.
func Visible(sample domain.Sample, filter string, isPlaying bool) bool {
	if isPlaying {
		return true
	}
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(sample.Name), strings.ToLower(filter))
}

// VisibleIndices returns the catalog indices of the drawn cards in catalog
// order.
func VisibleIndices(samples []domain.Sample, filter string, sel domain.Selection) []int {
	playing, _ := domain.PlayingIndex(sel)
	out := make([]int, 0, len(samples))
	for i, s := range samples {
		if Visible(s, filter, i == playing) {
			out = append(out, i)
		}
	}
	return out
}

// DisplayName is the card label: the first " - " becomes ". ".
func DisplayName(name string) string {
	return strings.Replace(name, " - ", ". ", 1)
}

// MatchRange returns the byte range of the first case-insensitive match of
// filter in name, or -1, -1.
func MatchRange(name, filter string) (int, int) {
	if filter == "" {
		return -1, -1
	}
	lower := strings.ToLower(name)
	q := strings.ToLower(filter)
	i := strings.Index(lower, q)
	if i < 0 || len(lower) != len(name) {
		return -1, -1
	}
	return i, i + len(q)
}
