package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"soundgrip/internal/domain"
)

func TestVisible(t *testing.T) {
	kick := domain.Sample{Name: "Kick - One", Src: "Kick - One.wav"}

	tests := []struct {
		name    string
		filter  string
		playing bool
		want    bool
	}{
		{"empty filter", "", false, true},
		{"substring", "ck - o", false, true},
		{"case-insensitive", "KICK", false, true},
		{"no match", "snare", false, false},
		{"no match but playing", "snare", true, true},
		{"display form does not match", "kick. one", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Visible(kick, tt.filter, tt.playing))
		})
	}
}

func TestVisibleIndices(t *testing.T) {
	samples := []domain.Sample{{Name: "Kick"}, {Name: "Snare"}, {Name: "Hat"}}

	assert.Equal(t, []int{0, 1, 2}, VisibleIndices(samples, "", domain.Idle{}))
	assert.Equal(t, []int{2}, VisibleIndices(samples, "ha", domain.Idle{}))
	assert.Equal(t, []int{1, 2}, VisibleIndices(samples, "ha", domain.Playing{Index: 1}))
	assert.Empty(t, VisibleIndices(samples, "zzz", domain.Idle{}))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Kick. One", DisplayName("Kick - One"))
	assert.Equal(t, "A. B - C", DisplayName("A - B - C"))
	assert.Equal(t, "Kick-One", DisplayName("Kick-One"))
	assert.Equal(t, "", DisplayName(""))
}

func TestMatchRange(t *testing.T) {
	s, e := MatchRange("Air Horn", "HORN")
	assert.Equal(t, 4, s)
	assert.Equal(t, 8, e)

	s, e = MatchRange("Air Horn", "")
	assert.Equal(t, -1, s)
	assert.Equal(t, -1, e)

	s, _ = MatchRange("Air Horn", "kick")
	assert.Equal(t, -1, s)
}

func TestNavigator_GridMoves(t *testing.T) {
	n := NewNavigator()
	// 7 cards in 3 columns:
	// 0 1 2
	// 3 4 5
	// 6
	n.UpdateState(0, 7, 3, 0, 10)

	c, _ := n.Move("down")
	assert.Equal(t, 3, c)
	c, _ = n.Move("right")
	assert.Equal(t, 4, c)
	c, _ = n.Move("down")
	assert.Equal(t, 6, c, "short last row lands on its last card")
	c, _ = n.Move("down")
	assert.Equal(t, 6, c)
	c, _ = n.Move("up")
	assert.Equal(t, 3, c)
	c, _ = n.Move("left")
	assert.Equal(t, 2, c)
	c, _ = n.Move("end")
	assert.Equal(t, 6, c)
	c, _ = n.Move("home")
	assert.Equal(t, 0, c)
	c, _ = n.Move("left")
	assert.Equal(t, 0, c)
}

func TestNavigator_Scrolls(t *testing.T) {
	n := NewNavigator()
	// 10 rows of 2, 3 rows visible
	n.UpdateState(0, 20, 2, 0, 3)

	_, off := n.SetCursor(9)
	assert.Equal(t, 2, off, "row 4 needs offset 2")

	_, off = n.Move("pagedown")
	assert.Equal(t, 5, off)

	_, off = n.Move("end")
	assert.Equal(t, 7, off)

	_, off = n.Move("home")
	assert.Equal(t, 0, off)
}

func TestNavigator_Empty(t *testing.T) {
	n := NewNavigator()
	n.UpdateState(5, 0, 3, 2, 4)
	assert.Equal(t, 0, n.Cursor())
	assert.Equal(t, 0, n.ViewportOffset())

	c, off := n.Move("down")
	assert.Zero(t, c)
	assert.Zero(t, off)
}

func TestNavigator_ClampsOnShrink(t *testing.T) {
	n := NewNavigator()
	n.UpdateState(8, 3, 1, 6, 2)
	assert.Equal(t, 2, n.Cursor())
	assert.Equal(t, 1, n.ViewportOffset())
}
