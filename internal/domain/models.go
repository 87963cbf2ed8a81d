package domain

// Sample is one playable audio asset in the catalog
type Sample struct {
	Name string // display label derived from the file name
	Src  string // slash-separated path inside the catalog filesystem
}

// Selection is the playback selection state: either Idle or Playing.
// Switch over it with a type switch; the two cases are exhaustive.
type Selection interface {
	isSelection()
}

// Idle means no sample is selected for playback
type Idle struct{}

// Playing means the sample at Index is selected for playback
type Playing struct {
	Index int
}

func (Idle) isSelection()    {}
func (Playing) isSelection() {}

// PlayingIndex returns the playing index and true, or -1 and false when idle
func PlayingIndex(s Selection) (int, bool) {
	if p, ok := s.(Playing); ok {
		return p.Index, true
	}
	return -1, false
}

// Output gain bounds in base-2 steps
const (
	MinVolume = -8.0
	MaxVolume = 2.0
)

// Direction is a keyboard navigation step through the catalog
type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

// ElementState mirrors what a media element would report
type ElementState int

const (
	ElementStopped ElementState = iota
	ElementPlaying
	ElementPaused
	ElementEnded
)

// String returns the state name.
func (s ElementState) String() string {
	switch s {
	case ElementStopped:
		return "Stopped"
	case ElementPlaying:
		return "Playing"
	case ElementPaused:
		return "Paused"
	case ElementEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}
