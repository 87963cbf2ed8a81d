// Package playback holds the "currently playing" selection and applies the
// resulting effects to audio elements.
package playback

import (
	"errors"
	"fmt"

	"soundgrip/internal/domain"
)

// ErrIndexOutOfRange is returned by Select for an index outside the catalog.
var ErrIndexOutOfRange = errors.New("sample index out of range")

// EffectKind is the action an Effect asks for.
type EffectKind int

const (
	// EffectStop pauses an element and rewinds it to the start.
	EffectStop EffectKind = iota
	// EffectPlay starts or resumes an element from its current position.
	EffectPlay
)

func (k EffectKind) String() string {
	switch k {
	case EffectStop:
		return "stop"
	case EffectPlay:
		return "play"
	}
	return fmt.Sprintf("EffectKind(%d)", int(k))
}

// Effect is one playback action produced by a selection change.
type Effect struct {
	Kind   EffectKind
	Index  int
	Sample domain.Sample
}

func (e Effect) String() string {
	return fmt.Sprintf("%s(%d %s)", e.Kind, e.Index, e.Sample.Src)
}

// Selector owns the Idle | Playing(index) state for an ordered catalog. It is
// not safe for concurrent use.
type Selector struct {
	samples []domain.Sample
	state   domain.Selection
}

func NewSelector(samples []domain.Sample) *Selector {
	return &Selector{
		samples: append([]domain.Sample(nil), samples...),
		state:   domain.Idle{},
	}
}

func (s *Selector) State() domain.Selection { return s.state }

func (s *Selector) Len() int { return len(s.samples) }

// Samples returns the catalog. Callers must not modify it.
func (s *Selector) Samples() []domain.Sample { return s.samples }

// Playing returns the playing sample and its index.
func (s *Selector) Playing() (domain.Sample, int, bool) {
	i, ok := domain.PlayingIndex(s.state)
	if !ok {
		return domain.Sample{}, -1, false
	}
	return s.samples[i], i, true
}

// Select makes index the playing sample. Selecting the playing sample again
// resumes it without rewinding.
func (s *Selector) Select(index int) ([]Effect, error) {
	if index < 0 || index >= len(s.samples) {
		return nil, fmt.Errorf("%w: %d (catalog has %d)", ErrIndexOutOfRange, index, len(s.samples))
	}
	return s.transition(domain.Playing{Index: index}), nil
}

// Advance moves the selection by d with wraparound. From Idle, Next picks the
// first sample and Previous the last. An empty catalog is a no-op.
func (s *Selector) Advance(d domain.Direction) []Effect {
	target, ok := s.Target(d)
	if !ok {
		return nil
	}
	return s.transition(domain.Playing{Index: target})
}

// Target is the index Advance(d) would select.
func (s *Selector) Target(d domain.Direction) (int, bool) {
	n := len(s.samples)
	if n == 0 {
		return 0, false
	}
	i, playing := domain.PlayingIndex(s.state)
	if !playing {
		if d < 0 {
			return n - 1, true
		}
		return 0, true
	}
	return ((i+int(d))%n + n) % n, true
}

// Replace swaps in a reloaded catalog. The playing sample stays selected at
// its new position; if it is gone it is stopped and the selection goes Idle.
func (s *Selector) Replace(samples []domain.Sample) []Effect {
	var effects []Effect
	if cur, _, ok := s.Playing(); ok {
		if idx := indexOf(samples, cur.Src); idx >= 0 {
			s.state = domain.Playing{Index: idx}
		} else {
			effects = s.transition(domain.Idle{})
		}
	}
	s.samples = append([]domain.Sample(nil), samples...)
	return effects
}

// transition is the only place the selection changes. Leaving Playing(j)
// emits Stop(j) before entering Playing(i) emits Play(i).
func (s *Selector) transition(next domain.Selection) []Effect {
	var effects []Effect

	prev, wasPlaying := domain.PlayingIndex(s.state)
	target, willPlay := domain.PlayingIndex(next)

	if wasPlaying && (!willPlay || prev != target) {
		effects = append(effects, Effect{Kind: EffectStop, Index: prev, Sample: s.samples[prev]})
	}
	s.state = next
	if willPlay {
		effects = append(effects, Effect{Kind: EffectPlay, Index: target, Sample: s.samples[target]})
	}
	return effects
}

func indexOf(samples []domain.Sample, src string) int {
	for i, smp := range samples {
		if smp.Src == src {
			return i
		}
	}
	return -1
}
