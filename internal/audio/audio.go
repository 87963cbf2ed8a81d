// Package audio provides playable elements for samples. An Element behaves
// like a media element: it can be played, paused and rewound, and it resumes
// from where it was paused.
package audio

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"

	"soundgrip/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned when no decoder handles a file extension.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrClosed is returned by operations on a closed element.
	ErrClosed = errors.New("element closed")
)

// Element is the playable handle for one sample.
type Element interface {
	// Play starts or resumes playback from the current position. An element
	// that ran to its end starts over.
	Play() error
	Pause()
	// Rewind moves the position back to the start without changing the
	// paused state.
	Rewind() error
	State() domain.ElementState
	Position() time.Duration
	Close() error
}

// Backend opens elements and owns the output device.
type Backend interface {
	// Open takes ownership of r and returns an element for src. The
	// extension of src picks the decoder.
	Open(src string, r io.ReadCloser) (Element, error)
	SetVolume(v float64)
	Volume() float64
	Close() error
}

// FinishedFunc is called with the element's source when it reaches the end
// of its stream. It runs on its own goroutine.
type FinishedFunc func(src string)

// Supported reports whether a decoder exists for src.
func Supported(src string) bool {
	switch strings.ToLower(path.Ext(src)) {
	case ".mp3", ".wav":
		return true
	}
	return false
}

// Decode picks a decoder by the extension of src.
func Decode(src string, r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(path.Ext(src)) {
	case ".mp3":
		s, f, err := mp3.Decode(r)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("decoding mp3 %s: %w", src, err)
		}
		return s, f, nil
	case ".wav":
		s, f, err := wav.Decode(r)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("decoding wav %s: %w", src, err)
		}
		return s, f, nil
	}
	return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, src)
}
