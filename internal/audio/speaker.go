package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"

	"soundgrip/internal/domain"
	"soundgrip/internal/log"
)

// SpeakerBackend plays elements through the default output device. Element
// state touched by the mixer goroutine is guarded by speaker.Lock.
type SpeakerBackend struct {
	rate       beep.SampleRate
	onFinished FinishedFunc

	mu       sync.Mutex
	elements map[*speakerElement]struct{}
	volume   float64
}

// NewSpeaker initialises the speaker at sampleRate with the given buffer.
func NewSpeaker(sampleRate int, buffer time.Duration, volume float64, onFinished FinishedFunc) (*SpeakerBackend, error) {
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(buffer)); err != nil {
		return nil, fmt.Errorf("initialising speaker: %w", err)
	}
	log.Info(log.CatAudio, "speaker initialised", "rate", sampleRate, "buffer", buffer)

	return &SpeakerBackend{
		rate:       sr,
		onFinished: onFinished,
		elements:   make(map[*speakerElement]struct{}),
		volume:     volume,
	}, nil
}

func (b *SpeakerBackend) Open(src string, r io.ReadCloser) (Element, error) {
	stream, format, err := Decode(src, r)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	b.mu.Lock()
	vol := b.volume
	b.mu.Unlock()

	e := &speakerElement{
		backend: b,
		src:     src,
		stream:  stream,
		format:  format,
		ctrl:    &beep.Ctrl{Streamer: stream, Paused: true},
	}
	e.volume = &effects.Volume{Base: 2, Volume: vol}

	b.mu.Lock()
	b.elements[e] = struct{}{}
	b.mu.Unlock()

	log.Debug(log.CatAudio, "element opened", "src", src, "rate", format.SampleRate, "channels", format.NumChannels)
	return e, nil
}

// SetVolume sets the gain of every element in base-2 steps.
func (b *SpeakerBackend) SetVolume(v float64) {
	b.mu.Lock()
	b.volume = v
	elems := make([]*speakerElement, 0, len(b.elements))
	for e := range b.elements {
		elems = append(elems, e)
	}
	b.mu.Unlock()

	speaker.Lock()
	for _, e := range elems {
		e.volume.Volume = v
	}
	speaker.Unlock()
}

func (b *SpeakerBackend) Volume() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.volume
}

// Close closes every open element and the output device.
func (b *SpeakerBackend) Close() error {
	b.mu.Lock()
	elems := make([]*speakerElement, 0, len(b.elements))
	for e := range b.elements {
		elems = append(elems, e)
	}
	b.mu.Unlock()

	var firstErr error
	for _, e := range elems {
		if err := e.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	speaker.Clear()
	speaker.Close()
	return firstErr
}

func (b *SpeakerBackend) forget(e *speakerElement) {
	b.mu.Lock()
	delete(b.elements, e)
	b.mu.Unlock()
}

type speakerElement struct {
	backend *SpeakerBackend
	src     string
	stream  beep.StreamSeekCloser
	format  beep.Format
	ctrl    *beep.Ctrl
	volume  *effects.Volume

	// guarded by speaker.Lock
	queued bool
	ended  bool
	closed bool
}

func (e *speakerElement) Play() error {
	speaker.Lock()
	if e.closed {
		speaker.Unlock()
		return ErrClosed
	}
	if e.ended {
		if err := e.stream.Seek(0); err != nil {
			speaker.Unlock()
			return fmt.Errorf("rewinding %s: %w", e.src, err)
		}
		e.ended = false
	}
	e.ctrl.Paused = false
	enqueue := !e.queued
	e.queued = true
	speaker.Unlock()

	if enqueue {
		speaker.Play(e.chain())
	}
	return nil
}

// chain builds a fresh streamer pipeline for the mixer. A resampler is not
// reusable once drained, so every enqueue gets a new one.
func (e *speakerElement) chain() beep.Streamer {
	var s beep.Streamer = e.ctrl
	if e.format.SampleRate != e.backend.rate {
		s = beep.Resample(4, e.format.SampleRate, e.backend.rate, s)
	}
	e.volume.Streamer = s
	return beep.Seq(e.volume, beep.Callback(e.finished))
}

// finished runs on the mixer goroutine with the speaker lock held.
func (e *speakerElement) finished() {
	e.queued = false
	if e.closed {
		return
	}
	e.ended = true
	if fn := e.backend.onFinished; fn != nil {
		src := e.src
		log.SafeGo("audio.finished", func() { fn(src) })
	}
}

func (e *speakerElement) Pause() {
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
}

func (e *speakerElement) Rewind() error {
	speaker.Lock()
	defer speaker.Unlock()
	if e.closed {
		return ErrClosed
	}
	if err := e.stream.Seek(0); err != nil {
		return fmt.Errorf("rewinding %s: %w", e.src, err)
	}
	e.ended = false
	return nil
}

func (e *speakerElement) State() domain.ElementState {
	speaker.Lock()
	defer speaker.Unlock()
	switch {
	case e.closed:
		return domain.ElementStopped
	case e.ended:
		return domain.ElementEnded
	case e.ctrl.Paused || !e.queued:
		if e.stream.Position() == 0 {
			return domain.ElementStopped
		}
		return domain.ElementPaused
	default:
		return domain.ElementPlaying
	}
}

func (e *speakerElement) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	if e.closed {
		return 0
	}
	return e.format.SampleRate.D(e.stream.Position())
}

func (e *speakerElement) Close() error {
	speaker.Lock()
	if e.closed {
		speaker.Unlock()
		return nil
	}
	e.closed = true
	e.ctrl.Streamer = nil
	err := e.stream.Close()
	speaker.Unlock()

	e.backend.forget(e)
	if err != nil {
		return fmt.Errorf("closing %s: %w", e.src, err)
	}
	return nil
}
