package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"soundgrip/internal/domain"
	"soundgrip/internal/log"
)

// NullBackend keeps element state without producing sound. It is used with
// --backend null, in end-to-end runs and in tests.
type NullBackend struct {
	onFinished FinishedFunc

	mu       sync.Mutex
	volume   float64
	elements map[string][]*nullElement
}

func NewNull(onFinished FinishedFunc) *NullBackend {
	return &NullBackend{
		onFinished: onFinished,
		elements:   make(map[string][]*nullElement),
	}
}

func (b *NullBackend) Open(src string, r io.ReadCloser) (Element, error) {
	if !Supported(src) {
		_ = r.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, src)
	}

	e := &nullElement{backend: b, src: src, rc: r}
	b.mu.Lock()
	b.elements[src] = append(b.elements[src], e)
	b.mu.Unlock()

	log.Debug(log.CatAudio, "null element opened", "src", src)
	return e, nil
}

func (b *NullBackend) SetVolume(v float64) {
	b.mu.Lock()
	b.volume = v
	b.mu.Unlock()
}

func (b *NullBackend) Volume() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.volume
}

func (b *NullBackend) Close() error {
	b.mu.Lock()
	var all []*nullElement
	for _, es := range b.elements {
		all = append(all, es...)
	}
	b.mu.Unlock()

	for _, e := range all {
		_ = e.Close()
	}
	return nil
}

// Advance moves every playing element forward by d, as if it had been
// audible for that long.
func (b *NullBackend) Advance(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, es := range b.elements {
		for _, e := range es {
			if e.state == domain.ElementPlaying {
				e.pos += d
			}
		}
	}
}

// Finish ends playback of every playing element for src and reports it
// through the finished callback.
func (b *NullBackend) Finish(src string) {
	b.mu.Lock()
	finished := false
	for _, e := range b.elements[src] {
		if e.state == domain.ElementPlaying {
			e.state = domain.ElementEnded
			finished = true
		}
	}
	b.mu.Unlock()

	if finished && b.onFinished != nil {
		b.onFinished(src)
	}
}

// OpenCount reports the number of open elements for src.
func (b *NullBackend) OpenCount(src string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.elements[src])
}

type nullElement struct {
	backend *NullBackend
	src     string
	rc      io.Closer

	// guarded by backend.mu
	state  domain.ElementState
	pos    time.Duration
	closed bool
}

func (e *nullElement) Play() error {
	e.backend.mu.Lock()
	defer e.backend.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.state == domain.ElementEnded {
		e.pos = 0
	}
	e.state = domain.ElementPlaying
	return nil
}

func (e *nullElement) Pause() {
	e.backend.mu.Lock()
	defer e.backend.mu.Unlock()
	if e.state == domain.ElementPlaying {
		e.state = domain.ElementPaused
	}
}

func (e *nullElement) Rewind() error {
	e.backend.mu.Lock()
	defer e.backend.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.pos = 0
	if e.state != domain.ElementPlaying {
		e.state = domain.ElementStopped
	}
	return nil
}

func (e *nullElement) State() domain.ElementState {
	e.backend.mu.Lock()
	defer e.backend.mu.Unlock()
	if e.state == domain.ElementPaused && e.pos == 0 {
		return domain.ElementStopped
	}
	return e.state
}

func (e *nullElement) Position() time.Duration {
	e.backend.mu.Lock()
	defer e.backend.mu.Unlock()
	return e.pos
}

func (e *nullElement) Close() error {
	e.backend.mu.Lock()
	if e.closed {
		e.backend.mu.Unlock()
		return nil
	}
	e.closed = true
	e.state = domain.ElementStopped
	es := e.backend.elements[e.src]
	for i, other := range es {
		if other == e {
			e.backend.elements[e.src] = append(es[:i], es[i+1:]...)
			break
		}
	}
	if len(e.backend.elements[e.src]) == 0 {
		delete(e.backend.elements, e.src)
	}
	e.backend.mu.Unlock()

	return e.rc.Close()
}
