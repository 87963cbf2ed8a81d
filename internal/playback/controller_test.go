package playback

import (
	"context"
	"errors"
	"io"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"soundgrip/internal/audio"
	"soundgrip/internal/domain"
	"soundgrip/internal/eventbus"
)

// recorder is an audio backend that writes every element call to a shared
// log.
type recorder struct {
	calls  []string
	failOn string
	volume float64
	closed bool
	opened map[string]*recElement
}

func newRecorder() *recorder {
	return &recorder{opened: map[string]*recElement{}}
}

func (r *recorder) Open(src string, rc io.ReadCloser) (audio.Element, error) {
	_ = rc.Close()
	if src == r.failOn {
		return nil, errors.New("cannot decode")
	}
	r.calls = append(r.calls, "open "+src)
	e := &recElement{r: r, src: src}
	r.opened[src] = e
	return e, nil
}

func (r *recorder) SetVolume(v float64) { r.volume = v }
func (r *recorder) Volume() float64     { return r.volume }
func (r *recorder) Close() error        { r.closed = true; return nil }

type recElement struct {
	r      *recorder
	src    string
	state  domain.ElementState
	pos    time.Duration
	closed bool
}

func (e *recElement) Play() error {
	e.r.calls = append(e.r.calls, "play "+e.src)
	e.state = domain.ElementPlaying
	return nil
}

func (e *recElement) Pause() {
	e.r.calls = append(e.r.calls, "pause "+e.src)
	e.state = domain.ElementPaused
}

func (e *recElement) Rewind() error {
	e.r.calls = append(e.r.calls, "rewind "+e.src)
	e.pos = 0
	if e.state == domain.ElementPaused {
		e.state = domain.ElementStopped
	}
	return nil
}

func (e *recElement) State() domain.ElementState { return e.state }
func (e *recElement) Position() time.Duration    { return e.pos }

func (e *recElement) Close() error {
	e.r.calls = append(e.r.calls, "close "+e.src)
	e.closed = true
	return nil
}

func kitFS() fstest.MapFS {
	return fstest.MapFS{
		"Kick.wav":  {Data: []byte("x")},
		"Snare.wav": {Data: []byte("x")},
		"Hat.wav":   {Data: []byte("x")},
	}
}

func TestController_StopsPreviousBeforePlaying(t *testing.T) {
	rec := newRecorder()
	c := NewController(rec, kitFS(), nil)
	s := NewSelector(kit())
	ctx := context.Background()

	require.NoError(t, c.Apply(ctx, s.Advance(domain.Next)))
	rec.calls = nil

	effects, err := s.Select(1)
	require.NoError(t, err)
	require.NoError(t, c.Apply(ctx, effects))

	assert.Equal(t, []string{"pause Kick.wav", "rewind Kick.wav", "open Snare.wav", "play Snare.wav"}, rec.calls)
}

func TestController_ReselectResumesWithoutRewind(t *testing.T) {
	rec := newRecorder()
	c := NewController(rec, kitFS(), nil)
	s := NewSelector(kit())
	ctx := context.Background()

	effects, _ := s.Select(0)
	require.NoError(t, c.Apply(ctx, effects))
	rec.opened["Kick.wav"].pos = time.Second
	rec.calls = nil

	effects, _ = s.Select(0)
	require.NoError(t, c.Apply(ctx, effects))

	assert.Equal(t, []string{"play Kick.wav"}, rec.calls)
	assert.Equal(t, time.Second, c.Position("Kick.wav"))
}

func TestController_OpensElementsOnce(t *testing.T) {
	rec := newRecorder()
	c := NewController(rec, kitFS(), nil)
	s := NewSelector(kit())
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		require.NoError(t, c.Apply(ctx, s.Advance(domain.Next)))
	}

	opens := 0
	for _, call := range rec.calls {
		if len(call) > 5 && call[:5] == "open " {
			opens++
		}
	}
	assert.Equal(t, 3, opens)
}

func TestController_OpenFailureContinues(t *testing.T) {
	rec := newRecorder()
	rec.failOn = "Snare.wav"
	c := NewController(rec, kitFS(), nil)
	s := NewSelector(kit())
	ctx := context.Background()

	effects, _ := s.Select(0)
	require.NoError(t, c.Apply(ctx, effects))

	effects, _ = s.Select(1)
	err := c.Apply(ctx, effects)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Snare")

	assert.Equal(t, domain.Playing{Index: 1}, s.State(), "selection still moves")
	assert.Equal(t, domain.ElementPaused, c.State("Kick.wav"))
}

func TestController_MissingFile(t *testing.T) {
	c := NewController(newRecorder(), fstest.MapFS{}, nil)
	err := c.Apply(context.Background(), []Effect{{Kind: EffectPlay, Sample: domain.Sample{Name: "Gone", Src: "Gone.wav"}}})
	assert.Error(t, err)
}

func TestController_PublishesEvents(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	got := make(chan eventbus.DomainEvent, 4)
	bus.Subscribe(eventbus.EventPlaybackStarted, func(e eventbus.DomainEvent) { got <- e })
	bus.Subscribe(eventbus.EventPlaybackStopped, func(e eventbus.DomainEvent) { got <- e })

	c := NewController(newRecorder(), kitFS(), bus)
	s := NewSelector(kit())
	require.NoError(t, c.Apply(context.Background(), s.Advance(domain.Next)))
	require.NoError(t, c.Apply(context.Background(), s.Advance(domain.Next)))

	var types []eventbus.EventType
	for i := 0; i < 3; i++ {
		select {
		case e := <-got:
			types = append(types, e.Type())
		case <-time.After(2 * time.Second):
			t.Fatal("missing playback event")
		}
	}
	assert.Equal(t, []eventbus.EventType{
		eventbus.EventPlaybackStarted,
		eventbus.EventPlaybackStopped,
		eventbus.EventPlaybackStarted,
	}, types)
}

func TestController_TogglePause(t *testing.T) {
	rec := newRecorder()
	c := NewController(rec, kitFS(), nil)
	kick := kit()[0]

	state, err := c.TogglePause(kick)
	require.NoError(t, err)
	assert.Equal(t, domain.ElementPlaying, state)

	state, err = c.TogglePause(kick)
	require.NoError(t, err)
	assert.Equal(t, domain.ElementPaused, state)
	assert.NotContains(t, rec.calls, "rewind Kick.wav")
}

func TestController_AdjustVolumeClamps(t *testing.T) {
	c := NewController(newRecorder(), kitFS(), nil)

	assert.Equal(t, 0.5, c.AdjustVolume(0.5))
	assert.Equal(t, MaxVolume, c.AdjustVolume(10))
	assert.Equal(t, MinVolume, c.AdjustVolume(-100))
}

func TestController_PruneAndClose(t *testing.T) {
	rec := newRecorder()
	c := NewController(rec, kitFS(), nil)
	s := NewSelector(kit())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Apply(ctx, s.Advance(domain.Next)))
	}

	c.Prune(kit()[:1])
	assert.True(t, rec.opened["Snare.wav"].closed)
	assert.True(t, rec.opened["Hat.wav"].closed)
	assert.False(t, rec.opened["Kick.wav"].closed)

	require.NoError(t, c.Close())
	assert.True(t, rec.opened["Kick.wav"].closed)
	assert.True(t, rec.closed)
}

func TestController_ForgetReopensStoppedElements(t *testing.T) {
	rec := newRecorder()
	c := NewController(rec, kitFS(), nil)
	s := NewSelector(kit())
	ctx := context.Background()

	require.NoError(t, c.Apply(ctx, s.Advance(domain.Next)))
	require.NoError(t, c.Apply(ctx, s.Advance(domain.Next)))
	kick := rec.opened["Kick.wav"]
	rec.calls = nil

	c.Forget("Kick.wav")
	assert.True(t, kick.closed)

	require.NoError(t, c.Apply(ctx, s.Advance(domain.Previous)))
	assert.Equal(t, []string{"close Kick.wav", "pause Snare.wav", "rewind Snare.wav", "open Kick.wav", "play Kick.wav"}, rec.calls)
	assert.NotSame(t, kick, rec.opened["Kick.wav"])
}

func TestController_ForgetKeepsAudibleElementUntilStopped(t *testing.T) {
	rec := newRecorder()
	c := NewController(rec, kitFS(), nil)
	s := NewSelector(kit())
	ctx := context.Background()

	require.NoError(t, c.Apply(ctx, s.Advance(domain.Next)))
	kick := rec.opened["Kick.wav"]
	kick.pos = time.Second

	c.Forget()
	assert.False(t, kick.closed)
	assert.Equal(t, time.Second, c.Position("Kick.wav"))

	// reselecting the playing sample keeps the stream it already has
	effects, err := s.Select(0)
	require.NoError(t, err)
	require.NoError(t, c.Apply(ctx, effects))
	assert.Same(t, kick, rec.opened["Kick.wav"])

	require.NoError(t, c.Apply(ctx, s.Advance(domain.Next)))
	require.NoError(t, c.Apply(ctx, s.Advance(domain.Previous)))
	assert.True(t, kick.closed)
	assert.NotSame(t, kick, rec.opened["Kick.wav"])
	assert.Equal(t, domain.ElementPlaying, c.State("Kick.wav"))
}

// At most one element is audible after any sequence of selections.
func TestController_MutualExclusionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		samples := kit()
		backend := audio.NewNull(nil)
		c := NewController(backend, kitFS(), nil)
		s := NewSelector(samples)
		ctx := context.Background()

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			var effects []Effect
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				effects, _ = s.Select(rapid.IntRange(0, len(samples)-1).Draw(t, "index"))
			case 1:
				effects = s.Advance(domain.Next)
			case 2:
				effects = s.Advance(domain.Previous)
			case 3:
				backend.Advance(time.Duration(rapid.IntRange(1, 500).Draw(t, "ms")) * time.Millisecond)
			}
			if err := c.Apply(ctx, effects); err != nil {
				t.Fatalf("apply: %v", err)
			}

			playing := 0
			for _, smp := range samples {
				if c.State(smp.Src) == domain.ElementPlaying {
					playing++
				}
			}
			if playing > 1 {
				t.Fatalf("%d elements playing", playing)
			}

			cur, ok := domain.PlayingIndex(s.State())
			for i, smp := range samples {
				if ok && i == cur {
					continue
				}
				if c.Position(smp.Src) != 0 {
					t.Fatalf("%s not rewound", smp.Src)
				}
			}
		}
	})
}
