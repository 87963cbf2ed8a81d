package playback

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"soundgrip/internal/audio"
	"soundgrip/internal/domain"
	"soundgrip/internal/eventbus"
	"soundgrip/internal/log"
	"soundgrip/internal/tracing"
)

// Volume bounds in base-2 gain steps.
const (
	MinVolume = domain.MinVolume
	MaxVolume = domain.MaxVolume
)

// Controller applies effects to audio elements, opening one element per
// sample source on first use. It is not safe for concurrent use.
type Controller struct {
	backend  audio.Backend
	fsys     fs.FS
	bus      eventbus.EventBus
	elements map[string]audio.Element
	stale    map[string]struct{} // forgotten while audible, reopened once stopped
}

// NewController creates a controller reading samples from fsys. bus may be
// nil.
func NewController(backend audio.Backend, fsys fs.FS, bus eventbus.EventBus) *Controller {
	return &Controller{
		backend:  backend,
		fsys:     fsys,
		bus:      bus,
		elements: make(map[string]audio.Element),
		stale:    make(map[string]struct{}),
	}
}

// Apply executes effects in order. A failing effect does not stop the ones
// after it; all failures are returned joined.
func (c *Controller) Apply(ctx context.Context, effects []Effect) error {
	if len(effects) == 0 {
		return nil
	}

	_, span := tracing.Tracer("playback").Start(ctx, "playback.apply")
	defer span.End()
	span.SetAttributes(attribute.Int("effects", len(effects)))

	var errs []error
	for _, eff := range effects {
		var err error
		switch eff.Kind {
		case EffectStop:
			err = c.stop(eff)
		case EffectPlay:
			err = c.play(eff)
		default:
			err = fmt.Errorf("unknown effect %s", eff.Kind)
		}
		if err != nil {
			log.ErrorErr(log.CatPlay, "effect failed", err, "effect", eff.String())
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "effect failed")
		return err
	}
	return nil
}

func (c *Controller) stop(eff Effect) error {
	el, ok := c.elements[eff.Sample.Src]
	if !ok {
		return nil
	}
	el.Pause()
	if err := el.Rewind(); err != nil {
		return fmt.Errorf("stopping %q: %w", eff.Sample.Name, err)
	}
	log.Debug(log.CatPlay, "stopped", "index", eff.Index, "src", eff.Sample.Src)
	c.publish(eventbus.PlaybackStoppedEvent{Index: eff.Index, Sample: eff.Sample})
	return nil
}

func (c *Controller) play(eff Effect) error {
	el, err := c.element(eff.Sample.Src)
	if err != nil {
		return fmt.Errorf("playing %q: %w", eff.Sample.Name, err)
	}
	if err := el.Play(); err != nil {
		return fmt.Errorf("playing %q: %w", eff.Sample.Name, err)
	}
	log.Debug(log.CatPlay, "playing", "index", eff.Index, "src", eff.Sample.Src)
	c.publish(eventbus.PlaybackStartedEvent{Index: eff.Index, Sample: eff.Sample})
	return nil
}

func (c *Controller) element(src string) (audio.Element, error) {
	if el, ok := c.elements[src]; ok {
		if _, stale := c.stale[src]; !stale || audible(el) {
			return el, nil
		}
		c.drop(src, el)
	}
	f, err := c.fsys.Open(src)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", src, err)
	}
	el, err := c.backend.Open(src, f)
	if err != nil {
		return nil, err
	}
	c.elements[src] = el
	return el, nil
}

// TogglePause pauses a playing element or resumes it. The selection is not
// touched. It returns the element's new state.
func (c *Controller) TogglePause(s domain.Sample) (domain.ElementState, error) {
	el, err := c.element(s.Src)
	if err != nil {
		return domain.ElementStopped, fmt.Errorf("toggling %q: %w", s.Name, err)
	}
	if el.State() == domain.ElementPlaying {
		el.Pause()
		return el.State(), nil
	}
	if err := el.Play(); err != nil {
		return el.State(), fmt.Errorf("resuming %q: %w", s.Name, err)
	}
	return el.State(), nil
}

// State reports the element state for src. A sample that was never played
// is stopped.
func (c *Controller) State(src string) domain.ElementState {
	if el, ok := c.elements[src]; ok {
		return el.State()
	}
	return domain.ElementStopped
}

// Position reports how far into src playback is.
func (c *Controller) Position(src string) time.Duration {
	if el, ok := c.elements[src]; ok {
		return el.Position()
	}
	return 0
}

// AdjustVolume changes the output gain by delta steps, clamped to
// [MinVolume, MaxVolume], and returns the new value.
func (c *Controller) AdjustVolume(delta float64) float64 {
	v := c.backend.Volume() + delta
	if v < MinVolume {
		v = MinVolume
	}
	if v > MaxVolume {
		v = MaxVolume
	}
	c.backend.SetVolume(v)
	return v
}

func (c *Controller) Volume() float64 { return c.backend.Volume() }

// Prune closes elements whose source is not in samples.
func (c *Controller) Prune(samples []domain.Sample) {
	keep := make(map[string]struct{}, len(samples))
	for _, s := range samples {
		keep[s.Src] = struct{}{}
	}
	for src, el := range c.elements {
		if _, ok := keep[src]; !ok {
			c.drop(src, el)
		}
	}
}

// Forget drops the elements opened for srcs, or for every source when srcs
// is empty, so the next play reads the file again. An element that is
// playing or paused keeps its stream until it stops.
func (c *Controller) Forget(srcs ...string) {
	if len(srcs) == 0 {
		for src := range c.elements {
			srcs = append(srcs, src)
		}
	}
	for _, src := range srcs {
		el, ok := c.elements[src]
		if !ok {
			continue
		}
		if audible(el) {
			c.stale[src] = struct{}{}
			continue
		}
		c.drop(src, el)
	}
}

func (c *Controller) drop(src string, el audio.Element) {
	if err := el.Close(); err != nil {
		log.Warn(log.CatPlay, "closing element failed", "src", src, "error", err)
	}
	delete(c.elements, src)
	delete(c.stale, src)
}

func audible(el audio.Element) bool {
	st := el.State()
	return st == domain.ElementPlaying || st == domain.ElementPaused
}

// Close releases every element and then the backend.
func (c *Controller) Close() error {
	var errs []error
	for src, el := range c.elements {
		if err := el.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", src, err))
		}
		delete(c.elements, src)
	}
	clear(c.stale)
	if err := c.backend.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing audio backend: %w", err))
	}
	return errors.Join(errs...)
}

func (c *Controller) publish(ev eventbus.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(ev)
	}
}
