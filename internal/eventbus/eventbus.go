package eventbus

import (
	"runtime/debug"
	"sync"

	"soundgrip/internal/domain"
	"soundgrip/internal/log"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventCatalogLoaded    = domain.EventCatalogLoaded
	EventCatalogChanged   = domain.EventCatalogChanged
	EventPlaybackStarted  = domain.EventPlaybackStarted
	EventPlaybackStopped  = domain.EventPlaybackStopped
	EventPlaybackFinished = domain.EventPlaybackFinished
	EventError            = domain.EventError
	EventConfigSaved      = domain.EventConfigSaved
)

// Re-export domain event types
type CatalogLoadedEvent = domain.CatalogLoadedEvent
type CatalogChangedEvent = domain.CatalogChangedEvent
type PlaybackStartedEvent = domain.PlaybackStartedEvent
type PlaybackStoppedEvent = domain.PlaybackStoppedEvent
type PlaybackFinishedEvent = domain.PlaybackFinishedEvent
type ErrorEvent = domain.ErrorEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 256),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish queues an event for all subscribers. It never blocks: when the
// queue is full the event is dropped and logged.
func (b *bus) Publish(event DomainEvent) {
	log.Debug(log.CatBus, "publishing event", "type", event.Type())

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		log.Warn(log.CatBus, "event bus channel full, dropping event", "type", event.Type())
	}
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher. Queued events are discarded.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

// dispatch delivers events in publish order. Handlers for one event run
// sequentially on the dispatcher goroutine, so subscribers see events in
// the order they were published.
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := make([]subscription, len(b.handlers[event.Type()]))
			copy(subs, b.handlers[event.Type()])
			b.mu.RUnlock()

			for _, s := range subs {
				b.call(s.handler, event)
			}

		case <-b.quit:
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}

func (b *bus) call(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn(log.CatBus, "event handler panic", "type", event.Type(), "panic", r, "stack", string(debug.Stack()))
		}
	}()
	h(event)
}
