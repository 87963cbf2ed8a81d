package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventCatalogLoaded    EventType = "CatalogLoaded"
	EventCatalogChanged   EventType = "CatalogChanged"
	EventPlaybackStarted  EventType = "PlaybackStarted"
	EventPlaybackStopped  EventType = "PlaybackStopped"
	EventPlaybackFinished EventType = "PlaybackFinished"
	EventError            EventType = "Error"
	EventConfigSaved      EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// CatalogLoadedEvent is emitted when the sample catalog has been enumerated
type CatalogLoadedEvent struct {
	Root    string
	Samples []Sample
}

func (e CatalogLoadedEvent) Type() EventType { return EventCatalogLoaded }

// CatalogChangedEvent is emitted when files under the asset directory change
type CatalogChangedEvent struct {
	Root  string
	Paths []string // changed paths, relative to Root
}

func (e CatalogChangedEvent) Type() EventType { return EventCatalogChanged }

// PlaybackStartedEvent is emitted after an element was asked to play
type PlaybackStartedEvent struct {
	Index  int
	Sample Sample
}

func (e PlaybackStartedEvent) Type() EventType { return EventPlaybackStarted }

// PlaybackStoppedEvent is emitted after an element was paused and rewound
type PlaybackStoppedEvent struct {
	Index  int
	Sample Sample
}

func (e PlaybackStoppedEvent) Type() EventType { return EventPlaybackStopped }

// PlaybackFinishedEvent is emitted when an element reaches the end of its stream
type PlaybackFinishedEvent struct {
	Src string
}

func (e PlaybackFinishedEvent) Type() EventType { return EventPlaybackFinished }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
