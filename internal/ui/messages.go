package ui

import (
	"time"

	"soundgrip/internal/domain"
	"soundgrip/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// tickMsg is sent on a timer to refresh playback positions
type tickMsg time.Time

// catalogLoadedMsg contains the result of a catalog reload
type catalogLoadedMsg struct {
	samples []domain.Sample
	changed []string // paths that triggered the reload; empty means all
	err     error
}

// volumeSavedMsg reports the outcome of writing the volume to the config file
type volumeSavedMsg struct {
	err error
}

// durationsMsg contains probed sample lengths
type durationsMsg map[string]time.Duration
