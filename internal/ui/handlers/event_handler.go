package handlers

import (
	"fmt"
	"path"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"soundgrip/internal/eventbus"
	"soundgrip/internal/ui/state"
)

// ReloadMsg asks the model to re-enumerate the catalog
type ReloadMsg struct {
	Paths []string
}

// ClearStatusMsg removes the status message once it has been shown long enough
type ClearStatusMsg struct {
	Message string
}

const statusTTL = 3 * time.Second

// EventHandler handles domain events and updates state
type EventHandler struct {
	state *state.AppState
}

// NewEventHandler creates a new event handler
func NewEventHandler(appState *state.AppState) *EventHandler {
	return &EventHandler{state: appState}
}

// HandleEvent processes domain events and returns any necessary commands
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.CatalogChangedEvent:
		h.state.Loading = true
		h.state.SetStatus("Assets changed, reloading...")
		paths := e.Paths
		return func() tea.Msg { return ReloadMsg{Paths: paths} }

	case eventbus.PlaybackFinishedEvent:
		h.state.SetStatus(fmt.Sprintf("Finished %s", path.Base(e.Src)))
		return h.expireStatus()

	case eventbus.ErrorEvent:
		if e.Err != nil {
			h.state.SetError(fmt.Sprintf("Error: %s: %v", e.Message, e.Err))
		} else {
			h.state.SetError(fmt.Sprintf("Error: %s", e.Message))
		}

	case eventbus.ConfigSavedEvent:
		h.state.SetStatus(fmt.Sprintf("Config written to %s", e.Path))
		return h.expireStatus()
	}

	return nil
}

// expireStatus clears the current message after a while unless it was replaced
func (h *EventHandler) expireStatus() tea.Cmd {
	msg := h.state.StatusMessage
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return ClearStatusMsg{Message: msg}
	})
}
