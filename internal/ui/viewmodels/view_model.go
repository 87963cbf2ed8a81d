package viewmodels

import (
	"time"

	"soundgrip/internal/domain"
	"soundgrip/internal/ui/logic"
	"soundgrip/internal/ui/state"
	"soundgrip/internal/ui/views"
)

// ElementStates reports per-sample playback state. The playback controller
// satisfies it.
type ElementStates interface {
	State(src string) domain.ElementState
	Position(src string) time.Duration
}

// ViewModel transforms application state into view-ready data
type ViewModel struct {
	state    *state.AppState
	elements ElementStates
	width    int
	height   int

	samples   []domain.Sample
	selection domain.Selection

	filterActive bool
	filterPrompt string
	filterInput  string
	helpView     string
}

// NewViewModel creates a new view model
func NewViewModel(appState *state.AppState, elements ElementStates) *ViewModel {
	return &ViewModel{
		state:     appState,
		elements:  elements,
		selection: domain.Idle{},
	}
}

// SetDimensions sets the current terminal dimensions
func (vm *ViewModel) SetDimensions(width, height int) {
	vm.width = width
	vm.height = height
}

// SetCatalog sets the samples and the playback selection over them
func (vm *ViewModel) SetCatalog(samples []domain.Sample, sel domain.Selection) {
	vm.samples = samples
	vm.selection = sel
}

// SetFilterInput sets the focused filter field, or clears it when active is false
func (vm *ViewModel) SetFilterInput(active bool, prompt, rendered string) {
	vm.filterActive = active
	vm.filterPrompt = prompt
	vm.filterInput = rendered
}

// SetHelpView sets the rendered short help
func (vm *ViewModel) SetHelpView(s string) {
	vm.helpView = s
}

// Visible returns catalog indices of the cards to draw
func (vm *ViewModel) Visible() []int {
	return logic.VisibleIndices(vm.samples, vm.state.FilterQuery, vm.selection)
}

// BuildViewState creates a ViewState for rendering
func (vm *ViewModel) BuildViewState() views.ViewState {
	playIdx, playing := domain.PlayingIndex(vm.selection)
	visible := vm.Visible()

	cards := make([]views.Card, 0, len(visible))
	for pos, idx := range visible {
		s := vm.samples[idx]
		d, hasDuration := vm.state.Durations[s.Src]
		cards = append(cards, views.Card{
			Sample:      s,
			Index:       idx,
			Playing:     playing && idx == playIdx,
			Cursor:      pos == vm.state.CursorIndex,
			State:       vm.element(s.Src),
			Duration:    d,
			HasDuration: hasDuration,
		})
	}

	vs := views.ViewState{
		Width:          vm.width,
		Height:         vm.height,
		Source:         vm.state.Source,
		Cards:          cards,
		Total:          len(vm.samples),
		ViewportOffset: vm.state.ViewportOffset,
		ViewportRows:   vm.state.ViewportRows,
		FilterQuery:    vm.state.FilterQuery,
		FilterActive:   vm.filterActive,
		FilterPrompt:   vm.filterPrompt,
		FilterInput:    vm.filterInput,
		Volume:         vm.state.Volume,
		Loading:        vm.state.Loading,
		StatusMessage:  vm.state.StatusMessage,
		StatusIsError:  vm.state.StatusIsError,
		HelpView:       vm.helpView,
	}

	if playing && playIdx < len(vm.samples) {
		s := vm.samples[playIdx]
		vs.NowPlaying = logic.DisplayName(s.Name)
		if vs.NowPlaying == "" {
			vs.NowPlaying = s.Src
		}
		vs.NowState = vm.element(s.Src).String()
		if vm.elements != nil {
			vs.Position = vm.elements.Position(s.Src)
		}
	}
	return vs
}

func (vm *ViewModel) element(src string) domain.ElementState {
	if vm.elements == nil {
		return domain.ElementStopped
	}
	return vm.elements.State(src)
}
