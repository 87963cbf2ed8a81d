package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"soundgrip/internal/config"
	"soundgrip/internal/domain"
	"soundgrip/internal/eventbus"
	"soundgrip/internal/log"
	"soundgrip/internal/playback"
	"soundgrip/internal/probe"
	"soundgrip/internal/ui/handlers"
	"soundgrip/internal/ui/input"
	inputtypes "soundgrip/internal/ui/input/types"
	"soundgrip/internal/ui/logic"
	"soundgrip/internal/ui/state"
	"soundgrip/internal/ui/viewmodels"
	"soundgrip/internal/ui/views"
)

const tickInterval = 250 * time.Millisecond

// LoadFunc re-enumerates the catalog
type LoadFunc func(ctx context.Context) ([]domain.Sample, error)

// SaveVolumeFunc writes the volume to the config file
type SaveVolumeFunc func(volume float64) error

// Options holds the model's collaborators
type Options struct {
	Bus        eventbus.EventBus // may be nil
	Config     *config.Config
	Source     string // shown in the title bar
	Samples    []domain.Sample
	Controller *playback.Controller
	Prober     *probe.Prober  // nil disables durations
	Load       LoadFunc       // nil disables reload
	SaveVolume SaveVolumeFunc // nil disables saving
}

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	state  *state.AppState

	// UI-specific state not in AppState
	width       int
	height      int
	columns     int
	help        help.Model
	keys        keyMap
	inPagerMode bool

	// Playback
	selector   *playback.Selector
	controller *playback.Controller
	prober     *probe.Prober
	load       LoadFunc
	saveVolume SaveVolumeFunc

	// Handlers
	navigator    *logic.Navigator
	renderer     *views.Renderer
	viewModel    *viewmodels.ViewModel
	eventHandler *handlers.EventHandler
	inputHandler *input.Handler
	zones        *zone.Manager

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	appState := state.NewAppState(opts.Source)
	appState.Volume = opts.Controller.Volume()

	m := &Model{
		bus:          opts.Bus,
		config:       cfg,
		state:        appState,
		help:         help.New(),
		keys:         newKeyMap(),
		columns:      1,
		selector:     playback.NewSelector(opts.Samples),
		controller:   opts.Controller,
		prober:       opts.Prober,
		load:         opts.Load,
		saveVolume:   opts.SaveVolume,
		navigator:    logic.NewNavigator(),
		renderer:     views.NewRenderer(cfg.UI.CardWidth, cfg.UI.ShowDurations),
		eventHandler: handlers.NewEventHandler(appState),
		inputHandler: input.New(),
		zones:        zone.New(),
	}
	m.viewModel = viewmodels.NewViewModel(appState, opts.Controller)
	m.syncCursor()

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// Selection returns the playback selection
func (m *Model) Selection() domain.Selection {
	return m.selector.State()
}

// FilterQuery returns the live filter text
func (m *Model) FilterQuery() string {
	return m.state.FilterQuery
}

// VisibleSamples returns the samples whose cards are drawn, in catalog order
func (m *Model) VisibleSamples() []domain.Sample {
	samples := m.selector.Samples()
	vis := m.visible()
	out := make([]domain.Sample, len(vis))
	for i, idx := range vis {
		out[i] = samples[idx]
	}
	return out
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.probeCmd(m.selector.Samples()))
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}

		actions, cmd := m.inputHandler.HandleKey(msg, m.inputContext())

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		// The filter row comes and goes with the mode
		m.updateLayout()

		return m, tea.Batch(cmds...)

	default:
		// The text input needs blink messages; everything else is ours
		inputCmd := m.inputHandler.Update(msg)
		model, cmd := m.handleNonKeyboardMsg(msg)
		return model, tea.Batch(inputCmd, cmd)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	m.viewModel.SetDimensions(m.width, m.height)
	m.viewModel.SetCatalog(m.selector.Samples(), m.selector.State())

	if ti := m.inputHandler.TextInput(); ti != nil {
		m.viewModel.SetFilterInput(true, m.inputHandler.Prompt(), ti.View())
		m.viewModel.SetHelpView(m.help.ShortHelpView(m.keys.filterHelp()))
	} else {
		m.viewModel.SetFilterInput(false, "", "")
		m.viewModel.SetHelpView(m.help.View(m.keys))
	}

	vs := m.viewModel.BuildViewState()
	vs.Mark = m.zones.Mark
	return m.zones.Scan(m.renderer.Render(vs))
}

func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if idx, ok := m.clickedCard(msg); ok {
			return m, m.processAction(inputtypes.PlayIndexAction{Index: idx})
		}

	case EventMsg:
		return m, m.eventHandler.HandleEvent(msg.Event)

	case handlers.ReloadMsg:
		return m, m.loadCmd(msg.Paths)

	case handlers.ClearStatusMsg:
		if m.state.StatusMessage == msg.Message {
			m.state.ClearStatus()
		}

	case catalogLoadedMsg:
		return m, m.applyCatalog(msg)

	case volumeSavedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatUI, "saving volume failed", msg.err)
			m.state.SetError(fmt.Sprintf("Saving volume failed: %v", msg.err))
		}

	case durationsMsg:
		m.state.MergeDurations(msg)

	case helpPagerMsg:
		m.inPagerMode = false
		if msg.err != nil {
			log.ErrorErr(log.CatUI, "help pager failed", msg.err)
		}

	case tickMsg:
		return m, tick()
	}

	return m, nil
}

// processAction executes one input action
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.syncNavigator()
		cursor, offset := m.navigator.Move(a.Direction)
		m.setCursor(cursor, offset)

	case inputtypes.AdvanceAction:
		m.applyEffects(m.selector.Advance(a.Direction))
		m.followPlaying()

	case inputtypes.PlayCursorAction:
		vis := m.visible()
		if m.state.CursorIndex < len(vis) {
			m.selectIndex(vis[m.state.CursorIndex])
		}

	case inputtypes.PlayIndexAction:
		m.selectIndex(a.Index)

	case inputtypes.TogglePauseAction:
		sample, _, ok := m.selector.Playing()
		if !ok {
			return nil
		}
		st, err := m.controller.TogglePause(sample)
		if err != nil {
			m.state.SetError(err.Error())
			return nil
		}
		log.Debug(log.CatUI, "toggled pause", "src", sample.Src, "state", st)

	case inputtypes.VolumeAction:
		m.state.Volume = m.controller.AdjustVolume(a.Delta)

	case inputtypes.UpdateTextAction:
		m.state.FilterQuery = a.Text
		m.syncCursor()

	case inputtypes.SubmitTextAction:
		m.state.FilterQuery = a.Text
		m.syncCursor()

	case inputtypes.CancelTextAction:
		m.state.FilterQuery = ""
		m.syncCursor()

	case inputtypes.ReloadAction:
		return m.loadCmd(nil)

	case inputtypes.SaveVolumeAction:
		return m.saveVolumeCmd()

	case inputtypes.ToggleHelpAction:
		if m.program == nil {
			return nil
		}
		m.inPagerMode = true
		return m.showHelpCmd()

	case inputtypes.QuitAction:
		return tea.Quit
	}

	return nil
}

// selectIndex plays the sample at a catalog index
func (m *Model) selectIndex(i int) {
	effects, err := m.selector.Select(i)
	if err != nil {
		m.state.SetError(err.Error())
		return
	}
	m.applyEffects(effects)
	m.followPlaying()
}

func (m *Model) applyEffects(effects []playback.Effect) {
	if err := m.controller.Apply(context.Background(), effects); err != nil {
		m.state.SetError(err.Error())
	}
}

// followPlaying moves the cursor onto the playing card
func (m *Model) followPlaying() {
	if s, _, ok := m.selector.Playing(); ok {
		m.state.CursorSrc = s.Src
	}
	m.syncCursor()
}

func (m *Model) loadCmd(paths []string) tea.Cmd {
	if m.load == nil {
		m.state.SetStatus("Reload is not available")
		return nil
	}
	m.state.Loading = true
	load := m.load
	return func() tea.Msg {
		samples, err := load(context.Background())
		return catalogLoadedMsg{samples: samples, changed: paths, err: err}
	}
}

// saveVolumeCmd writes the current volume in the background. Success is
// reported by the ConfigSaved event.
func (m *Model) saveVolumeCmd() tea.Cmd {
	if m.saveVolume == nil {
		m.state.SetStatus("Saving is not available")
		return nil
	}
	save, vol := m.saveVolume, m.state.Volume
	return func() tea.Msg {
		return volumeSavedMsg{err: save(vol)}
	}
}

// applyCatalog swaps in a reloaded catalog and keeps the playing sample
// selected when it survived the reload
func (m *Model) applyCatalog(msg catalogLoadedMsg) tea.Cmd {
	m.state.Loading = false
	if msg.err != nil {
		m.state.SetError(fmt.Sprintf("Reload failed: %v", msg.err))
		return nil
	}

	m.applyEffects(m.selector.Replace(msg.samples))
	m.controller.Prune(msg.samples)
	m.controller.Forget(msg.changed...)

	keep := make(map[string]struct{}, len(msg.samples))
	for _, s := range msg.samples {
		keep[s.Src] = struct{}{}
	}
	m.state.ForgetDurations(keep)
	if m.prober != nil {
		m.prober.Forget(msg.changed...)
		for _, p := range msg.changed {
			delete(m.state.Durations, p)
		}
	}

	m.syncCursor()
	m.state.SetStatus(fmt.Sprintf("Loaded %d samples", len(msg.samples)))
	if m.bus != nil {
		m.bus.Publish(eventbus.CatalogLoadedEvent{Root: m.state.Source, Samples: msg.samples})
	}
	log.Info(log.CatUI, "catalog reloaded", "samples", len(msg.samples))
	return m.probeCmd(msg.samples)
}

func (m *Model) probeCmd(samples []domain.Sample) tea.Cmd {
	if m.prober == nil || !m.config.UI.ShowDurations || len(samples) == 0 {
		return nil
	}
	srcs := make([]string, len(samples))
	for i, s := range samples {
		srcs[i] = s.Src
	}
	p := m.prober
	return func() tea.Msg {
		return durationsMsg(p.Durations(srcs))
	}
}

func (m *Model) visible() []int {
	return logic.VisibleIndices(m.selector.Samples(), m.state.FilterQuery, m.selector.State())
}

func (m *Model) inputContext() *input.ModelContext {
	return &input.ModelContext{
		State:     m.state,
		Visible:   m.visible(),
		Selection: m.selector.State(),
	}
}

// updateLayout recomputes the grid shape for the current window
func (m *Model) updateLayout() {
	filterShown := m.inputHandler.CurrentMode() == inputtypes.ModeFilter
	m.columns = m.renderer.Columns(m.width)
	m.state.ViewportRows = m.renderer.Rows(m.height, filterShown)
	m.syncCursor()
}

func (m *Model) syncNavigator() {
	m.navigator.UpdateState(
		m.state.CursorIndex,
		len(m.visible()),
		m.columns,
		m.state.ViewportOffset,
		m.state.ViewportRows,
	)
}

// syncCursor keeps the cursor on the same sample when the visible cards
// change, and clamps it when that sample is gone
func (m *Model) syncCursor() {
	vis := m.visible()
	if m.state.CursorSrc != "" {
		samples := m.selector.Samples()
		for pos, idx := range vis {
			if samples[idx].Src == m.state.CursorSrc {
				m.state.CursorIndex = pos
				break
			}
		}
	}
	m.syncNavigator()
	cursor, offset := m.navigator.SetCursor(m.state.CursorIndex)
	m.setCursor(cursor, offset)
}

func (m *Model) setCursor(cursor, offset int) {
	m.state.CursorIndex = cursor
	m.state.ViewportOffset = offset

	vis := m.visible()
	if cursor < len(vis) {
		m.state.CursorSrc = m.selector.Samples()[vis[cursor]].Src
	} else {
		m.state.CursorSrc = ""
	}
}

// clickedCard finds the catalog index of the card under a mouse event
func (m *Model) clickedCard(msg tea.MouseMsg) (int, bool) {
	samples := m.selector.Samples()
	for _, idx := range m.visible() {
		z := m.zones.Get(views.CardID(samples[idx].Src))
		if z != nil && z.InBounds(msg) {
			return idx, true
		}
	}
	return 0, false
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
