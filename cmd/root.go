// Package cmd wires the soundgrip command line.
package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"soundgrip/internal/audio"
	"soundgrip/internal/catalog"
	"soundgrip/internal/config"
	"soundgrip/internal/domain"
	"soundgrip/internal/eventbus"
	"soundgrip/internal/log"
	"soundgrip/internal/playback"
	"soundgrip/internal/probe"
	"soundgrip/internal/tracing"
	"soundgrip/internal/ui"
)

var (
	cfgFile string
	noWatch bool
	cfg     *config.Config
	cfgPath string // file the volume is saved to
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "soundgrip [dir]",
	Short: "A terminal soundboard",
	Long: `soundgrip shows the audio samples in a directory as a grid of cards and
plays one at a time. Without a directory it plays the built-in kit.

Use → and ← to step through the samples, / to filter, ? for help.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runTUI,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default: <dir>/.soundgrip.toml, then the user config)")
	pf.StringP("dir", "d", "", "directory to scan for samples")
	pf.StringSlice("ext", nil, "sample file extensions (e.g. .wav,.mp3)")
	pf.String("decode", "", `label decoding: "spaces" or "full"`)
	pf.String("backend", "", `audio backend: "speaker" or "null"`)
	pf.BoolVar(&noWatch, "no-watch", false, "do not reload when files change")
	pf.String("log-file", "", "write logs to this file")
	pf.String("trace-file", "", "write OpenTelemetry spans to this file")
	pf.Bool("debug", false, "log at debug level")

	bindFlags()
}

// bindFlags lets flags override config file values
func bindFlags() {
	pf := rootCmd.PersistentFlags()
	for key, flag := range map[string]string{
		"assets_dir":    "dir",
		"extensions":    "ext",
		"decode":        "decode",
		"audio.backend": "backend",
		"log_file":      "log-file",
		"trace_file":    "trace-file",
		"debug":         "debug",
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

// loadConfig merges the config file, flags, and the positional directory
func loadConfig(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		v.Set("assets_dir", args[0])
	}

	svc := config.NewConfigService(config.WithViper(v))

	path := cfgFile
	if path == "" {
		if dir := v.GetString("assets_dir"); dir != "" {
			candidate := filepath.Join(dir, config.ProjectFileName)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}

	var err error
	if path != "" {
		cfg, err = svc.LoadFromPath(path)
	} else {
		cfg, err = svc.Load()
		path = svc.Path()
	}
	if err != nil {
		return err
	}
	cfgPath = path

	if noWatch {
		cfg.Watch = false
	}
	if cfg.AssetsDir != "" {
		abs, err := filepath.Abs(cfg.AssetsDir)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", cfg.AssetsDir, err)
		}
		cfg.AssetsDir = abs
	}
	return nil
}

// catalogSource returns the filesystem samples are read from and a label for it
func catalogSource(c *config.Config) (fs.FS, string) {
	if c.AssetsDir == "" {
		return catalog.Builtin(), "built-in"
	}
	return os.DirFS(c.AssetsDir), c.AssetsDir
}

func catalogOptions(c *config.Config) catalog.Options {
	return catalog.Options{
		Extensions: c.Extensions,
		Decode:     catalog.Decoding(c.Decode),
	}
}

// newBackend opens the configured audio output. A speaker that cannot be
// opened falls back to the silent backend so the board still works.
func newBackend(c *config.Config, onFinished audio.FinishedFunc) audio.Backend {
	if c.Audio.Backend == config.BackendSpeaker {
		buffer := time.Duration(c.Audio.BufferMS) * time.Millisecond
		sp, err := audio.NewSpeaker(c.Audio.SampleRate, buffer, c.Audio.Volume, onFinished)
		if err == nil {
			return sp
		}
		log.ErrorErr(log.CatAudio, "speaker unavailable, playing silently", err)
	}
	b := audio.NewNull(onFinished)
	b.SetVolume(c.Audio.Volume)
	return b
}

func runTUI(cmd *cobra.Command, args []string) error {
	closeLog, err := log.Init(cfg.LogFile, cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	shutdownTracing, err := tracing.Setup(cfg.TraceFile)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.ErrorErr(log.CatApp, "tracing shutdown failed", err)
		}
	}()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	bus := eventbus.New()
	defer bus.Close()

	fsys, source := catalogSource(cfg)
	opts := catalogOptions(cfg)
	samples, err := catalog.Load(ctx, fsys, opts)
	if err != nil {
		return fmt.Errorf("loading samples: %w", err)
	}
	log.Info(log.CatApp, "starting", "source", source, "samples", len(samples), "backend", cfg.Audio.Backend)
	bus.Publish(eventbus.CatalogLoadedEvent{Root: source, Samples: samples})

	backend := newBackend(cfg, func(src string) {
		bus.Publish(eventbus.PlaybackFinishedEvent{Src: src})
	})
	ctrl := playback.NewController(backend, fsys, bus)
	defer func() {
		if err := ctrl.Close(); err != nil {
			log.ErrorErr(log.CatAudio, "closing audio failed", err)
		}
	}()

	model := ui.NewModel(ui.Options{
		Bus:        bus,
		Config:     cfg,
		Source:     source,
		Samples:    samples,
		Controller: ctrl,
		Prober:     probe.New(fsys, 0),
		Load: func(ctx context.Context) ([]domain.Sample, error) {
			return catalog.Load(ctx, fsys, opts)
		},
		SaveVolume: saveVolume(bus, cfgPath),
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	model.SetProgram(p)

	stopForwarding := forwardEvents(bus, p)
	defer stopForwarding()

	if cfg.Watch && cfg.AssetsDir != "" {
		w := catalog.NewWatcher(cfg.AssetsDir, cfg.Extensions, bus)
		if err := w.Start(ctx); err != nil {
			log.ErrorErr(log.CatCatalog, "watching assets failed", err, "dir", cfg.AssetsDir)
		} else {
			defer func() { _ = w.Stop() }()
		}
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running program: %w", err)
	}
	log.Info(log.CatApp, "exited normally")
	return nil
}

// saveVolume rewrites the config file at path with a new volume. The file is
// read again without flag overrides so only the volume changes.
func saveVolume(bus eventbus.EventBus, path string) ui.SaveVolumeFunc {
	return func(volume float64) error {
		svc := config.NewConfigService(config.WithBus(bus), config.WithPath(path))
		c, err := svc.Load()
		if err != nil {
			return err
		}
		c.Audio.Volume = volume
		return svc.Save(c)
	}
}

// forwardEvents sends the events the UI reacts to into the program. The
// returned function unsubscribes and stops forwarding.
func forwardEvents(bus eventbus.EventBus, p *tea.Program) func() {
	eventChan := make(chan eventbus.DomainEvent, 100)
	done := make(chan struct{})

	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Warn(log.CatBus, "event channel full, dropping event", "type", e.Type())
		}
	}

	var unsubscribe []func()
	for _, t := range []eventbus.EventType{
		eventbus.EventCatalogChanged,
		eventbus.EventPlaybackFinished,
		eventbus.EventError,
		eventbus.EventConfigSaved,
	} {
		unsubscribe = append(unsubscribe, bus.Subscribe(t, forward))
	}

	log.SafeGo("event-forwarder", func() {
		for {
			select {
			case e := <-eventChan:
				p.Send(ui.EventMsg{Event: e})
			case <-done:
				return
			}
		}
	})

	return func() {
		for _, u := range unsubscribe {
			u()
		}
		close(done)
	}
}
