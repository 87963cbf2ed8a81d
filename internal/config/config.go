// Package config provides configuration types, defaults and loading for soundgrip.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"soundgrip/internal/domain"
	"soundgrip/internal/eventbus"
)

// ProjectFileName is the per-directory config file looked up in the assets directory.
const ProjectFileName = ".soundgrip.toml"

// Name decoding modes for sample file names
const (
	DecodeSpaces = "spaces" // only %20 becomes a space
	DecodeFull   = "full"   // full percent-decoding, falling back to spaces
)

// Audio backends
const (
	BackendSpeaker = "speaker"
	BackendNull    = "null"
)

// Config represents the application configuration
type Config struct {
	AssetsDir  string      `mapstructure:"assets_dir" toml:"assets_dir,omitempty" comment:"Directory to scan for samples. Empty uses the built-in samples."`
	Extensions []string    `mapstructure:"extensions" toml:"extensions" comment:"File extensions that count as samples"`
	Decode     string      `mapstructure:"decode" toml:"decode" comment:"How file names become labels:\n  \"spaces\" - only %20 becomes a space\n  \"full\"   - full percent-decoding, \"spaces\" on bad escapes"`
	Watch      bool        `mapstructure:"watch" toml:"watch" comment:"Reload the catalog when files in assets_dir change"`
	LogFile    string      `mapstructure:"log_file" toml:"log_file"`
	Debug      bool        `mapstructure:"debug" toml:"debug"`
	TraceFile  string      `mapstructure:"trace_file" toml:"trace_file,omitempty"`
	Audio      AudioConfig `mapstructure:"audio" toml:"audio"`
	UI         UIConfig    `mapstructure:"ui" toml:"ui"`
}

// AudioConfig holds audio output options.
type AudioConfig struct {
	Backend    string  `mapstructure:"backend" toml:"backend" comment:"\"speaker\" plays through the default output device, \"null\" is silent"`
	SampleRate int     `mapstructure:"sample_rate" toml:"sample_rate"`
	BufferMS   int     `mapstructure:"buffer_ms" toml:"buffer_ms"`
	Volume     float64 `mapstructure:"volume" toml:"volume" comment:"Gain in base-2 steps from -8 to 2: -1 halves, 1 doubles"`
}

// UIConfig represents UI-related configuration
type UIConfig struct {
	CardWidth     int  `mapstructure:"card_width" toml:"card_width"`
	ShowDurations bool `mapstructure:"show_durations" toml:"show_durations"`
}

// fileHeader starts every config file the service writes.
const fileHeader = `# soundgrip configuration
# Command line flags override these values.

`

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// Option customizes a config service.
type Option func(*configService)

// WithBus publishes a ConfigSaved event on bus after every save.
func WithBus(bus eventbus.EventBus) Option {
	return func(cs *configService) { cs.bus = bus }
}

// WithViper reads values through v, so flags bound to v override file values.
func WithViper(v *viper.Viper) Option {
	return func(cs *configService) { cs.v = v }
}

// WithPath overrides the default user config file location.
func WithPath(path string) Option {
	return func(cs *configService) { cs.filePath = path }
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	v        *viper.Viper
	filePath string
}

// NewConfigService creates a new config service
func NewConfigService(opts ...Option) ConfigService {
	cs := &configService{
		v:        viper.New(),
		filePath: DefaultPath(),
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// DefaultPath returns the user-level config file location.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "soundgrip", "config.toml")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the user config file, or defaults when it doesn't exist
func (cs *configService) Load() (*Config, error) {
	path := cs.filePath
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = ""
	}
	return cs.read(path)
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	return cs.read(path)
}

func (cs *configService) read(path string) (*Config, error) {
	setDefaults(cs.v)

	if path != "" {
		cs.v.SetConfigFile(path)
		cs.v.SetConfigType("toml")
		if err := cs.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := cs.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save saves the configuration to the user config file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// SaveToPath saves configuration to a specific path, with a comment above
// the keys that need one
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	body, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data := append([]byte(fileHeader), body...)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: path})
	}
	return nil
}

// Normalize lower-cases extensions and makes sure they start with a dot.
func (c *Config) Normalize() {
	exts := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	c.Extensions = exts
	c.Decode = strings.ToLower(c.Decode)
	c.Audio.Backend = strings.ToLower(c.Audio.Backend)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions: at least one extension is required")
	}
	switch c.Decode {
	case DecodeSpaces, DecodeFull:
	default:
		return fmt.Errorf("decode: unknown mode %q (want %q or %q)", c.Decode, DecodeSpaces, DecodeFull)
	}
	switch c.Audio.Backend {
	case BackendSpeaker, BackendNull:
	default:
		return fmt.Errorf("audio.backend: unknown backend %q (want %q or %q)", c.Audio.Backend, BackendSpeaker, BackendNull)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate: must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.BufferMS <= 0 {
		return fmt.Errorf("audio.buffer_ms: must be positive, got %d", c.Audio.BufferMS)
	}
	if c.Audio.Volume < domain.MinVolume || c.Audio.Volume > domain.MaxVolume {
		return fmt.Errorf("audio.volume: must be between %g and %g, got %g", domain.MinVolume, domain.MaxVolume, c.Audio.Volume)
	}
	if c.UI.CardWidth < 12 {
		return fmt.Errorf("ui.card_width: must be at least 12, got %d", c.UI.CardWidth)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("assets_dir", d.AssetsDir)
	v.SetDefault("extensions", d.Extensions)
	v.SetDefault("decode", d.Decode)
	v.SetDefault("watch", d.Watch)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("trace_file", d.TraceFile)
	v.SetDefault("audio.backend", d.Audio.Backend)
	v.SetDefault("audio.sample_rate", d.Audio.SampleRate)
	v.SetDefault("audio.buffer_ms", d.Audio.BufferMS)
	v.SetDefault("audio.volume", d.Audio.Volume)
	v.SetDefault("ui.card_width", d.UI.CardWidth)
	v.SetDefault("ui.show_durations", d.UI.ShowDurations)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	logDir, err := os.UserCacheDir()
	if err != nil {
		logDir = os.TempDir()
	}

	return &Config{
		Extensions: []string{".mp3", ".wav"},
		Decode:     DecodeSpaces,
		Watch:      true,
		LogFile:    filepath.Join(logDir, "soundgrip", "soundgrip.log"),
		Audio: AudioConfig{
			Backend:    BackendSpeaker,
			SampleRate: 44100,
			BufferMS:   100,
		},
		UI: UIConfig{
			CardWidth:     28,
			ShowDurations: true,
		},
	}
}
