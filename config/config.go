package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"genseq/midi"
	"genseq/sequencer"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Output kinds for midi.output
const (
	OutputSerial = "serial"
	OutputPort   = "port"
	OutputLog    = "log"
)

// EnvPrefix is prepended to every environment override, e.g. GENSEQ_SEQUENCER_BPM.
const EnvPrefix = "GENSEQ"

type Config struct {
	MIDI      MIDIConfig      `mapstructure:"midi" yaml:"midi"`
	Sequencer SequencerConfig `mapstructure:"sequencer" yaml:"sequencer"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
	UI        UIConfig        `mapstructure:"ui" yaml:"ui"`
}

type MIDIConfig struct {
	Output       string `mapstructure:"output" yaml:"output"`
	SerialDevice string `mapstructure:"serial_device" yaml:"serial_device"`
	Baud         int    `mapstructure:"baud" yaml:"baud"`
	PortName     string `mapstructure:"port_name" yaml:"port_name"` // empty = first output port
	ClockEnabled bool   `mapstructure:"clock_enabled" yaml:"clock_enabled"`
	ClockPulses  bool   `mapstructure:"clock_pulses" yaml:"clock_pulses"`
}

type SequencerConfig struct {
	BPM          int             `mapstructure:"bpm" yaml:"bpm"`
	PollInterval time.Duration   `mapstructure:"poll_interval" yaml:"-"`
	Patterns     []PatternConfig `mapstructure:"patterns" yaml:"patterns"`
}

// MarshalYAML writes the poll interval as a duration string.
func (s SequencerConfig) MarshalYAML() (any, error) {
	type plain SequencerConfig
	return struct {
		plain        `yaml:",inline"`
		PollInterval string `yaml:"poll_interval"`
	}{plain(s), s.PollInterval.String()}, nil
}

// PatternConfig describes one Euclidean pattern.
type PatternConfig struct {
	Channel    int   `mapstructure:"channel" yaml:"channel"`
	Active     bool  `mapstructure:"active" yaml:"active"`
	Pitches    []int `mapstructure:"pitches" yaml:"pitches,flow"`
	Velocities []int `mapstructure:"velocities" yaml:"velocities,flow"`
	Steps      int   `mapstructure:"steps" yaml:"steps"`
	Pulses     int   `mapstructure:"pulses" yaml:"pulses"`
	Rotation   int   `mapstructure:"rotation" yaml:"rotation"`
	Length     int   `mapstructure:"length" yaml:"length"` // ticks
}

type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"` // empty = disabled
}

type UIConfig struct {
	Palette  string `mapstructure:"palette" yaml:"palette"` // GIMP .gpl file
	Headless bool   `mapstructure:"headless" yaml:"headless"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		MIDI: MIDIConfig{
			Output:       OutputLog,
			SerialDevice: "/dev/ttyAMA0",
			Baud:         midi.BaudRate,
			ClockEnabled: true,
		},
		Sequencer: SequencerConfig{
			BPM:          120,
			PollInterval: 250 * time.Microsecond,
			Patterns:     []PatternConfig{PatternConfigOf(sequencer.DefaultPattern())},
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("midi.output", d.MIDI.Output)
	v.SetDefault("midi.serial_device", d.MIDI.SerialDevice)
	v.SetDefault("midi.baud", d.MIDI.Baud)
	v.SetDefault("midi.port_name", d.MIDI.PortName)
	v.SetDefault("midi.clock_enabled", d.MIDI.ClockEnabled)
	v.SetDefault("midi.clock_pulses", d.MIDI.ClockPulses)

	v.SetDefault("sequencer.bpm", d.Sequencer.BPM)
	v.SetDefault("sequencer.poll_interval", d.Sequencer.PollInterval)
	// sequencer.patterns has no default so IsSet tells whether the file has any

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)

	v.SetDefault("metrics.addr", d.Metrics.Addr)

	v.SetDefault("ui.palette", d.UI.Palette)
	v.SetDefault("ui.headless", d.UI.Headless)
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "genseq"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads path, or config.yaml from the user then the system config
// directory when path is empty. A missing default file is not an error.
// A .env file in the working directory is loaded first, and GENSEQ_*
// environment variables override the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath("/etc/genseq")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if !v.IsSet("sequencer.patterns") {
		cfg.Sequencer.Patterns = DefaultConfig().Sequencer.Patterns
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	switch c.MIDI.Output {
	case OutputSerial, OutputPort, OutputLog:
	default:
		add("midi.output %q: want %s, %s or %s", c.MIDI.Output, OutputSerial, OutputPort, OutputLog)
	}
	if c.MIDI.Output == OutputSerial && c.MIDI.SerialDevice == "" {
		add("midi.serial_device is required for serial output")
	}
	if c.MIDI.Baud <= 0 {
		add("midi.baud %d must be positive", c.MIDI.Baud)
	}

	if c.Sequencer.BPM < 1 || c.Sequencer.BPM > 65535 {
		add("sequencer.bpm %d outside 1-65535", c.Sequencer.BPM)
	}
	if c.Sequencer.PollInterval < 0 {
		add("sequencer.poll_interval %s is negative", c.Sequencer.PollInterval)
	}
	for i, p := range c.Sequencer.Patterns {
		errs = append(errs, p.validate(i)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

func (p PatternConfig) validate(i int) []error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("sequencer.patterns[%d]: "+format, append([]any{i}, args...)...))
	}
	if p.Channel < 1 || p.Channel > 16 {
		add("channel %d outside 1-16", p.Channel)
	}
	for _, n := range p.Pitches {
		if n < 0 || n > 127 {
			add("pitch %d outside 0-127", n)
		}
	}
	for _, v := range p.Velocities {
		if v < 0 || v > 127 {
			add("velocity %d outside 0-127", v)
		}
	}
	if p.Steps < 1 || p.Steps > 255 {
		add("steps %d outside 1-255", p.Steps)
	}
	if p.Pulses < 0 || p.Pulses > 255 {
		add("pulses %d outside 0-255", p.Pulses)
	}
	if p.Rotation < 0 || p.Rotation > 255 {
		add("rotation %d outside 0-255", p.Rotation)
	}
	if p.Length < 1 {
		add("length %d must be at least 1 tick", p.Length)
	}
	return errs
}

// PatternConfigOf describes an existing Euclidean pattern.
func PatternConfigOf(p *sequencer.Pattern) PatternConfig {
	return PatternConfig{
		Channel:    int(p.Channel),
		Active:     p.IsActive(),
		Pitches:    ints(p.Pitches.Values()),
		Velocities: ints(p.Velocities.Values()),
		Steps:      int(p.Euclid.Steps),
		Pulses:     int(p.Euclid.Pulses),
		Rotation:   int(p.Euclid.Rotation),
		Length:     p.Euclid.Length,
	}
}

// Build creates the pattern. The config must have passed Validate.
func (p PatternConfig) Build() (*sequencer.Pattern, error) {
	pat, err := sequencer.NewEuclideanPattern(
		bytes(p.Pitches),
		bytes(p.Velocities),
		sequencer.EuclidParams{
			Steps:    uint8(p.Steps),
			Pulses:   uint8(p.Pulses),
			Rotation: uint8(p.Rotation),
			Length:   p.Length,
		},
		uint8(p.Channel),
	)
	if err != nil {
		return nil, err
	}
	pat.SetActive(p.Active)
	return pat, nil
}

// BuildPatterns creates every configured pattern.
func (c *Config) BuildPatterns() ([]*sequencer.Pattern, error) {
	patterns := make([]*sequencer.Pattern, 0, len(c.Sequencer.Patterns))
	for i, pc := range c.Sequencer.Patterns {
		p, err := pc.Build()
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes the config to path, or to ConfigPath when path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func ints(b []uint8) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}

func bytes(n []int) []uint8 {
	out := make([]uint8, len(n))
	for i, v := range n {
		out[i] = uint8(v)
	}
	return out
}
