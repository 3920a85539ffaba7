package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hermetic(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoadDefaults(t *testing.T) {
	hermetic(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 31250, cfg.MIDI.Baud)
	require.Len(t, cfg.Sequencer.Patterns, 1)
	assert.Equal(t, []int{60, 67, 69, 72}, cfg.Sequencer.Patterns[0].Pitches)
}

func TestLoadFile(t *testing.T) {
	hermetic(t)
	path := filepath.Join(t.TempDir(), "genseq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
midi:
  output: serial
  serial_device: /dev/ttyUSB0
  clock_pulses: true
sequencer:
  bpm: 96
  poll_interval: 1ms
  patterns:
    - channel: 10
      active: true
      pitches: [36, 38]
      velocities: [127]
      steps: 16
      pulses: 5
      rotation: 2
      length: 96
    - channel: 2
      pitches: [60]
      velocities: [80]
      steps: 8
      pulses: 3
      length: 24
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, OutputSerial, cfg.MIDI.Output)
	assert.Equal(t, "/dev/ttyUSB0", cfg.MIDI.SerialDevice)
	assert.True(t, cfg.MIDI.ClockEnabled, "unset keys keep their defaults")
	assert.True(t, cfg.MIDI.ClockPulses)
	assert.Equal(t, 96, cfg.Sequencer.BPM)
	assert.Equal(t, time.Millisecond, cfg.Sequencer.PollInterval)
	require.Len(t, cfg.Sequencer.Patterns, 2)
	assert.Equal(t, PatternConfig{
		Channel: 10, Active: true,
		Pitches: []int{36, 38}, Velocities: []int{127},
		Steps: 16, Pulses: 5, Rotation: 2, Length: 96,
	}, cfg.Sequencer.Patterns[0])

	patterns, err := cfg.BuildPatterns()
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.True(t, patterns[0].IsActive())
	assert.False(t, patterns[1].IsActive())
	assert.Equal(t, 96, patterns[0].Gate.Len())
	assert.Equal(t, uint8(10), patterns[0].Channel)
}

func TestLoadEnvOverride(t *testing.T) {
	hermetic(t)
	t.Setenv("GENSEQ_SEQUENCER_BPM", "90")
	t.Setenv("GENSEQ_MIDI_OUTPUT", "port")
	t.Setenv("GENSEQ_MIDI_PORT_NAME", "IAC Driver Bus 1")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.Sequencer.BPM)
	assert.Equal(t, OutputPort, cfg.MIDI.Output)
	assert.Equal(t, "IAC Driver Bus 1", cfg.MIDI.PortName)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	hermetic(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MIDI.Output = "usb"
	cfg.Sequencer.BPM = 0
	cfg.Sequencer.Patterns = []PatternConfig{{
		Channel:    17,
		Pitches:    []int{128},
		Velocities: []int{-1},
		Steps:      0,
		Length:     0,
	}}

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	for _, want := range []string{
		`midi.output "usb"`,
		"sequencer.bpm 0",
		"sequencer.patterns[0]: channel 17",
		"pitch 128",
		"velocity -1",
		"steps 0",
		"length 0",
	} {
		assert.Contains(t, err.Error(), want)
	}

	assert.NoError(t, DefaultConfig().Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	hermetic(t)
	cfg := DefaultConfig()
	cfg.Sequencer.BPM = 140
	cfg.Sequencer.PollInterval = 500 * time.Microsecond
	cfg.Metrics.Addr = ":9100"

	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "poll_interval: 500")
	assert.Contains(t, string(data), "pitches: [60, 67, 69, 72]")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveDefaultPath(t *testing.T) {
	home := hermetic(t)
	require.NoError(t, DefaultConfig().Save(""))
	_, err := os.Stat(filepath.Join(home, ".config", "genseq", "config.yaml"))
	assert.NoError(t, err)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
