package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Tick(time.Millisecond)
		m.NoteOn(1)
		m.NoteOff(0)
		m.Command("play")
		m.SetBPM(120)
		m.SetPlaying(true)
		m.EmitError()
	})
}

func TestRecording(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Tick(-time.Millisecond)
	m.Tick(2 * time.Millisecond)
	m.NoteOn(1)
	m.NoteOn(2)
	m.NoteOff(1)
	m.Command("play")
	m.Command("play")
	m.Command("stop")
	m.SetBPM(98)
	m.SetPlaying(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TicksTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.NotesOnTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotesOffTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveNotes))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("play")))
	assert.Equal(t, 98.0, testutil.ToFloat64(m.BPM))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Playing))

	expected := `
# HELP genseq_midi_emit_errors_total MIDI messages that failed to reach the transport
# TYPE genseq_midi_emit_errors_total counter
genseq_midi_emit_errors_total 0
`
	assert.NoError(t, testutil.CollectAndCompare(m.MIDIEmitErrors, strings.NewReader(expected)))
	n, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 10, n)
}
