package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the sequencer's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	TicksTotal     prometheus.Counter
	TickLateness   prometheus.Histogram
	NotesOnTotal   prometheus.Counter
	NotesOffTotal  prometheus.Counter
	ActiveNotes    prometheus.Gauge
	CommandsTotal  *prometheus.CounterVec
	BPM            prometheus.Gauge
	Playing        prometheus.Gauge
	MIDIEmitErrors prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TicksTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "genseq_ticks_total",
			Help: "Sequencer ticks processed while playing",
		}),
		TickLateness: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "genseq_tick_lateness_seconds",
			Help:    "How far past its period each tick fired",
			Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01},
		}),
		NotesOnTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "genseq_notes_on_total",
			Help: "Note-On messages emitted",
		}),
		NotesOffTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "genseq_notes_off_total",
			Help: "Note-Off messages emitted",
		}),
		ActiveNotes: f.NewGauge(prometheus.GaugeOpts{
			Name: "genseq_active_notes",
			Help: "Notes currently sounding",
		}),
		CommandsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "genseq_commands_total",
				Help: "Commands applied by the sequencer, by kind",
			},
			[]string{"kind"},
		),
		BPM: f.NewGauge(prometheus.GaugeOpts{
			Name: "genseq_bpm",
			Help: "Current tempo",
		}),
		Playing: f.NewGauge(prometheus.GaugeOpts{
			Name: "genseq_playing",
			Help: "1 while the transport is playing",
		}),
		MIDIEmitErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "genseq_midi_emit_errors_total",
			Help: "MIDI messages that failed to reach the transport",
		}),
	}
}

func (m *Metrics) Tick(lateness time.Duration) {
	if m == nil {
		return
	}
	m.TicksTotal.Inc()
	if lateness < 0 {
		lateness = 0
	}
	m.TickLateness.Observe(lateness.Seconds())
}

func (m *Metrics) NoteOn(active int) {
	if m == nil {
		return
	}
	m.NotesOnTotal.Inc()
	m.ActiveNotes.Set(float64(active))
}

func (m *Metrics) NoteOff(active int) {
	if m == nil {
		return
	}
	m.NotesOffTotal.Inc()
	m.ActiveNotes.Set(float64(active))
}

func (m *Metrics) Command(kind string) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetBPM(bpm uint16) {
	if m == nil {
		return
	}
	m.BPM.Set(float64(bpm))
}

func (m *Metrics) SetPlaying(playing bool) {
	if m == nil {
		return
	}
	if playing {
		m.Playing.Set(1)
	} else {
		m.Playing.Set(0)
	}
}

func (m *Metrics) EmitError() {
	if m == nil {
		return
	}
	m.MIDIEmitErrors.Inc()
}
