package sequencer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"genseq/command"
	"genseq/debug"
	"genseq/metrics"
	"genseq/midi"
)

// ErrPatternIndex is returned for a pattern index the engine does not have.
var ErrPatternIndex = errors.New("pattern index out of range")

// EuclidField names one of the Euclidean parameters of a pattern.
type EuclidField uint8

const (
	FieldSteps EuclidField = iota
	FieldPulses
	FieldRotation
	FieldLength
)

var fieldNames = [...]string{"steps", "pulses", "rotation", "length"}

func (f EuclidField) String() string {
	if int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return fmt.Sprintf("field(%d)", uint8(f))
}

// Engine owns the patterns and turns elapsed time into MIDI. It is not safe
// for concurrent use: one goroutine drives it through Run (or Poll in tests),
// everything else talks to it through the command channel and reads
// snapshots from Updates.
type Engine struct {
	patterns []*Pattern

	bpm          uint16
	playing      bool
	lastTick     time.Time
	ticks        uint64 // since Play
	clockEnabled bool
	clockPulses  bool

	// activeNotes[wire channel][note] is set between a Note-On and its Note-Off.
	activeNotes [16][128]bool
	noteCount   int

	out      midi.Emitter
	commands command.Receiver
	metrics  *metrics.Metrics
	updates  chan State

	pollInterval time.Duration
	now          func() time.Time
}

// New creates a stopped engine at 120 BPM with the default pattern.
// commands may be nil when the engine is driven directly.
func New(out midi.Emitter, commands command.Receiver, opts ...Option) *Engine {
	e := &Engine{
		bpm:          120,
		clockEnabled: true,
		out:          out,
		commands:     commands,
		pollInterval: 250 * time.Microsecond,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if len(e.patterns) == 0 {
		e.patterns = []*Pattern{DefaultPattern()}
	}
	e.metrics.SetBPM(e.bpm)
	e.metrics.SetPlaying(false)
	return e
}

// TickPeriod returns the time between ticks at bpm. There is no period for
// 0 BPM.
func TickPeriod(bpm uint16) (time.Duration, bool) {
	if bpm == 0 {
		return 0, false
	}
	us := 60_000_000 / (int64(bpm) * PPQN)
	return time.Duration(us) * time.Microsecond, true
}

// Run polls until ctx ends, then silences every sounding note. It pins itself
// to an OS thread like a dedicated core.
func (e *Engine) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	debug.Info("engine", "running: %d bpm, %d patterns, poll %s", e.bpm, len(e.patterns), e.pollInterval)
	e.publish()

	for {
		select {
		case <-ctx.Done():
			e.AllNotesOff()
			e.publish()
			debug.Info("engine", "stopped after %d ticks", e.ticks)
			return
		default:
		}

		e.Poll(e.now())

		if e.pollInterval > 0 {
			time.Sleep(e.pollInterval)
		} else {
			runtime.Gosched()
		}
	}
}

// Poll applies at most one pending command, then evaluates the clock.
func (e *Engine) Poll(now time.Time) {
	if e.commands != nil {
		if msg, ok := e.commands.TryReceive(); ok {
			e.Apply(msg, now)
		}
	}
	e.Update(now)
}

// Apply executes one command. Bad parameters are logged and ignored.
func (e *Engine) Apply(msg command.Message, now time.Time) {
	e.metrics.Command(msg.Kind.String())

	var err error
	switch msg.Kind {
	case command.Noop:
	case command.Play:
		e.Play(now)
	case command.Stop:
		e.Stop()
	case command.BPMSet:
		e.SetBPM(uint16(msg.Param1))
	case command.PatternActivate:
		err = e.SetPatternActive(int(msg.Param1), true)
	case command.PatternDeactivate:
		err = e.SetPatternActive(int(msg.Param1), false)
	case command.PatternEuclidSteps:
		err = e.EditEuclid(int(msg.Param1), FieldSteps, msg.Param2)
	case command.PatternEuclidPulses:
		err = e.EditEuclid(int(msg.Param1), FieldPulses, msg.Param2)
	case command.PatternEuclidRotation:
		err = e.EditEuclid(int(msg.Param1), FieldRotation, msg.Param2)
	case command.PatternEuclidLength:
		err = e.EditEuclid(int(msg.Param1), FieldLength, msg.Param2)
	default:
		err = fmt.Errorf("unknown command kind %d", uint8(msg.Kind))
	}
	if err != nil {
		debug.Warn("engine", "%s ignored: %v", msg, err)
	}
	e.publish()
}

// Update runs one tick if a full period has passed since the last one.
// It reports whether a tick ran.
func (e *Engine) Update(now time.Time) bool {
	if !e.playing {
		return false
	}
	period, ok := TickPeriod(e.bpm)
	if !ok {
		debug.WarnEvery(10000, "engine", "tempo is 0 bpm, clock halted")
		return false
	}
	elapsed := now.Sub(e.lastTick)
	if elapsed < period {
		return false
	}
	e.lastTick = now
	e.metrics.Tick(elapsed - period)
	e.tick()
	e.publish()
	return true
}

func (e *Engine) tick() {
	if e.clockPulses {
		e.send(gomidi.Message{midi.TimingClock})
	}

	for i, p := range e.patterns {
		if !p.IsActive() {
			continue
		}
		if p.Inert() {
			debug.LogEvery(1000, "engine", "pattern %d has an empty sequence, skipped", i)
			continue
		}

		switch p.Gate.Flank() {
		case Rising:
			e.notePattern(p)
		case Falling:
			e.noteOff(p.Channel, p.Pitches.Current())
			p.sounding = false
			p.Pitches.Advance()
			p.Velocities.Advance()
		}
		p.Gate.Advance()
	}

	e.ticks++
	debug.LogEvery(PPQN*4, "engine", "tick %d, %d notes sounding", e.ticks, e.noteCount)
}

// Play starts the clock. Cursors keep their positions.
func (e *Engine) Play(now time.Time) {
	if e.playing {
		debug.Log("engine", "play while playing ignored")
		return
	}
	if e.clockEnabled {
		e.send(gomidi.Message{midi.Start})
	}
	e.playing = true
	e.lastTick = now
	e.ticks = 0
	e.metrics.SetPlaying(true)
	debug.Info("engine", "play at %d bpm", e.bpm)
}

// Stop halts the clock, releases every sounding note once and rewinds all
// patterns. Stopping a stopped engine repeats the sweep, which finds nothing.
func (e *Engine) Stop() {
	wasPlaying := e.playing
	e.playing = false
	e.AllNotesOff()
	if e.clockPulses && wasPlaying {
		e.send(gomidi.Message{midi.Stop})
	}
	for _, p := range e.patterns {
		p.Reset()
	}
	e.metrics.SetPlaying(false)
	if wasPlaying {
		debug.Info("engine", "stop after %d ticks", e.ticks)
	}
}

// AllNotesOff sends a Note-Off for every note the engine left sounding.
func (e *Engine) AllNotesOff() {
	for c := range e.activeNotes {
		for n, on := range e.activeNotes[c] {
			if on {
				e.releaseWire(uint8(c), uint8(n))
			}
		}
	}
	for _, p := range e.patterns {
		p.sounding = false
	}
}

// SetBPM changes the tempo. 0 halts the clock until a real tempo arrives.
func (e *Engine) SetBPM(bpm uint16) {
	if bpm == 0 {
		debug.Warn("engine", "tempo set to 0 bpm")
	}
	e.bpm = bpm
	e.metrics.SetBPM(bpm)
	debug.Log("engine", "bpm %d", bpm)
}

// SetPatternActive switches pattern i on or off. Switching off releases the
// pattern's sounding note.
func (e *Engine) SetPatternActive(i int, active bool) error {
	p, err := e.pattern(i)
	if err != nil {
		return err
	}
	if !active {
		e.release(p)
	}
	p.SetActive(active)
	debug.Log("engine", "pattern %d active=%t", i, active)
	return nil
}

// EditEuclid changes one Euclidean parameter of pattern i and regenerates its
// gate. A sounding note is released first. On error the old gate stays.
func (e *Engine) EditEuclid(i int, field EuclidField, value uint8) error {
	p, err := e.pattern(i)
	if err != nil {
		return err
	}

	params := p.Euclid
	switch field {
	case FieldSteps:
		params.Steps = value
	case FieldPulses:
		params.Pulses = value
	case FieldRotation:
		params.Rotation = value
	case FieldLength:
		params.Length = int(value)
	default:
		return fmt.Errorf("unknown euclid field %d", uint8(field))
	}
	if params.Length == 0 {
		return fmt.Errorf("pattern %d: gate length 0", i)
	}
	gate, err := NewEuclideanGate(params)
	if err != nil {
		return fmt.Errorf("pattern %d: %w", i, err)
	}

	e.release(p)
	p.SetGate(gate)
	p.Euclid = params
	debug.Log("engine", "pattern %d %s=%d -> %s", i, field, value, params)
	return nil
}

// AddPattern appends a pattern and returns its index.
func (e *Engine) AddPattern(p *Pattern) int {
	e.patterns = append(e.patterns, p)
	return len(e.patterns) - 1
}

// Pattern returns pattern i, or nil.
func (e *Engine) Pattern(i int) *Pattern {
	p, _ := e.pattern(i)
	return p
}

func (e *Engine) NumPatterns() int { return len(e.patterns) }
func (e *Engine) BPM() uint16      { return e.bpm }
func (e *Engine) Playing() bool    { return e.playing }
func (e *Engine) ActiveNotes() int { return e.noteCount }

// NoteActive reports whether note is sounding on the 1-based channel.
func (e *Engine) NoteActive(channel, note uint8) bool {
	return e.activeNotes[wireChannel(channel)][note&0x7F]
}

func (e *Engine) pattern(i int) (*Pattern, error) {
	if i < 0 || i >= len(e.patterns) {
		return nil, fmt.Errorf("%d of %d: %w", i, len(e.patterns), ErrPatternIndex)
	}
	return e.patterns[i], nil
}

// wireChannel maps a 1-based channel to the 4-bit wire channel. 0 is treated
// as channel 1.
func wireChannel(channel uint8) uint8 {
	if channel < 1 {
		channel = 1
	}
	return (channel - 1) & 0x0F
}

func (e *Engine) notePattern(p *Pattern) {
	if p.sounding {
		e.release(p)
	}
	note := p.Pitches.Current() & 0x7F
	e.noteOn(p.Channel, note, p.Velocities.Current())
	p.sounding = true
	p.note = note
}

func (e *Engine) release(p *Pattern) {
	if !p.sounding {
		return
	}
	e.noteOff(p.Channel, p.note)
	p.sounding = false
}

func (e *Engine) noteOn(channel, note, velocity uint8) {
	wire := wireChannel(channel)
	note &= 0x7F
	e.send(gomidi.NoteOn(wire, note, velocity&0x7F))
	if !e.activeNotes[wire][note] {
		e.activeNotes[wire][note] = true
		e.noteCount++
	}
	e.metrics.NoteOn(e.noteCount)
}

func (e *Engine) noteOff(channel, note uint8) {
	e.releaseWire(wireChannel(channel), note&0x7F)
}

func (e *Engine) releaseWire(wire, note uint8) {
	e.send(gomidi.NoteOff(wire, note))
	if e.activeNotes[wire][note] {
		e.activeNotes[wire][note] = false
		e.noteCount--
	}
	e.metrics.NoteOff(e.noteCount)
}

// send writes msg to the emitter. Failures are counted and logged but never
// stop the loop; note bookkeeping carries on as if the bytes went out.
func (e *Engine) send(msg gomidi.Message) {
	if e.out == nil {
		return
	}
	if err := midi.Emit(e.out, msg); err != nil {
		e.metrics.EmitError()
		debug.WarnEvery(100, "midi", "emit % X: %v", []byte(msg), err)
	}
}
