package sequencer

// StepSequence is an ordered run of byte values (MIDI notes or velocities)
// walked by its own cursor. It only moves on musical events, not on ticks.
type StepSequence struct {
	values []uint8
	cursor Cursor
}

// NewStepSequence copies values into a sequence positioned at step 0.
func NewStepSequence(values ...uint8) *StepSequence {
	return &StepSequence{
		values: append([]uint8(nil), values...),
		cursor: NewCursor(len(values)),
	}
}

// Current returns the value under the cursor, 0 for an empty sequence.
func (s *StepSequence) Current() uint8 {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[s.cursor.Current()]
}

func (s *StepSequence) Advance()          { s.cursor.Advance() }
func (s *StepSequence) Reset()            { s.cursor.Reset() }
func (s *StepSequence) SetPosition(p int) { s.cursor.SetPosition(p) }
func (s *StepSequence) Position() int     { return s.cursor.Current() }
func (s *StepSequence) Len() int          { return len(s.values) }

// Values returns a copy of the sequence.
func (s *StepSequence) Values() []uint8 {
	return append([]uint8(nil), s.values...)
}

// Pattern ties a pitch sequence, a velocity sequence and a gate sequence to a
// MIDI channel. The three advance independently: the gate every tick, pitch
// and velocity once per note.
type Pattern struct {
	Pitches    *StepSequence
	Velocities *StepSequence
	Gate       *GateSequence
	Channel    uint8 // 1-16

	Euclid EuclidParams // zero when the gate was not generated

	active   bool
	sounding bool  // a Note-On from this pattern is waiting for its Note-Off
	note     uint8 // pitch sent with that Note-On
}

// NewPattern builds an inactive pattern.
func NewPattern(pitches, velocities *StepSequence, gate *GateSequence, channel uint8) *Pattern {
	if pitches == nil {
		pitches = NewStepSequence()
	}
	if velocities == nil {
		velocities = NewStepSequence()
	}
	if gate == nil {
		gate = NewGateSequence(nil)
	}
	return &Pattern{
		Pitches:    pitches,
		Velocities: velocities,
		Gate:       gate,
		Channel:    channel,
	}
}

// NewEuclideanPattern builds an inactive pattern whose gate comes from p.
func NewEuclideanPattern(pitches, velocities []uint8, p EuclidParams, channel uint8) (*Pattern, error) {
	gate, err := NewEuclideanGate(p)
	if err != nil {
		return nil, err
	}
	pat := NewPattern(NewStepSequence(pitches...), NewStepSequence(velocities...), gate, channel)
	pat.Euclid = p
	return pat, nil
}

// DefaultPattern is the power-on pattern: C4 G4 A4 C5 with alternating
// accents, two pulses over a twelve-step quarter note, channel 1, active.
func DefaultPattern() *Pattern {
	p, err := NewEuclideanPattern(
		[]uint8{60, 67, 69, 72},
		[]uint8{100, 20},
		EuclidParams{Steps: 12, Pulses: 2, Rotation: 0, Length: PPQN},
		1,
	)
	if err != nil {
		panic(err) // constant parameters
	}
	p.SetActive(true)
	return p
}

func (p *Pattern) IsActive() bool        { return p.active }
func (p *Pattern) SetActive(active bool) { p.active = active }

// Inert reports whether any of the three sequences is empty. Inert patterns
// are skipped by the engine.
func (p *Pattern) Inert() bool {
	return p.Pitches.Len() == 0 || p.Velocities.Len() == 0 || p.Gate.Len() == 0
}

// Reset rewinds all three cursors.
func (p *Pattern) Reset() {
	p.Gate.Reset()
	p.Pitches.Reset()
	p.Velocities.Reset()
}

// SetGate replaces the gate sequence wholesale. The new gate keeps the old
// tick position modulo its length and restarts its flank there.
func (p *Pattern) SetGate(g *GateSequence) {
	pos := p.Gate.Position()
	if g.Len() > 0 {
		g.cursor.position = pos % g.Len()
		g.cursor.previous = g.cursor.position
		g.restart()
	}
	p.Gate = g
}
