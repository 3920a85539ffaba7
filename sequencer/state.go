package sequencer

// State is a value copy of the engine, safe to hand to another goroutine.
type State struct {
	BPM         uint16         `json:"bpm"`
	Playing     bool           `json:"playing"`
	Ticks       uint64         `json:"ticks"`
	ActiveNotes int            `json:"activeNotes"`
	Patterns    []PatternState `json:"patterns"`
}

// PatternState is the visible part of one pattern.
type PatternState struct {
	Channel  uint8        `json:"channel"`
	Active   bool         `json:"active"`
	Euclid   EuclidParams `json:"euclid"`
	Gates    []bool       `json:"gates"`
	GatePos  int          `json:"gatePos"`
	Flank    Flank        `json:"flank"`
	Pitch    uint8        `json:"pitch"`
	PitchPos int          `json:"pitchPos"`
	Velocity uint8        `json:"velocity"`
	Sounding bool         `json:"sounding"`
}

// Snapshot copies the engine state. Call it from the goroutine driving the
// engine; other goroutines read Updates.
func (e *Engine) Snapshot() State {
	s := State{
		BPM:         e.bpm,
		Playing:     e.playing,
		Ticks:       e.ticks,
		ActiveNotes: e.noteCount,
		Patterns:    make([]PatternState, len(e.patterns)),
	}
	for i, p := range e.patterns {
		s.Patterns[i] = PatternState{
			Channel:  p.Channel,
			Active:   p.IsActive(),
			Euclid:   p.Euclid,
			Gates:    p.Gate.Gates(),
			GatePos:  p.Gate.Position(),
			Flank:    p.Gate.Flank(),
			Pitch:    p.Pitches.Current(),
			PitchPos: p.Pitches.Position(),
			Velocity: p.Velocities.Current(),
			Sounding: p.sounding,
		}
	}
	return s
}

// Updates delivers the latest snapshot after every tick and command. Only the
// newest one is kept. Nil unless the engine was built WithUpdates.
func (e *Engine) Updates() <-chan State {
	return e.updates
}

func (e *Engine) publish() {
	if e.updates == nil {
		return
	}
	s := e.Snapshot()
	select {
	case <-e.updates:
	default:
	}
	select {
	case e.updates <- s:
	default:
	}
}
