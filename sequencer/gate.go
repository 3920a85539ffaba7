package sequencer

import "strings"

// Flank is the direction of the gate between the previous and current tick.
type Flank uint8

const (
	Low Flank = iota
	Rising
	High
	Falling
)

var flankNames = [...]string{"Low", "Rising", "High", "Falling"}

func (f Flank) String() string {
	if int(f) < len(flankNames) {
		return flankNames[f]
	}
	return "Flank(?)"
}

// FlankOf classifies a pair of consecutive gate values.
func FlankOf(previous, current bool) Flank {
	switch {
	case !previous && current:
		return Rising
	case previous && !current:
		return Falling
	case current:
		return High
	default:
		return Low
	}
}

// GateSequence is an immutable run of gate values, one per tick, walked by its
// own cursor. The flank is recomputed on every cursor move.
type GateSequence struct {
	gates  []bool
	cursor Cursor
	flank  Flank
}

// NewGateSequence copies gates into a new sequence positioned at tick 0.
func NewGateSequence(gates []bool) *GateSequence {
	g := &GateSequence{
		gates:  append([]bool(nil), gates...),
		cursor: NewCursor(len(gates)),
	}
	g.restart()
	return g
}

// restart sets the flank as if the gate had been low before the current
// position, so a pattern that starts on a pulse opens with a Rising edge.
func (g *GateSequence) restart() {
	if len(g.gates) == 0 {
		g.flank = Low
		return
	}
	g.flank = FlankOf(false, g.gates[g.cursor.Current()])
}

// Advance moves to the next tick and updates the flank.
func (g *GateSequence) Advance() {
	if len(g.gates) == 0 {
		return
	}
	g.cursor.Advance()
	g.flank = FlankOf(g.gates[g.cursor.Previous()], g.gates[g.cursor.Current()])
}

// Reset rewinds to tick 0.
func (g *GateSequence) Reset() {
	g.cursor.Reset()
	g.restart()
}

// SetPosition jumps to tick p (wrapping) and recomputes the flank against the
// tick the cursor left.
func (g *GateSequence) SetPosition(p int) {
	if len(g.gates) == 0 {
		return
	}
	g.cursor.SetPosition(p)
	g.flank = FlankOf(g.gates[g.cursor.Previous()], g.gates[g.cursor.Current()])
}

func (g *GateSequence) Flank() Flank  { return g.flank }
func (g *GateSequence) Len() int      { return len(g.gates) }
func (g *GateSequence) Position() int { return g.cursor.Current() }

// Gate returns the value at the current tick.
func (g *GateSequence) Gate() bool {
	if len(g.gates) == 0 {
		return false
	}
	return g.gates[g.cursor.Current()]
}

// Gates returns a copy of the gate values.
func (g *GateSequence) Gates() []bool {
	return append([]bool(nil), g.gates...)
}

// String renders the gates as '-' (high) and '_' (low).
func (g *GateSequence) String() string {
	return RenderGates(g.gates, '-', '_')
}

// RenderGates draws one rune per tick.
func RenderGates(gates []bool, on, off rune) string {
	var b strings.Builder
	for _, v := range gates {
		if v {
			b.WriteRune(on)
		} else {
			b.WriteRune(off)
		}
	}
	return b.String()
}
