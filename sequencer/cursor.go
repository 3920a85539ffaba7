package sequencer

import "genseq/debug"

// Cursor is a wrapping position into a fixed-length sequence. It remembers the
// position it held before the last move so callers can detect edges.
type Cursor struct {
	length   int
	position int
	previous int
}

// NewCursor creates a cursor over a sequence of the given length.
func NewCursor(length int) Cursor {
	if length < 0 {
		length = 0
	}
	return Cursor{length: length}
}

// Advance moves one step forward, wrapping at the sequence length.
// A cursor over an empty sequence never moves.
func (c *Cursor) Advance() {
	if c.length == 0 {
		return
	}
	c.previous = c.position
	c.position = (c.position + 1) % c.length
}

// SetPosition jumps to p. Out-of-range positions wrap instead of failing.
func (c *Cursor) SetPosition(p int) {
	if c.length == 0 {
		debug.Warn("cursor", "SetPosition(%d) on empty sequence ignored", p)
		return
	}
	if p < 0 || p >= c.length {
		debug.Warn("cursor", "position %d out of bounds for length %d, wrapping", p, c.length)
		p %= c.length
		if p < 0 {
			p += c.length
		}
	}
	c.previous = c.position
	c.position = p
}

// Reset puts both the current and previous position back to 0.
func (c *Cursor) Reset() {
	c.position = 0
	c.previous = 0
}

func (c Cursor) Current() int  { return c.position }
func (c Cursor) Previous() int { return c.previous }
func (c Cursor) Len() int      { return c.length }
