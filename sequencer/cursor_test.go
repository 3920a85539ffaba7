package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorAdvanceWraps(t *testing.T) {
	c := NewCursor(3)
	var seen []int
	for i := 0; i < 7; i++ {
		seen = append(seen, c.Current())
		c.Advance()
	}
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2, 0}, seen)
	assert.Equal(t, 1, c.Current())
	assert.Equal(t, 0, c.Previous())
}

func TestCursorSetPosition(t *testing.T) {
	c := NewCursor(4)
	c.SetPosition(2)
	assert.Equal(t, 2, c.Current())
	assert.Equal(t, 0, c.Previous())

	c.SetPosition(9)
	assert.Equal(t, 1, c.Current(), "wraps instead of failing")
	assert.Equal(t, 2, c.Previous())

	c.SetPosition(-1)
	assert.Equal(t, 3, c.Current())
}

func TestCursorReset(t *testing.T) {
	c := NewCursor(5)
	c.Advance()
	c.Advance()
	c.Reset()
	assert.Equal(t, 0, c.Current())
	assert.Equal(t, 0, c.Previous())
}

func TestCursorEmpty(t *testing.T) {
	c := NewCursor(0)
	c.Advance()
	c.SetPosition(3)
	assert.Equal(t, 0, c.Current())
	assert.Equal(t, 0, c.Len())

	assert.Equal(t, 0, NewCursor(-2).Len())
}

func TestStepSequence(t *testing.T) {
	s := NewStepSequence(60, 64, 67)
	assert.Equal(t, uint8(60), s.Current())
	s.Advance()
	s.Advance()
	s.Advance()
	assert.Equal(t, uint8(60), s.Current())
	s.SetPosition(5)
	assert.Equal(t, uint8(67), s.Current())

	empty := NewStepSequence()
	empty.Advance()
	assert.Equal(t, uint8(0), empty.Current())
	assert.Equal(t, 0, empty.Len())
}
