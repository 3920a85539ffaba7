package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlankOf(t *testing.T) {
	tests := []struct {
		previous, current bool
		want              Flank
	}{
		{false, true, Rising},
		{true, false, Falling},
		{true, true, High},
		{false, false, Low},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FlankOf(tc.previous, tc.current), "%t -> %t", tc.previous, tc.current)
	}
}

func TestGateSequenceFlanks(t *testing.T) {
	g := NewGateSequence([]bool{true, true, false, false})
	var got []Flank
	for i := 0; i < 6; i++ {
		got = append(got, g.Flank())
		g.Advance()
	}
	assert.Equal(t, []Flank{Rising, High, Falling, Low, Rising, High}, got)
}

func TestGateSequenceStartsLow(t *testing.T) {
	g := NewGateSequence([]bool{false, true})
	assert.Equal(t, Low, g.Flank())
	g.Advance()
	assert.Equal(t, Rising, g.Flank())
}

func TestGateSequenceReset(t *testing.T) {
	g := NewGateSequence([]bool{true, false, true})
	g.Advance()
	assert.Equal(t, Falling, g.Flank())
	g.Reset()
	assert.Equal(t, 0, g.Position())
	assert.Equal(t, Rising, g.Flank())
}

func TestGateSequenceSetPosition(t *testing.T) {
	g := NewGateSequence([]bool{true, true, false, false})
	g.SetPosition(2)
	assert.Equal(t, Falling, g.Flank())
	g.SetPosition(5)
	assert.Equal(t, 1, g.Position())
	assert.Equal(t, Rising, g.Flank())
}

func TestGateSequenceIsACopy(t *testing.T) {
	src := []bool{true, false}
	g := NewGateSequence(src)
	src[0] = false
	assert.True(t, g.Gate())

	out := g.Gates()
	out[1] = true
	assert.Equal(t, "-_", g.String())
}

func TestEmptyGateSequence(t *testing.T) {
	g := NewGateSequence(nil)
	g.Advance()
	g.SetPosition(1)
	assert.Equal(t, Low, g.Flank())
	assert.False(t, g.Gate())
	assert.Equal(t, "", g.String())
}

func TestPatternSetGateKeepsPosition(t *testing.T) {
	p := NewPattern(NewStepSequence(60), NewStepSequence(100), NewGateSequence(make([]bool, 8)), 1)
	for i := 0; i < 5; i++ {
		p.Gate.Advance()
	}
	p.SetGate(NewGateSequence([]bool{false, true, true}))
	assert.Equal(t, 2, p.Gate.Position())
	assert.Equal(t, Rising, p.Gate.Flank())
}
