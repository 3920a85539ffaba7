package sequencer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onsets(gates []bool) []int {
	var idx []int
	for i, g := range gates {
		if g {
			idx = append(idx, i)
		}
	}
	return idx
}

func TestEuclidThreeOverEight(t *testing.T) {
	gates, err := Euclid(8, 3, 0, 8)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 6}, onsets(gates))
}

func TestEuclidCoverageAndEvenness(t *testing.T) {
	for steps := 1; steps <= 64; steps++ {
		for pulses := 0; pulses <= steps; pulses++ {
			gates, err := Euclid(uint8(steps), uint8(pulses), 0, steps)
			require.NoError(t, err)
			require.Len(t, gates, steps)

			on := onsets(gates)
			require.Len(t, on, pulses, "E(%d,%d)", pulses, steps)
			if pulses < 2 {
				continue
			}

			minGap, maxGap := steps, 0
			for i := range on {
				next := on[(i+1)%len(on)]
				if i == len(on)-1 {
					next += steps
				}
				gap := next - on[i]
				minGap = min(minGap, gap)
				maxGap = max(maxGap, gap)
			}
			assert.LessOrEqual(t, maxGap-minGap, 1, "E(%d,%d) gaps %d..%d", pulses, steps, minGap, maxGap)
		}
	}
}

func TestEuclidRotationIsCyclicShift(t *testing.T) {
	for _, tc := range []struct{ steps, pulses uint8 }{
		{8, 3}, {16, 5}, {12, 2}, {7, 4}, {13, 13}, {5, 0},
	} {
		base, err := Euclid(tc.steps, tc.pulses, 0, int(tc.steps))
		require.NoError(t, err)
		n := int(tc.steps)
		for r := 0; r < 2*n; r++ {
			t.Run(fmt.Sprintf("E(%d,%d)+%d", tc.pulses, tc.steps, r), func(t *testing.T) {
				rotated, err := Euclid(tc.steps, tc.pulses, uint8(r), n)
				require.NoError(t, err)
				for i := range rotated {
					assert.Equal(t, base[((i-r)%n+n)%n], rotated[i], "index %d", i)
				}
			})
		}
	}
}

func TestEuclidExpansion(t *testing.T) {
	tests := []struct {
		name                  string
		steps, pulses, rotate uint8
		length                int
		want                  string
	}{
		{"two over four in eight ticks", 4, 2, 0, 8, "--__--__"},
		{"trailing ticks repeat", 3, 1, 0, 8, "--____--"},
		{"shorter than steps", 8, 3, 0, 4, "-__-"},
		{"all pulses", 4, 9, 0, 6, "------"},
		{"no pulses", 4, 0, 0, 4, "____"},
		{"rotated", 4, 1, 1, 8, "__--____"},
		{"empty", 4, 2, 0, 0, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gates, err := Euclid(tc.steps, tc.pulses, tc.rotate, tc.length)
			require.NoError(t, err)
			assert.Equal(t, tc.want, RenderGates(gates, '-', '_'))
		})
	}
}

func TestEuclidErrors(t *testing.T) {
	_, err := Euclid(0, 0, 0, 24)
	assert.ErrorIs(t, err, ErrNoSteps)

	_, err = Euclid(4, 1, 0, -1)
	assert.Error(t, err)

	_, err = NewEuclideanGate(EuclidParams{Steps: 0, Length: 24})
	assert.ErrorIs(t, err, ErrNoSteps)
}

func TestDefaultPattern(t *testing.T) {
	p := DefaultPattern()
	assert.True(t, p.IsActive())
	assert.False(t, p.Inert())
	assert.Equal(t, uint8(1), p.Channel)
	assert.Equal(t, []uint8{60, 67, 69, 72}, p.Pitches.Values())
	assert.Equal(t, []uint8{100, 20}, p.Velocities.Values())
	assert.Equal(t, EuclidParams{Steps: 12, Pulses: 2, Length: PPQN}, p.Euclid)
	assert.Equal(t, "--__________--__________", p.Gate.String())
}
