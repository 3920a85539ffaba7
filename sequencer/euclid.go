package sequencer

import (
	"errors"
	"fmt"
)

// PPQN is the tick resolution: pulses per quarter note.
const PPQN = 24

// ErrNoSteps is returned when a Euclidean rhythm is requested over zero steps.
var ErrNoSteps = errors.New("euclidean rhythm needs at least one step")

// EuclidParams describes a gate generated by Euclid.
type EuclidParams struct {
	Steps    uint8 `json:"steps"`
	Pulses   uint8 `json:"pulses"`
	Rotation uint8 `json:"rotation"`
	Length   int   `json:"length"` // ticks
}

func (p EuclidParams) String() string {
	return fmt.Sprintf("E(%d,%d)+%d/%dt", p.Pulses, p.Steps, p.Rotation, p.Length)
}

// Euclid distributes pulses as evenly as possible over steps using the bucket
// method and stretches the result to length ticks.
//
// The bucket starts full minus one pulse, so the first pulse always lands on
// step 0 before rotation: E(3,8) is x..x..x. rather than ..x..x.x.
// Rotation shifts the pattern right by that many steps.
//
// Each step covers length/steps ticks; when length is not a multiple of steps
// the trailing ticks repeat the pattern from its start. When length < steps
// every tick maps to one step.
func Euclid(steps, pulses, rotation uint8, length int) ([]bool, error) {
	if steps == 0 {
		return nil, ErrNoSteps
	}
	if length < 0 {
		return nil, fmt.Errorf("negative gate length %d", length)
	}

	n := int(steps)
	pattern := make([]bool, n)
	switch {
	case pulses >= steps:
		for i := range pattern {
			pattern[i] = true
		}
	case pulses > 0:
		k := int(pulses)
		bucket := n - k
		for i := 0; i < n; i++ {
			bucket += k
			if bucket >= n {
				bucket -= n
				pattern[(i+int(rotation))%n] = true
			}
		}
	}

	stepSize := length / n
	if stepSize == 0 {
		stepSize = 1
	}
	gates := make([]bool, length)
	for t := range gates {
		gates[t] = pattern[(t/stepSize)%n]
	}
	return gates, nil
}

// NewEuclideanGate builds a gate sequence from Euclidean parameters.
func NewEuclideanGate(p EuclidParams) (*GateSequence, error) {
	gates, err := Euclid(p.Steps, p.Pulses, p.Rotation, p.Length)
	if err != nil {
		return nil, err
	}
	return NewGateSequence(gates), nil
}
