// Package ui is the front panel logic: a pure reducer from panel events to a
// new panel state plus the commands the sequencer should receive.
package ui

import (
	"fmt"

	"genseq/command"
)

const (
	MinBPM = 40
	MaxBPM = 255

	MaxSteps = 64
)

// View is the page the panel shows.
type View uint8

const (
	ViewMain View = iota
	ViewPattern
)

func (v View) String() string {
	if v == ViewPattern {
		return "PATTERN"
	}
	return "MAIN"
}

// Button is a physical button. A-F are the row of six, Encoder is the push
// switch of the rotary encoder.
type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonC
	ButtonD
	ButtonE
	ButtonF
	ButtonEncoder
)

func (b Button) String() string {
	if b == ButtonEncoder {
		return "ENC"
	}
	return string(rune('A' + b))
}

// Field is the Euclidean parameter the pattern page edits.
type Field uint8

const (
	FieldSteps Field = iota
	FieldPulses
	FieldRotation
	FieldLength
)

var fieldNames = [...]string{"steps", "pulses", "rotation", "length"}

func (f Field) String() string {
	if int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return fmt.Sprintf("field(%d)", uint8(f))
}

// Event is one of ButtonPressed, ButtonHeld or EncoderTurned.
type Event interface {
	event()
}

type ButtonPressed struct{ Button Button }
type ButtonHeld struct{ Button Button }
type EncoderTurned struct{ Delta int }

func (ButtonPressed) event() {}
func (ButtonHeld) event()    {}
func (EncoderTurned) event() {}

// PatternParams mirrors what the sequencer knows about one pattern.
type PatternParams struct {
	Active   bool
	Steps    uint8
	Pulses   uint8
	Rotation uint8
	Length   uint8
}

// State is the whole panel state. Reduce never mutates the State it is given.
type State struct {
	View     View
	Playing  bool
	BPM      uint8
	Selected int // pattern on the pattern page
	Field    Field
	Patterns []PatternParams
}

// Reduce applies ev and returns the next state with the commands to send, in
// order.
func Reduce(s State, ev Event) (State, []command.Message) {
	s.Patterns = append([]PatternParams(nil), s.Patterns...)

	switch ev := ev.(type) {
	case ButtonPressed:
		if ev.Button == ButtonEncoder {
			return togglePlay(s)
		}
		if s.View == ViewMain {
			return togglePattern(s, int(ev.Button))
		}
		return patternButton(s, ev.Button), nil

	case ButtonHeld:
		if ev.Button != ButtonEncoder {
			return s, nil
		}
		if s.View == ViewMain {
			s.View = ViewPattern
			if s.Selected >= len(s.Patterns) {
				s.Selected = 0
			}
		} else {
			s.View = ViewMain
		}
		return s, nil

	case EncoderTurned:
		if ev.Delta == 0 {
			return s, nil
		}
		if s.View == ViewMain {
			return turnBPM(s, ev.Delta)
		}
		return turnField(s, ev.Delta)
	}
	return s, nil
}

func togglePlay(s State) (State, []command.Message) {
	s.Playing = !s.Playing
	if s.Playing {
		return s, []command.Message{command.PlayMsg()}
	}
	return s, []command.Message{command.StopMsg()}
}

func togglePattern(s State, i int) (State, []command.Message) {
	if i >= len(s.Patterns) {
		return s, nil
	}
	s.Patterns[i].Active = !s.Patterns[i].Active
	if s.Patterns[i].Active {
		return s, []command.Message{command.Activate(uint8(i))}
	}
	return s, []command.Message{command.Deactivate(uint8(i))}
}

func turnBPM(s State, delta int) (State, []command.Message) {
	bpm := clamp(int(s.BPM)+delta, MinBPM, MaxBPM)
	if bpm == int(s.BPM) {
		return s, nil
	}
	s.BPM = uint8(bpm)
	return s, []command.Message{command.BPM(s.BPM)}
}

func patternButton(s State, b Button) State {
	switch {
	case b <= ButtonD:
		s.Field = Field(b)
	case len(s.Patterns) == 0:
	case b == ButtonE:
		s.Selected = (s.Selected - 1 + len(s.Patterns)) % len(s.Patterns)
	case b == ButtonF:
		s.Selected = (s.Selected + 1) % len(s.Patterns)
	}
	return s
}

func turnField(s State, delta int) (State, []command.Message) {
	if s.Selected < 0 || s.Selected >= len(s.Patterns) {
		return s, nil
	}
	old := s.Patterns[s.Selected]
	p := old

	switch s.Field {
	case FieldSteps:
		p.Steps = uint8(clamp(int(p.Steps)+delta, 1, MaxSteps))
	case FieldPulses:
		p.Pulses = uint8(clamp(int(p.Pulses)+delta, 0, int(p.Steps)))
	case FieldRotation:
		p.Rotation = uint8(clamp(int(p.Rotation)+delta, 0, int(p.Steps)-1))
	case FieldLength:
		p.Length = uint8(clamp(int(p.Length)+delta, 1, 255))
	}
	// pulses and rotation follow a shrinking step count
	p.Pulses = uint8(clamp(int(p.Pulses), 0, int(p.Steps)))
	p.Rotation = uint8(clamp(int(p.Rotation), 0, max(int(p.Steps)-1, 0)))
	s.Patterns[s.Selected] = p

	idx := uint8(s.Selected)
	var cmds []command.Message
	if p.Steps != old.Steps {
		cmds = append(cmds, command.Euclid(command.PatternEuclidSteps, idx, p.Steps))
	}
	if p.Pulses != old.Pulses {
		cmds = append(cmds, command.Euclid(command.PatternEuclidPulses, idx, p.Pulses))
	}
	if p.Rotation != old.Rotation {
		cmds = append(cmds, command.Euclid(command.PatternEuclidRotation, idx, p.Rotation))
	}
	if p.Length != old.Length {
		cmds = append(cmds, command.Euclid(command.PatternEuclidLength, idx, p.Length))
	}
	return s, cmds
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}
