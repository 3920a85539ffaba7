// Package command is the control protocol between the front panel and the
// sequencer loop. A command travels as one 32-bit word:
//
//	byte 0  kind (ordinal below, 0 = Noop)
//	byte 1  param1
//	byte 2  param2
//	byte 3  reserved, always 0
//
// Ordinals are part of the wire format; append new kinds at the end.
package command

import "fmt"

// Kind identifies a command.
type Kind uint8

const (
	Noop Kind = iota
	Play
	Stop
	BPMSet
	PatternActivate
	PatternDeactivate
	PatternEuclidSteps
	PatternEuclidPulses
	PatternEuclidRotation
	PatternEuclidLength
)

var kindNames = [...]string{
	"noop",
	"play",
	"stop",
	"bpm_set",
	"pattern_activate",
	"pattern_deactivate",
	"pattern_euclid_steps",
	"pattern_euclid_pulses",
	"pattern_euclid_rotation",
	"pattern_euclid_length",
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return int(k) < len(kindNames) }

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Message is one decoded command.
type Message struct {
	Kind   Kind
	Param1 uint8
	Param2 uint8
}

func (m Message) String() string {
	return fmt.Sprintf("%s(%d,%d)", m.Kind, m.Param1, m.Param2)
}

// Encode packs the message into its transport word.
func (m Message) Encode() uint32 {
	return uint32(m.Kind) | uint32(m.Param1)<<8 | uint32(m.Param2)<<16
}

// Decode unpacks a transport word. The reserved byte is ignored.
func Decode(word uint32) Message {
	return Message{
		Kind:   Kind(word & 0xFF),
		Param1: uint8(word >> 8 & 0xFF),
		Param2: uint8(word >> 16 & 0xFF),
	}
}

// Reserved returns byte 3 of a transport word.
func Reserved(word uint32) uint8 {
	return uint8(word >> 24)
}

// Convenience constructors.

func PlayMsg() Message                 { return Message{Kind: Play} }
func StopMsg() Message                 { return Message{Kind: Stop} }
func BPM(bpm uint8) Message            { return Message{Kind: BPMSet, Param1: bpm} }
func Activate(pattern uint8) Message   { return Message{Kind: PatternActivate, Param1: pattern} }
func Deactivate(pattern uint8) Message { return Message{Kind: PatternDeactivate, Param1: pattern} }

// Euclid builds one of the four Euclidean edit commands.
func Euclid(kind Kind, pattern, value uint8) Message {
	return Message{Kind: kind, Param1: pattern, Param2: value}
}
