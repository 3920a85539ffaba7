package midi

import (
	"errors"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI status bytes
const (
	NoteOff uint8 = 0x80
	NoteOn  uint8 = 0x90
	CC      uint8 = 0xB0

	TimingClock uint8 = 0xF8
	Start       uint8 = 0xFA
	Continue    uint8 = 0xFB
	Stop        uint8 = 0xFC
)

// BaudRate is the MIDI 1.0 serial line rate.
const BaudRate = 31250

// Emitter accepts raw MIDI bytes, one protocol byte per call.
type Emitter interface {
	EmitByte(b byte) error
}

// Emit writes every byte of msg, stopping at the first failure.
func Emit(e Emitter, msg gomidi.Message) error {
	for _, b := range msg {
		if err := e.EmitByte(b); err != nil {
			return err
		}
	}
	return nil
}

// errSysEx marks a status byte whose length is only known at 0xF7.
var errSysEx = errors.New("variable length")

// messageLen returns how many bytes a message starting with status occupies.
func messageLen(status byte) (int, error) {
	switch {
	case status < 0x80:
		return 0, errors.New("not a status byte")
	case status < 0xC0, status >= 0xE0 && status < 0xF0:
		return 3, nil
	case status < 0xE0:
		return 2, nil
	case status == 0xF0:
		return 0, errSysEx
	case status == 0xF1, status == 0xF3:
		return 2, nil
	case status == 0xF2:
		return 3, nil
	default:
		return 1, nil
	}
}

// assembler turns a byte stream back into whole messages. Real-time bytes
// (0xF8-0xFF) may arrive between the bytes of another message and are
// returned on their own. Running status is not used by the sequencer and not
// supported here.
type assembler struct {
	pending []byte
	need    int // 0 = SysEx, wait for 0xF7
}

// push adds one byte and returns a message when one is complete. Stray data
// bytes are reported through dropped.
func (a *assembler) push(b byte) (msg gomidi.Message, dropped bool) {
	if b >= 0xF8 {
		return gomidi.Message{b}, false
	}
	if b&0x80 != 0 && !(b == 0xF7 && a.need == 0 && len(a.pending) > 0) {
		n, err := messageLen(b)
		switch {
		case errors.Is(err, errSysEx):
			a.pending = append(a.pending[:0], b)
			a.need = 0
			return nil, false
		case n == 1:
			a.pending = a.pending[:0]
			return gomidi.Message{b}, false
		default:
			a.pending = append(a.pending[:0], b)
			a.need = n
			return nil, false
		}
	}
	if len(a.pending) == 0 {
		return nil, true
	}
	a.pending = append(a.pending, b)
	if (a.need == 0 && b == 0xF7) || (a.need > 0 && len(a.pending) == a.need) {
		out := append(gomidi.Message(nil), a.pending...)
		a.pending = a.pending[:0]
		return out, false
	}
	return nil, false
}

// Split parses a byte stream into messages.
func Split(stream []byte) []gomidi.Message {
	var a assembler
	var out []gomidi.Message
	for _, b := range stream {
		if msg, _ := a.push(b); msg != nil {
			out = append(out, msg)
		}
	}
	return out
}
