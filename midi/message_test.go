package midi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestSplit(t *testing.T) {
	stream := []byte{
		0xFA,
		0x90, 60, 100,
		0x80, 60, // clock in the middle of a note-off
		0xF8,
		0,
		0xC1, 5,
		0xF0, 0x7E, 0x7F, 0xF7,
		0x40, // stray
		0xE0, 0, 64,
	}
	got := Split(stream)
	want := []gomidi.Message{
		{0xFA},
		{0x90, 60, 100},
		{0xF8},
		{0x80, 60, 0},
		{0xC1, 5},
		{0xF0, 0x7E, 0x7F, 0xF7},
		{0xE0, 0, 64},
	}
	assert.Equal(t, want, got)
}

func TestRecorderMessages(t *testing.T) {
	rec := &Recorder{}
	require.NoError(t, Emit(rec, gomidi.NoteOn(2, 64, 90)))
	require.NoError(t, Emit(rec, gomidi.NoteOff(2, 64)))

	msgs := rec.Messages()
	require.Len(t, msgs, 2)

	var ch, key, vel uint8
	assert.True(t, msgs[0].GetNoteOn(&ch, &key, &vel))
	assert.Equal(t, []uint8{2, 64, 90}, []uint8{ch, key, vel})
	assert.Equal(t, []byte{0x92, 64, 90, 0x82, 64, 0}, rec.Bytes())

	rec.Reset()
	assert.Empty(t, rec.Bytes())
}

func TestFuncEmitterAssemblesMessages(t *testing.T) {
	var sent []gomidi.Message
	p := NewFuncEmitter("test", func(msg gomidi.Message) error {
		sent = append(sent, msg)
		return nil
	})

	require.NoError(t, Emit(p, gomidi.NoteOn(0, 60, 100)))
	require.NoError(t, p.EmitByte(Start))
	require.Len(t, sent, 2)
	assert.Equal(t, gomidi.Message{0x90, 60, 100}, sent[0])
	assert.Equal(t, gomidi.Message{0xFA}, sent[1])

	assert.Error(t, p.EmitByte(0x10), "data byte without status")
}

func TestFuncEmitterWrapsErrors(t *testing.T) {
	boom := errors.New("port closed")
	p := NewFuncEmitter("synth", func(gomidi.Message) error { return boom })
	assert.ErrorIs(t, p.EmitByte(Stop), boom)
}

func TestLogEmitter(t *testing.T) {
	var l LogEmitter
	assert.NoError(t, Emit(&l, gomidi.NoteOn(0, 60, 100)))
	assert.NoError(t, l.EmitByte(0x22))
}

func TestFindOut(t *testing.T) {
	_, err := Ports{}.FindOut("anything")
	assert.ErrorIs(t, err, ErrPortNotFound)
}
