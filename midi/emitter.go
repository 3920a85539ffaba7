package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"go.bug.st/serial"

	"genseq/debug"
)

// Recorder keeps every emitted byte in memory.
type Recorder struct {
	mu  sync.Mutex
	buf []byte
}

func (r *Recorder) EmitByte(b byte) error {
	r.mu.Lock()
	r.buf = append(r.buf, b)
	r.mu.Unlock()
	return nil
}

// Bytes returns a copy of everything emitted so far.
func (r *Recorder) Bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.buf...)
}

// Messages parses the recorded stream.
func (r *Recorder) Messages() []gomidi.Message {
	return Split(r.Bytes())
}

// Reset forgets the recorded bytes.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.buf = r.buf[:0]
	r.mu.Unlock()
}

// SerialEmitter writes to a UART, the way the hardware sends MIDI.
type SerialEmitter struct {
	port   serial.Port
	device string
}

// OpenSerial opens the named serial device. baud 0 means the MIDI rate.
func OpenSerial(device string, baud int) (*SerialEmitter, error) {
	if baud == 0 {
		baud = BaudRate
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	debug.Info("midi", "serial port %s opened at %d baud", device, baud)
	return &SerialEmitter{port: p, device: device}, nil
}

func (s *SerialEmitter) EmitByte(b byte) error {
	if _, err := s.port.Write([]byte{b}); err != nil {
		return fmt.Errorf("serial %s: %w", s.device, err)
	}
	return nil
}

func (s *SerialEmitter) Close() error {
	debug.Info("midi", "closing serial port %s", s.device)
	return s.port.Close()
}

// PortEmitter regroups bytes into messages and hands them to an OS MIDI port,
// which only accepts whole messages.
type PortEmitter struct {
	name string
	send func(msg gomidi.Message) error
	asm  assembler
}

// NewPortEmitter opens out for sending.
func NewPortEmitter(out drivers.Out) (*PortEmitter, error) {
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open port %s: %w", out.String(), err)
	}
	return &PortEmitter{name: out.String(), send: send}, nil
}

// NewFuncEmitter sends assembled messages to fn.
func NewFuncEmitter(name string, fn func(msg gomidi.Message) error) *PortEmitter {
	return &PortEmitter{name: name, send: fn}
}

func (p *PortEmitter) EmitByte(b byte) error {
	msg, dropped := p.asm.push(b)
	if dropped {
		return fmt.Errorf("port %s: data byte 0x%02x without status", p.name, b)
	}
	if msg == nil {
		return nil
	}
	if err := p.send(msg); err != nil {
		return fmt.Errorf("port %s: %w", p.name, err)
	}
	return nil
}

// LogEmitter prints each assembled message to the debug log. Used when no
// MIDI hardware is attached.
type LogEmitter struct {
	asm assembler
}

func (l *LogEmitter) EmitByte(b byte) error {
	msg, dropped := l.asm.push(b)
	if dropped {
		debug.Warn("midi", "stray data byte 0x%02x", b)
		return nil
	}
	if msg != nil {
		debug.Info("midi", "% X  %s", []byte(msg), msg.String())
	}
	return nil
}
