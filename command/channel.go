package command

import (
	"context"

	"genseq/debug"
)

// Sender is the producer side of a command channel.
type Sender interface {
	Send(m Message)
}

// Receiver is the consumer side of a command channel.
type Receiver interface {
	TryReceive() (Message, bool)
}

// Channel is a single-slot, single-producer/single-consumer queue of encoded
// commands. Send blocks while the slot is occupied; TryReceive never blocks.
type Channel struct {
	slot chan uint32
}

// NewChannel creates an empty channel.
func NewChannel() *Channel {
	return &Channel{slot: make(chan uint32, 1)}
}

// Send encodes m and waits for the slot to be free.
func (c *Channel) Send(m Message) {
	debug.Log("command", "send %s", m)
	c.slot <- m.Encode()
}

// SendContext is Send with a way out for a producer that is shutting down.
func (c *Channel) SendContext(ctx context.Context, m Message) error {
	debug.Log("command", "send %s", m)
	select {
	case c.slot <- m.Encode():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryReceive takes the pending command, if any.
func (c *Channel) TryReceive() (Message, bool) {
	select {
	case word := <-c.slot:
		if r := Reserved(word); r != 0 {
			debug.Warn("command", "reserved byte set (0x%02x) in word 0x%08x", r, word)
		}
		m := Decode(word)
		debug.Log("command", "receive %s", m)
		return m, true
	default:
		return Message{}, false
	}
}

// Pending reports whether a command is waiting in the slot.
func (c *Channel) Pending() bool {
	return len(c.slot) > 0
}
