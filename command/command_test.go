package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeLayout(t *testing.T) {
	m := Message{Kind: BPMSet, Param1: 0x78, Param2: 0x05}
	assert.Equal(t, uint32(0x00057803), m.Encode())
	assert.Equal(t, uint32(0), Message{}.Encode(), "zero word is Noop")
}

func TestDecodeRoundTrip(t *testing.T) {
	for _, m := range []Message{
		PlayMsg(),
		StopMsg(),
		BPM(255),
		Activate(3),
		Deactivate(0),
		Euclid(PatternEuclidLength, 2, 96),
	} {
		assert.Equal(t, m, Decode(m.Encode()), m.String())
	}
}

func TestDecodeIgnoresReserved(t *testing.T) {
	word := uint32(0xAB000102)
	assert.Equal(t, Message{Kind: Stop, Param1: 1}, Decode(word))
	assert.Equal(t, uint8(0xAB), Reserved(word))
}

func TestKindOrdinals(t *testing.T) {
	assert.Equal(t, Kind(0), Noop)
	assert.Equal(t, Kind(5), PatternDeactivate)
	assert.Equal(t, Kind(9), PatternEuclidLength)
	assert.Equal(t, "pattern_euclid_rotation", PatternEuclidRotation.String())
	assert.Equal(t, "kind(10)", Kind(10).String())
	assert.False(t, Kind(10).Valid())
}

func TestChannelTryReceiveEmpty(t *testing.T) {
	c := NewChannel()
	_, ok := c.TryReceive()
	assert.False(t, ok)
	assert.False(t, c.Pending())
}

func TestChannelBackpressure(t *testing.T) {
	c := NewChannel()
	c.Send(BPM(90))
	require.True(t, c.Pending())

	done := make(chan struct{})
	go func() {
		c.Send(PlayMsg())
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second send returned while the slot was full")
	case <-time.After(50 * time.Millisecond):
	}

	m, ok := c.TryReceive()
	require.True(t, ok)
	assert.Equal(t, BPM(90), m)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second send still blocked after the slot was drained")
	}

	m, ok = c.TryReceive()
	require.True(t, ok)
	assert.Equal(t, PlayMsg(), m)
}

func TestChannelSendContext(t *testing.T) {
	c := NewChannel()
	require.NoError(t, c.SendContext(context.Background(), StopMsg()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.SendContext(ctx, PlayMsg()), context.DeadlineExceeded)

	m, ok := c.TryReceive()
	require.True(t, ok)
	assert.Equal(t, StopMsg(), m)
	_, ok = c.TryReceive()
	assert.False(t, ok, "a cancelled send leaves nothing behind")
}
