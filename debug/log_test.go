package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Level: "info", Writer: &buf}))
	t.Cleanup(Close)

	Log("engine", "hidden %d", 1)
	Info("engine", "shown %d", 2)
	Warn("cursor", "careful")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "cat=engine")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "cat=cursor")
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Level: "debug", Writer: &buf}))
	t.Cleanup(Close)

	for i := 0; i < 7; i++ {
		LogEvery(3, "test", "burst")
	}
	assert.Equal(t, 3, strings.Count(buf.String(), "burst"), "calls 1, 4 and 7")

	buf.Reset()
	for i := 0; i < 2; i++ {
		WarnEvery(1, "test", "each")
	}
	assert.Equal(t, 2, strings.Count(buf.String(), "each"))
}

func TestInitBadLevel(t *testing.T) {
	assert.Error(t, Init(Options{Level: "loud"}))
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genseq.log")
	require.NoError(t, Init(Options{Level: "debug", File: path, MaxSizeMB: 1, MaxBackups: 1}))
	Log("midi", "to file")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
