package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"genseq/theme"
)

func TestRenderGateRow(t *testing.T) {
	th := theme.New(nil)
	row := GateRow{
		Gates:    []bool{true, true, false, false, true, false},
		Position: 2,
		Playing:  true,
		Group:    3,
	}
	assert.Equal(t, "■■▶ ·■·", ansi.Strip(RenderGateRow(th, row)))

	row.Playing = false
	assert.Equal(t, "■■· ·■·", ansi.Strip(RenderGateRow(th, row)))

	row.Playing, row.Position = true, 0
	assert.True(t, strings.HasPrefix(ansi.Strip(RenderGateRow(th, row)), "▣"))
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{{
		Title: "Transport",
		Keys:  []KeyBinding{{Key: "space", Desc: "play/stop"}},
	}})
	assert.Equal(t, "Transport\n  space        play/stop", out)
}
