package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"genseq/theme"
)

// RenderCell renders one glyph in a palette colour
func RenderCell(color theme.RGB, glyph rune) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render(string(glyph))
}

// GateRow describes one pattern's gate for display.
type GateRow struct {
	Gates    []bool
	Position int  // tick the engine evaluates next
	Playing  bool // draw the playhead
	Group    int  // ticks per space-separated group, 0 = no grouping
}

// RenderGateRow draws one cell per tick. Open gates use the accent colour,
// the playhead the cursor colour.
func RenderGateRow(th *theme.Theme, row GateRow) string {
	var out strings.Builder
	for i, g := range row.Gates {
		if row.Group > 0 && i > 0 && i%row.Group == 0 {
			out.WriteString(" ")
		}
		switch {
		case row.Playing && i == row.Position && g:
			out.WriteString(RenderCell(th.Palette.Lookup(theme.RoleSuccess), th.Symbols.PlayHigh))
		case row.Playing && i == row.Position:
			out.WriteString(RenderCell(th.Palette.Lookup(theme.RoleCursor), th.Symbols.Playhead))
		case g:
			out.WriteString(RenderCell(th.Palette.Lookup(theme.RoleAccent), th.Symbols.GateHigh))
		default:
			out.WriteString(RenderCell(th.Palette.Lookup(theme.RoleMuted), th.Symbols.GateLow))
		}
	}
	return out.String()
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func rgbToHex(c theme.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
