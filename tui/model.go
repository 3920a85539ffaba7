package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"genseq/command"
	"genseq/debug"
	"genseq/sequencer"
	"genseq/theme"
	"genseq/ui"
	"genseq/widgets"
)

// Model is the terminal front panel. Keys become panel events, the reducer
// turns them into commands, and the engine's snapshots drive the display.
type Model struct {
	Theme *theme.Theme

	sender   command.Sender
	updates  <-chan sequencer.State
	panel    ui.State
	snap     sequencer.State
	quitting bool
}

type SnapshotMsg sequencer.State

// NewModel builds the panel from the engine's initial snapshot.
func NewModel(sender command.Sender, updates <-chan sequencer.State, initial sequencer.State, th *theme.Theme) Model {
	return Model{
		Theme:   th,
		sender:  sender,
		updates: updates,
		panel:   PanelState(initial),
		snap:    initial,
	}
}

// PanelState derives the reducer state from an engine snapshot.
func PanelState(s sequencer.State) ui.State {
	panel := ui.State{
		Playing:  s.Playing,
		BPM:      uint8(min(max(int(s.BPM), ui.MinBPM), ui.MaxBPM)),
		Patterns: make([]ui.PatternParams, len(s.Patterns)),
	}
	for i, p := range s.Patterns {
		panel.Patterns[i] = ui.PatternParams{
			Active:   p.Active,
			Steps:    p.Euclid.Steps,
			Pulses:   p.Euclid.Pulses,
			Rotation: p.Euclid.Rotation,
			Length:   uint8(min(p.Euclid.Length, 255)),
		}
	}
	return panel
}

func ListenForUpdates(updates <-chan sequencer.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return nil
		}
		return SnapshotMsg(s)
	}
}

func (m Model) Init() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	return ListenForUpdates(m.updates)
}

// Panel returns the reducer state.
func (m Model) Panel() ui.State { return m.panel }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "q" || key == "ctrl+c" {
			m.quitting = true
			m.sender.Send(command.StopMsg())
			return m, tea.Quit
		}
		if ev := keyEvent(key); ev != nil {
			m.dispatch(ev)
		}

	case SnapshotMsg:
		m.snap = sequencer.State(msg)
		return m, ListenForUpdates(m.updates)
	}

	return m, nil
}

func (m *Model) dispatch(ev ui.Event) {
	var cmds []command.Message
	m.panel, cmds = ui.Reduce(m.panel, ev)
	for _, c := range cmds {
		debug.Log("tui", "%T -> %s", ev, c)
		m.sender.Send(c)
	}
}

// keyEvent maps the keyboard onto the front panel.
func keyEvent(key string) ui.Event {
	switch key {
	case " ", "enter":
		return ui.ButtonPressed{Button: ui.ButtonEncoder}
	case "tab":
		return ui.ButtonHeld{Button: ui.ButtonEncoder}
	case "left", "-", "_":
		return ui.EncoderTurned{Delta: -1}
	case "right", "+", "=":
		return ui.EncoderTurned{Delta: 1}
	case "down":
		return ui.EncoderTurned{Delta: -10}
	case "up":
		return ui.EncoderTurned{Delta: 10}
	case "a", "b", "c", "d", "e", "f":
		return ui.ButtonPressed{Button: ui.Button(key[0] - 'a')}
	}
	return nil
}

var keyHelp = map[ui.View][]widgets.KeySection{
	ui.ViewMain: {{
		Keys: []widgets.KeyBinding{
			{Key: "space", Desc: "play/stop"},
			{Key: "←/→ ↓/↑", Desc: "tempo"},
			{Key: "a-f", Desc: "toggle pattern"},
			{Key: "tab", Desc: "pattern page"},
			{Key: "q", Desc: "quit"},
		},
	}},
	ui.ViewPattern: {{
		Keys: []widgets.KeyBinding{
			{Key: "a-d", Desc: "steps/pulses/rotation/length"},
			{Key: "e/f", Desc: "previous/next pattern"},
			{Key: "←/→ ↓/↑", Desc: "edit value"},
			{Key: "tab", Desc: "main page"},
		},
	}},
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	fgStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	selStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor()).Bold(true)

	playState := "STOP"
	if m.snap.Playing {
		playState = "PLAY"
	}
	header := headerStyle.Render(fmt.Sprintf("genseq  %s  %3dbpm  notes:%d  %s",
		playState, m.snap.BPM, m.snap.ActiveNotes, m.panel.View))

	var rows []string
	for i, p := range m.snap.Patterns {
		mark := m.Theme.Symbols.PatternOff
		if p.Active {
			mark = m.Theme.Symbols.PatternOn
		}
		sel := " "
		if m.panel.View == ui.ViewPattern && i == m.panel.Selected {
			sel = string(m.Theme.Symbols.Selected)
		}
		label := fmt.Sprintf("%s%c %c ch%02d", sel, 'A'+i, mark, p.Channel)
		if i < 6 {
			label = fgStyle.Render(label)
		} else {
			label = dimStyle.Render(label)
		}

		gate := widgets.RenderGateRow(m.Theme, widgets.GateRow{
			Gates:    p.Gates,
			Position: p.GatePos,
			Playing:  m.snap.Playing && p.Active,
			Group:    sequencer.PPQN / 4,
		})
		note := dimStyle.Render(fmt.Sprintf("%3d/%3d", p.Pitch, p.Velocity))
		rows = append(rows, fmt.Sprintf("%s  %s  %s", label, note, gate))
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(strings.Join(rows, "\n"))
	out.WriteString("\n")

	if m.panel.View == ui.ViewPattern && m.panel.Selected < len(m.panel.Patterns) {
		p := m.panel.Patterns[m.panel.Selected]
		values := []uint8{p.Steps, p.Pulses, p.Rotation, p.Length}
		var fields []string
		for f, v := range values {
			text := fmt.Sprintf("%s:%d", ui.Field(f), v)
			if ui.Field(f) == m.panel.Field {
				text = selStyle.Render(text)
			} else {
				text = fgStyle.Render(text)
			}
			fields = append(fields, text)
		}
		out.WriteString("\n ")
		out.WriteString(strings.Join(fields, "  "))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(keyHelp[m.panel.View])))
	return out.String()
}
