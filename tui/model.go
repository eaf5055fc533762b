package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-playerpiano/sequencer"
	"go-playerpiano/theme"
	"go-playerpiano/widgets"
)

const barWidth = 24

// layoutBounds holds cached layout info
type layoutBounds struct {
	keyboardTop    int
	keyboardHeight int
}

type Model struct {
	Player    *sequencer.Player
	Theme     *theme.Theme
	Title     string
	Failed    map[int]error // tracks that did not decode
	KeyWidth  int
	KeyOffset int

	cancel   context.CancelFunc
	quitting bool
	tooltip  string
	bounds   *layoutBounds
}

type UpdateMsg struct{}

// DoneMsg arrives once the player has stopped
type DoneMsg struct {
	Err error
}

func NewModel(player *sequencer.Player, cancel context.CancelFunc, th *theme.Theme) Model {
	return Model{
		Player:    player,
		Theme:     th,
		KeyWidth:  1,
		KeyOffset: sequencer.DefaultKeyOffset,
		cancel:    cancel,
		bounds:    &layoutBounds{},
	}
}

func ListenForUpdates(player *sequencer.Player) tea.Cmd {
	return func() tea.Msg {
		<-player.UpdateChan
		return UpdateMsg{}
	}
}

func WaitForDone(player *sequencer.Player) tea.Cmd {
	return func() tea.Msg {
		<-player.Done()
		return DoneMsg{Err: player.Err()}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Player),
		WaitForDone(m.Player),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.MouseMsg:
		m.tooltip = m.hitTest(msg.X, msg.Y)

	case UpdateMsg:
		return m, ListenForUpdates(m.Player)

	case DoneMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// hitTest names the key under the mouse
func (m Model) hitTest(x, y int) string {
	if y < m.bounds.keyboardTop || y >= m.bounds.keyboardTop+m.bounds.keyboardHeight {
		return ""
	}
	idx := x / max(m.KeyWidth, 1)
	if idx < 0 || idx >= sequencer.NumKeys {
		return ""
	}
	note := idx + m.KeyOffset
	if note > 127 {
		return ""
	}
	return fmt.Sprintf("key %d  %s  note %d", idx, widgets.NoteName(uint8(note)), note)
}

func (m Model) keyColors() widgets.KeyColors {
	return widgets.KeyColors{
		BG:           m.Theme.Role(theme.RoleBG),
		White:        m.Theme.Role(theme.RoleWhiteKey),
		Black:        m.Theme.Role(theme.RoleBlackKey),
		WhitePressed: m.Theme.Role(theme.RoleWhitePressed),
		BlackPressed: m.Theme.Role(theme.RoleBlackPressed),
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Player.Status()
	keys := m.Player.Snapshot()

	// Styles
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())
	tooltipStyle := lipgloss.NewStyle().
		Foreground(m.Theme.FG()).
		Background(m.Theme.Muted()).
		Padding(0, 1)

	header := headerStyle.Render(fmt.Sprintf("go-playerpiano  %s  %5.1fbpm  %s  %s",
		st.State, st.BPM, formatElapsed(st.Elapsed), m.Title))

	keyboard := widgets.RenderKeyboard(keys[:], m.KeyWidth, m.keyColors())

	// Compute layout bounds
	m.bounds.keyboardTop = 1 + lipgloss.Height(header) + 1
	m.bounds.keyboardHeight = lipgloss.Height(keyboard)

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(keyboard)
	out.WriteString("\n\n")
	out.WriteString(m.renderTracks(st))
	out.WriteString("\n")

	stats := fmt.Sprintf("fired:%d  sounding:%d  dropped:%d", st.Fired, st.Sounding, st.Dropped)
	out.WriteString(dimStyle.Render(stats))
	if st.SinkErrors > 0 {
		out.WriteString("  ")
		out.WriteString(warnStyle.Render(fmt.Sprintf("synth errors:%d (%v)", st.SinkErrors, st.LastSinkErr)))
	}

	colors := m.keyColors()
	sym := m.Theme.Symbols
	legend := widgets.RenderLegendItem(colors.WhitePressed, sym.Solid, "white key down") + "  " +
		widgets.RenderLegendItem(colors.BlackPressed, sym.Solid, "black key down") + "  " +
		widgets.RenderLegendItem(colors.White, sym.Empty, "key up")
	help := widgets.RenderKeyHelp([]widgets.KeySection{{
		Keys: []widgets.KeyBinding{
			{Key: "q / esc", Desc: "stop and quit"},
			{Key: "mouse", Desc: "name the key under the pointer"},
		},
	}})

	out.WriteString("\n\n")
	out.WriteString(legend)
	out.WriteString("\n")
	out.WriteString(dimStyle.Render(help))

	if m.tooltip != "" {
		out.WriteString("\n")
		out.WriteString(tooltipStyle.Render(m.tooltip))
	}

	return out.String()
}

func (m Model) renderTracks(st sequencer.Status) string {
	sym := m.Theme.Symbols
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	var lines []string
	for i, tr := range st.Tracks {
		label := fmt.Sprintf("T%-2d ", i+1)
		if err, failed := m.Failed[i]; failed {
			lines = append(lines, label+warnStyle.Render(fmt.Sprintf("%c %v", sym.Failed, err)))
			continue
		}

		frac := 0.0
		if tr.Len > 0 {
			frac = float64(tr.Position) / float64(tr.Len)
		}
		bar := lipgloss.NewStyle().Foreground(m.Theme.Progress(frac)).
			Render(widgets.RenderBar(tr.Position, tr.Len, barWidth, sym.BarFull, sym.BarEmpty))
		line := fmt.Sprintf("%s%s %d/%d", label, bar, tr.Position, tr.Len)
		if tr.Exhausted {
			line += fmt.Sprintf(" %c", sym.Done)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(100 * time.Millisecond)
	mins := int(d / time.Minute)
	sec := (d % time.Minute).Seconds()
	return fmt.Sprintf("%02d:%04.1f", mins, sec)
}
