package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-playerpiano/midi"
	"go-playerpiano/sequencer"
	"go-playerpiano/theme"
)

type silent struct{}

func (silent) NoteOn(channel, key, velocity uint8) error { return nil }
func (silent) NoteOff(channel, key uint8) error          { return nil }

func newTestModel(t *testing.T, tracks ...midi.Track) (Model, *bool) {
	t.Helper()
	song := &midi.Song{TicksPerQuarter: 480, Tracks: tracks}
	sched, err := sequencer.NewScheduler(song, silent{}, sequencer.DefaultOptions())
	require.NoError(t, err)

	cancelled := false
	m := NewModel(sequencer.NewPlayer(sched), func() { cancelled = true }, theme.New(theme.DefaultPalette()))
	return m, &cancelled
}

func TestQuitCancelsPlayback(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		m, cancelled := newTestModel(t, midi.Track{midi.OtherEvent(0)})
		next, cmd := m.Update(key)
		require.NotNil(t, cmd)
		assert.True(t, *cancelled, key.String())
		assert.Equal(t, "", next.View())
	}
}

func TestDoneQuits(t *testing.T) {
	m, cancelled := newTestModel(t, midi.Track{midi.OtherEvent(0)})
	_, cmd := m.Update(DoneMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, *cancelled)
}

func TestViewShowsPlayback(t *testing.T) {
	m, _ := newTestModel(t,
		midi.Track{midi.NoteOnEvent(0, 0, 60, 100), midi.NoteOffEvent(48, 0, 60)},
		nil,
	)
	m.Title = "prelude.mid"
	m.Failed = map[int]error{1: errors.New("empty track")}

	require.NoError(t, m.Player.Run(context.Background()))

	view := m.View()
	assert.Contains(t, view, "go-playerpiano")
	assert.Contains(t, view, "STOP")
	assert.Contains(t, view, "120.0bpm")
	assert.Contains(t, view, "prelude.mid")
	assert.Contains(t, view, "2/2 ✓")
	assert.Contains(t, view, "✗ empty track")
	assert.Contains(t, view, "fired:2")
	assert.Contains(t, view, "stop and quit")
	assert.Contains(t, view, "■ white key down")
	assert.Contains(t, view, "□ key up")
}

func TestHoverNamesKey(t *testing.T) {
	m, _ := newTestModel(t, midi.Track{midi.OtherEvent(0)})
	m.KeyWidth = 2
	m.View()

	top := m.bounds.keyboardTop
	next, _ := m.Update(tea.MouseMsg{X: 24, Y: top})
	view := next.View()
	assert.Contains(t, view, "key 12  A2  note 45")

	next, _ = next.Update(tea.MouseMsg{X: 24, Y: 0})
	assert.NotContains(t, next.View(), "note 45")
}

func TestUpdateMsgKeepsListening(t *testing.T) {
	m, _ := newTestModel(t, midi.Track{midi.OtherEvent(0)})
	_, cmd := m.Update(UpdateMsg{})
	assert.NotNil(t, cmd)
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00.0", formatElapsed(0))
	assert.Equal(t, "01:05.2", formatElapsed(65*time.Second+250*time.Millisecond))
	assert.True(t, strings.HasPrefix(formatElapsed(10*time.Minute), "10:"))
}
