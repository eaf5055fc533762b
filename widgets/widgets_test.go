package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBlackKey(t *testing.T) {
	var black []int
	for i := 0; i < 24; i++ {
		if IsBlackKey(i) {
			black = append(black, i)
		}
	}
	assert.Equal(t, []int{1, 4, 6, 9, 11, 13, 16, 18, 21, 23}, black)
	assert.False(t, IsBlackKey(87))
}

func TestNoteName(t *testing.T) {
	assert.Equal(t, "A1", NoteName(33))
	assert.Equal(t, "A3", NoteName(57))
	assert.Equal(t, "C4", NoteName(60))
	assert.Equal(t, "C9", NoteName(120))
	assert.Equal(t, "C-1", NoteName(0))
}

func TestCell(t *testing.T) {
	assert.Equal(t, CellWhite, Cell(0, false))
	assert.Equal(t, CellWhitePressed, Cell(0, true))
	assert.Equal(t, CellBlack, Cell(1, false))
	assert.Equal(t, CellBlackPressed, Cell(1, true))
}

func TestRenderKeyboardShape(t *testing.T) {
	keys := make([]bool, 88)
	keys[12] = true

	for _, width := range []int{1, 2} {
		out := RenderKeyboard(keys, width, KeyColors{
			BG:           lipgloss.Color("#646464"),
			White:        lipgloss.Color("#ffffff"),
			Black:        lipgloss.Color("#000000"),
			WhitePressed: lipgloss.Color("#c81e1e"),
			BlackPressed: lipgloss.Color("#1ec81e"),
		})
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 3)
		for _, line := range lines {
			assert.Equal(t, 88*width, lipgloss.Width(line))
		}
	}
}

func TestRenderBar(t *testing.T) {
	assert.Equal(t, "##--", RenderBar(1, 2, 4, '#', '-'))
	assert.Equal(t, "----", RenderBar(0, 0, 4, '#', '-'))
	assert.Equal(t, "####", RenderBar(9, 3, 4, '#', '-'))
	assert.Equal(t, "", RenderBar(1, 2, 0, '#', '-'))
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{{
		Title: "Playback",
		Keys:  []KeyBinding{{Key: "q", Desc: "quit"}},
	}})
	assert.Equal(t, "Playback\n  q            quit", out)
}

func TestRenderLegendItemUsesGlyph(t *testing.T) {
	assert.Contains(t, RenderLegendItem(lipgloss.Color("#ffffff"), '□', "key up"), "□ key up")
	assert.Contains(t, RenderSwatch(lipgloss.Color("#000000"), '■'), "■")
}
