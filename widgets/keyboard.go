package widgets

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// IsBlackKey reports whether keyboard index i is a black key.
// Index 0 is an A, so the pattern starts at A.
func IsBlackKey(i int) bool {
	switch i % 12 {
	case 1, 4, 6, 9, 11:
		return true
	}
	return false
}

// NoteName returns a name like "A4" for a MIDI note number
func NoteName(note uint8) string {
	return noteNames[note%12] + strconv.Itoa(int(note)/12-1)
}

// KeyCell is the visual state of one key
type KeyCell int

const (
	CellWhite KeyCell = iota
	CellBlack
	CellWhitePressed
	CellBlackPressed
)

// Cell returns the state of keyboard index i
func Cell(i int, pressed bool) KeyCell {
	black := IsBlackKey(i)
	switch {
	case black && pressed:
		return CellBlackPressed
	case black:
		return CellBlack
	case pressed:
		return CellWhitePressed
	default:
		return CellWhite
	}
}

// KeyColors are the fill colors of each cell state
type KeyColors struct {
	BG           lipgloss.Color
	White        lipgloss.Color
	Black        lipgloss.Color
	WhitePressed lipgloss.Color
	BlackPressed lipgloss.Color
}

func (c KeyColors) fill(cell KeyCell) lipgloss.Color {
	switch cell {
	case CellBlack:
		return c.Black
	case CellWhitePressed:
		return c.WhitePressed
	case CellBlackPressed:
		return c.BlackPressed
	default:
		return c.White
	}
}

// RenderKeyboard draws one column per key, width cells wide.
// Black keys are short: the bottom row shows the background under them.
func RenderKeyboard(keys []bool, width int, colors KeyColors) string {
	if width < 1 {
		width = 1
	}
	pad := strings.Repeat(" ", width)

	var upper, lower strings.Builder
	for i, pressed := range keys {
		cell := Cell(i, pressed)
		block := lipgloss.NewStyle().Background(colors.fill(cell)).Render(pad)
		upper.WriteString(block)
		if IsBlackKey(i) {
			lower.WriteString(lipgloss.NewStyle().Background(colors.BG).Render(pad))
		} else {
			lower.WriteString(block)
		}
	}

	row := upper.String()
	return strings.Join([]string{row, row, lower.String()}, "\n")
}
