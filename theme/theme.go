package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Help widget
	Solid rune // ■ active
	Empty rune // □ inactive

	// Track progress bar
	BarFull  rune // █ played
	BarEmpty rune // ░ remaining
	Done     rune // ✓ track exhausted
	Failed   rune // ✗ track failed to decode
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Solid: '■',
			Empty: '□',

			BarFull:  '█',
			BarEmpty: '░',
			Done:     '✓',
			Failed:   '✗',
		},
	}
}

// Color roles mapped to palette indices
const (
	RoleBG = iota
	RoleWhiteKey
	RoleBlackKey
	RoleWhitePressed
	RoleBlackPressed
	RoleFG
	RoleMuted
	RoleAccent
	RoleWarning
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return t.Role(RoleBG)
}

func (t *Theme) FG() lipgloss.Color {
	return t.Role(RoleFG)
}

func (t *Theme) Accent() lipgloss.Color {
	return t.Role(RoleAccent)
}

func (t *Theme) Muted() lipgloss.Color {
	return t.Role(RoleMuted)
}

func (t *Theme) Warning() lipgloss.Color {
	return t.Role(RoleWarning)
}

// Role returns the lipgloss color of a palette role
func (t *Theme) Role(role int) lipgloss.Color {
	return RGBToLipgloss(t.Palette.Index(role))
}

// Progress returns a color between muted (0) and accent (1)
func (t *Theme) Progress(norm float64) lipgloss.Color {
	return RGBToLipgloss(Mix(t.Palette.Index(RoleMuted), t.Palette.Index(RoleAccent), norm))
}

func RGBToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
