package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderSwatch renders a single colored glyph
func RenderSwatch(color lipgloss.Color, glyph rune) string {
	return lipgloss.NewStyle().Foreground(color).Render(string(glyph))
}

// RenderLegendItem renders a single legend item: "■ name"
func RenderLegendItem(color lipgloss.Color, glyph rune, name string) string {
	return fmt.Sprintf("%s %s", RenderSwatch(color, glyph), name)
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
