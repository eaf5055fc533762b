package widgets

import "strings"

// RenderBar draws a width-cell bar filled to pos/total
func RenderBar(pos, total, width int, full, empty rune) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 0 {
		filled = pos * width / total
	}
	filled = min(max(filled, 0), width)
	return strings.Repeat(string(full), filled) + strings.Repeat(string(empty), width-filled)
}
