package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// renderModal draws card centred over base, which is first fitted to
// width x height. Styling of the card is up to the caller.
func renderModal(base, card string, width, height int) string {
	if width <= 0 || height <= 0 {
		return card
	}
	canvas := fitCanvas(base, width, height)
	cardLines := splitLines(card, 0)
	cardWidth := maxWidth(cardLines)
	if cardWidth == 0 {
		return canvas
	}
	x := max(0, (width-cardWidth)/2)
	y := max(0, (height-len(cardLines))/2)
	return overlayAt(canvas, cardLines, cardWidth, x, y, width, height)
}

func overlayAt(base string, card []string, cardWidth, x, y, width, height int) string {
	rows := splitLines(base, height)
	for i, line := range card {
		row := y + i
		if row < 0 || row >= len(rows) {
			continue
		}
		target := padANSI(rows[row], width)
		left := ansi.Truncate(target, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		mid := padANSI(line, cardWidth)
		end := x + ansi.StringWidth(mid)
		right := ""
		if end < width {
			right = dropColumns(target, end)
			if gap := width - end - ansi.StringWidth(right); gap > 0 {
				right = strings.Repeat(" ", gap) + right
			}
		}
		rows[row] = left + mid + right
	}
	return strings.Join(rows, "\n")
}

func fitCanvas(s string, width, height int) string {
	lines := splitLines(s, height)
	for i := range lines {
		lines[i] = padANSI(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

// splitLines splits s and, when height > 0, cuts or pads to height lines.
func splitLines(s string, height int) []string {
	lines := strings.Split(s, "\n")
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	for height > 0 && len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func maxWidth(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, ansi.StringWidth(l))
	}
	return w
}

func dropColumns(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	return ansi.TruncateLeft(s, cols, "")
}

func padANSI(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
