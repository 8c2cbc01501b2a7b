package scene

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// parseHex reads a #rrggbb colour. Anything else comes back black.
func parseHex(c lipgloss.Color) (r, g, b uint8) {
	var pr, pg, pb uint8
	if _, err := fmt.Sscanf(string(c), "#%02x%02x%02x", &pr, &pg, &pb); err != nil {
		return 0, 0, 0
	}
	return pr, pg, pb
}

// blend interpolates between two colours. t is clamped to [0, 1].
func blend(from, to lipgloss.Color, t float64) lipgloss.Color {
	if t <= 0 {
		return from
	}
	if t >= 1 {
		return to
	}
	fr, fg, fb := parseHex(from)
	tr, tg, tb := parseHex(to)
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t)
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", lerp(fr, tr), lerp(fg, tg), lerp(fb, tb)))
}

// easeInCubic maps linear progress onto a slow-start curve.
func easeInCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * t
}
