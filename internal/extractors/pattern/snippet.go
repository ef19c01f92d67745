package pattern

import "strings"

// window returns the text surrounding [start, end) clipped to the
// text bounds.
func window(text string, start, end, radius int) string {
	lo := start - radius
	if lo < 0 {
		lo = 0
	}
	hi := end + radius
	if hi > len(text) {
		hi = len(text)
	}
	return strings.TrimSpace(text[lo:hi])
}

// sentenceBefore returns the text between the previous sentence boundary
// and pos, capped at max characters.
func sentenceBefore(text string, pos, max int) string {
	lo := pos - max
	if lo < 0 {
		lo = 0
	}
	segment := text[lo:pos]
	if idx := strings.LastIndexAny(segment, ".!?"); idx >= 0 && idx+1 < len(segment) {
		segment = segment[idx+1:]
	}
	return strings.TrimSpace(segment)
}
