package services

import "strings"

// indexWord returns the index of the first word-bounded occurrence of
// term in text at or after from, or -1. Matching is byte-wise; callers
// lowercase both sides first.
func indexWord(text, term string, from int) int {
	if term == "" {
		return -1
	}
	for from <= len(text)-len(term) {
		i := strings.Index(text[from:], term)
		if i < 0 {
			return -1
		}
		pos := from + i
		if isWordBoundary(text, pos-1) && isWordBoundary(text, pos+len(term)) {
			return pos
		}
		from = pos + 1
	}
	return -1
}

// containsWord reports whether text contains term as a whole word or
// word-bounded phrase.
func containsWord(text, term string) bool {
	return indexWord(text, term, 0) >= 0
}

func isWordBoundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	c := text[i]
	isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	isDigit := c >= '0' && c <= '9'
	return !isLetter && !isDigit
}
