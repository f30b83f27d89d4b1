package common

import (
	"strings"
	"unicode/utf8"
)

// WrapString breaks s into lines of at most width runes, splitting at spaces when possible
func WrapString(s string, width int) string {
	if width <= 0 {
		return s
	}

	var lines []string
	runes := []rune(s)
	for len(runes) > width {
		splitAt := width
		// Try to split at the last space before the specified width
		for i := width; i > 0; i-- {
			if runes[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, string(runes[:splitAt]))
		runes = []rune(strings.TrimLeft(string(runes[splitAt:]), " "))
	}
	if len(runes) > 0 {
		lines = append(lines, string(runes))
	}
	return strings.Join(lines, "\n")
}

// Truncate keeps the first limit runes of s and appends an ellipsis when anything was cut
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
