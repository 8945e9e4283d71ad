package utils

import "strings"

// TruncateForLog returns a one-line preview of s: whitespace runs, line
// breaks included, collapse to one space and the result is cut to limit runes
// with an ellipsis.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
