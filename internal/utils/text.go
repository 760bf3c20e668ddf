// Package utils holds small shared helpers.
package utils

// Truncate shortens s to at most max runes, ending with "..." when
// anything was cut. Values of max below 4 return s unchanged.
func Truncate(s string, max int) string {
	if max < 4 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
