package doc

import "unicode/utf8"

// RuneLen counts runes in s.
func RuneLen(s string) int { return utf8.RuneCountInString(s) }

// SliceRunes returns s[start:end] in rune offsets, clamped.
func SliceRunes(s string, start, end int) string {
	r := []rune(s)
	start = clamp(start, 0, len(r))
	end = clamp(end, start, len(r))
	return string(r[start:end])
}

// SpliceRunes replaces the rune range [start, end) of s with repl.
func SpliceRunes(s string, start, end int, repl string) string {
	r := []rune(s)
	start = clamp(start, 0, len(r))
	end = clamp(end, start, len(r))
	return string(r[:start]) + repl + string(r[end:])
}
