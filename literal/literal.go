// Package literal provides the escape-sequence and quoting helpers for DOL
// string literals; the scanner uses Unescape when building string token
// values. It plays the same supporting role here that
// cuelang.org/go/cue/literal plays for the CUE scanner and formatter.
package literal

import "strconv"

// Unescape maps a single character following a backslash to its escaped
// rune. DOL recognizes exactly \n \t \r \\ \" (spec.md 4C); any other
// escape is reported by the caller as LexInvalidEscape and recovered by
// keeping the literal character.
func Unescape(r rune) (rune, bool) {
	switch r {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '\\':
		return '\\', true
	case '"':
		return '"', true
	}
	return r, false
}

// Quote renders s as a double-quoted DOL string literal. No package in
// this module calls it.
func Quote(s string) string {
	return strconv.Quote(s)
}
