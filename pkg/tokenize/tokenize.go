// Package tokenize normalizes free text into search tokens and extracts
// readable text from HTML documents. Both operations are pure functions of
// their input so they can run concurrently across ingestion workers without
// any shared mutable state beyond the immutable stop-word set.
package tokenize

import "strings"

// isASCIIPunct reports whether r is one of the ASCII punctuation characters
// (the same set as the C locale's ispunct), which tokenize replaces with a
// space before splitting on whitespace.
func isASCIIPunct(r rune) bool {
	switch {
	case r >= '!' && r <= '/':
		return true
	case r >= ':' && r <= '@':
		return true
	case r >= '[' && r <= '`':
		return true
	case r >= '{' && r <= '~':
		return true
	default:
		return false
	}
}

// Tokenize normalizes text into an ordered sequence of search tokens:
// lowercase, ASCII punctuation replaced with a space, split on whitespace,
// tokens starting with a decimal digit dropped, and stop-words dropped.
// Ordering is preserved so callers can do phrase-aware term-frequency
// accounting on the result.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)

	cleaned := strings.Map(func(r rune) rune {
		if isASCIIPunct(r) {
			return ' '
		}

		return r
	}, lowered)

	fields := strings.Fields(cleaned)

	tokens := make([]string, 0, len(fields))

	for _, f := range fields {
		r := []rune(f)
		if len(r) == 0 {
			continue
		}

		if r[0] >= '0' && r[0] <= '9' {
			continue
		}

		if isStopWord(f) {
			continue
		}

		tokens = append(tokens, f)
	}

	return tokens
}
