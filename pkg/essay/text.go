package essay

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Length bounds, in characters, for an essay submission.
const (
	MinEssayLength = 100
	MaxEssayLength = 15000
)

// Normalize trims surrounding whitespace and applies NFC so that visually identical
// essays count and hash identically.
func Normalize(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

// CharacterCount counts the characters of the normalized essay.
func CharacterCount(text string) int {
	return utf8.RuneCountInString(Normalize(text))
}

// CheckLength reports ErrInputOutOfRange when the essay is outside the accepted bounds.
func CheckLength(text string) error {
	n := CharacterCount(text)
	if n < MinEssayLength || n > MaxEssayLength {
		return ErrInputOutOfRange
	}
	return nil
}

// CountWords counts whitespace separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
