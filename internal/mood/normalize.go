package mood

import (
	"strings"
	"unicode/utf8"
)

// NormalizeNote trims the note and maps blank input to nil.
func NormalizeNote(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// CountChars returns the character count as runes (not bytes).
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}
