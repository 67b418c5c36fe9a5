package domain

import (
	"strings"
	"unicode"
)

const (
	minLanguageLen = 2
	maxLanguageLen = 16
)

// NormalizeLanguage lower-cases a language tag and trims surrounding spaces.
func NormalizeLanguage(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// ValidateLanguage checks that tag looks like a BCP 47 style tag such as
// "en", "de" or "pt-br". Only letters and hyphens are allowed.
func ValidateLanguage(field, tag string) error {
	if len(tag) < minLanguageLen || len(tag) > maxLanguageLen {
		return NewValidationError(field, "must be between 2 and 16 characters", ErrInvalidLanguage)
	}
	for i, r := range tag {
		if r == '-' && i > 0 && i < len(tag)-1 {
			continue
		}
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return NewValidationError(field, "must contain only letters and hyphens", ErrInvalidLanguage)
		}
	}
	return nil
}
