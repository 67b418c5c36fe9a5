package generation

import (
	"context"
	"strings"
)

// Translator turns text written in one language into another.
type Translator interface {
	// Translate returns text translated from sourceLang into targetLang.
	// Language arguments are language tags such as "en" or "pt-br".
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(ctx context.Context, text, sourceLang, targetLang string) (string, error)

// Translate calls f.
func (f TranslatorFunc) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	return f(ctx, text, sourceLang, targetLang)
}

// Unavailable is the Translator used when no model is configured. Callers
// then have to supply every translation themselves.
type Unavailable struct{}

// Translate always fails with ErrUnavailable.
func (Unavailable) Translate(context.Context, string, string, string) (string, error) {
	return "", ErrUnavailable
}

// Clean trims model output and strips one pair of surrounding quotes.
func Clean(text string) string {
	text = strings.TrimSpace(text)
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			text = strings.TrimSpace(text[1 : len(text)-1])
		}
	}
	return text
}
