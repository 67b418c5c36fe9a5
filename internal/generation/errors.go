package generation

import "errors"

// Common errors returned by translators
var (
	// ErrTranslationFailed is returned when translation fails for any general reason
	ErrTranslationFailed = errors.New("failed to translate text")

	// ErrInvalidResponse is returned when the model response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during translation")

	// ErrInvalidConfig is returned when the translator configuration is invalid
	ErrInvalidConfig = errors.New("invalid translator configuration")

	// ErrEmptyText is returned when there is nothing to translate
	ErrEmptyText = errors.New("text to translate cannot be empty")

	// ErrUnavailable is returned by Unavailable
	ErrUnavailable = errors.New("no translator configured")
)
