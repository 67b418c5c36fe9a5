package gemini

import "errors"

// ErrNilLogger is returned when a translator is built without a logger.
var ErrNilLogger = errors.New("logger cannot be nil")
