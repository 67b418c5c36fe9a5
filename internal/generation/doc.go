// Package generation defines the boundary between the application and the
// external language models that produce translations. The application only
// relies on a Translator returning text; platform packages such as
// internal/platform/gemini provide implementations.
package generation
