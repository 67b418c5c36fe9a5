// Package shared holds request decoding, validation, response writing and
// trace id helpers used by the HTTP handlers and middleware.
package shared
