// Package logger provides structured logging for the application.
//
// It builds a log/slog JSON logger from configuration and carries
// request-scoped loggers through context.Context so that every log line of a
// request shares its trace attributes.
package logger
