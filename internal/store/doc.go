// Package store defines the persistence contracts of the application: the
// record stores for users, sentences, translations and both granularities of
// review progress, the sentinel errors they return, and the transaction
// helpers services use to draw explicit unit-of-work boundaries.
//
// Implementations live under internal/platform. No driver types cross this
// package's interfaces.
package store
