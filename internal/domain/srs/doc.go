// Package srs implements the review scheduling policy shared by sentence
// groups and single translations.
//
// The policy is a pure function of the state before a review, the outcome and
// the review instant. It does no I/O and reads no clock; callers inject now.
package srs
