// Package domain contains the core entities of the sentence learning system:
// users and their target languages, sentences with their translations, and the
// two granularities of review progress (per sentence group and per translation).
//
// Domain types are plain data with validation. They carry no persistence or
// transport concerns; the store and api packages translate to and from them.
package domain
