// Package service holds the use cases of the review scheduler. It
// orchestrates domain objects, the srs policy and the store interfaces of
// internal/store; it never depends on a concrete database.
//
// Every read-modify-write on a single progress record runs in its own unit of
// work drawn through store.Transactor, which locks the row and retries
// serialization conflicts. Operations spanning several records, such as a
// review session, use one unit of work per record and report partial failure
// instead of rolling back what already succeeded.
//
// Wall-clock time is injected as a Clock so scheduling can be tested with
// fixed instants.
package service
