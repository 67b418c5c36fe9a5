// Package task manages background job queuing, processing, and lifecycle.
// Tasks are persisted before they are queued so that a restart can recover
// pending and interrupted work. Recovered records are turned back into
// executable tasks by the factories registered in a Registry.
package task
