// Package events decouples services from background task creation.
//
// Services emit a TaskRequestEvent through an EventEmitter; handlers
// registered with the emitter turn the event into work. The catalog service
// uses this to request translation backfills without importing the task
// package.
package events
