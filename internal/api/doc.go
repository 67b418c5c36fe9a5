// Package api implements the HTTP handlers of the review scheduler.
//
// Handlers decode and validate JSON requests, call the services and map
// their errors to status codes. Error responses never carry internal error
// text; details are logged in redacted form with the request trace id.
package api
