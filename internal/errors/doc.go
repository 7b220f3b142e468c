// Package errors defines the structured error types used across Pulse.
//
// Three categories matter to user-facing code: transport failures (the
// request never produced a usable response), validation failures (input
// rejected before any request), and application failures (the server
// answered success:false with an optional message). All three terminate at
// the notification sink; none are retried.
package errors
