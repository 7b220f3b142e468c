// Package dom defines the render instruction set that widgets emit and the
// page contract they target.
//
// Widgets never touch markup directly. They derive a list of Patch values
// from signal state and hand them to a Sink. In production the sink is the
// WebSocket session, which forwards patches to the thin client for
// application against the real page. In tests the sink is an in-memory
// Document that applies the same patches, so invariants about the rendered
// state can be asserted without a browser.
//
// Elements are addressed by id. The server-rendered markup assigns stable
// ids to every element a widget mutates (like buttons, counters, result
// panels, message lists); those ids arrive with the widget's mount
// announcement.
package dom
