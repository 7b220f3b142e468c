// Package reactive provides the signal primitives that hold widget state.
//
// A Signal is a reactive value container. Reading a signal while a Watcher
// is running subscribes that watcher, so the watcher re-runs when the value
// changes. Batch groups several writes into a single notification phase.
//
// Signals replace the original design's habit of treating the rendered page
// as the source of truth: each widget owns explicit state and derives render
// instructions from it.
package reactive
