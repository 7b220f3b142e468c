// Package uitest provides deterministic test doubles for widget code: a
// manually advanced clock, a scripted endpoint client, and a recording
// notifier. Together with dom.Document they let tests drive gestures,
// step timers, and assert on the resulting page state without a network
// or a real scheduler.
package uitest
