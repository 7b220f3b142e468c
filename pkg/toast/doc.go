// Package toast manages the page's single notification slot.
//
// The page renders one notification element; showing a new notification
// replaces whatever is visible and restarts the dismiss schedule. A
// notification stays up for three seconds, plays a 300ms exit animation,
// then hides.
package toast
