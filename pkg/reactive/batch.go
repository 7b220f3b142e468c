package reactive

// Batch groups multiple signal updates into a single notification phase.
// All updates within fn are collected, deduplicated by listener ID, and
// affected listeners are notified once when the outermost batch completes.
//
// A widget typically batches its optimistic flip so the render watcher
// fires once for the class change and the counter change together:
//
//	reactive.Batch(func() {
//	    liked.Toggle()
//	    count.Inc()
//	})
func Batch(fn func()) {
	tc := getTrackingContext()
	tc.batchDepth++

	defer func() {
		tc.batchDepth--
		if tc.batchDepth == 0 {
			processPendingUpdates(tc)
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies all pending listeners.
func processPendingUpdates(tc *trackingContext) {
	updates := tc.pendingUpdates
	tc.pendingUpdates = nil
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	for _, l := range updates {
		if seen[l.ID()] {
			continue
		}
		seen[l.ID()] = true
		l.MarkDirty()
	}
}
