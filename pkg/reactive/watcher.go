package reactive

import "sync"

// Watcher runs a function and re-runs it when any signal read during the
// last run changes. It is the render driver for widgets: the function
// derives patch instructions from signal state.
//
// MarkDirty does not run the function inline; it hands the watcher to the
// scheduler supplied at construction. Widget scopes schedule re-runs on
// their dispatch loop so every run happens on the scope goroutine.
type Watcher struct {
	id uint64

	fn       func()
	schedule func(*Watcher)

	mu       sync.Mutex
	sources  []*signalBase
	disposed bool
}

// NewWatcher creates a watcher for fn, scheduling re-runs through schedule.
// If schedule is nil, re-runs happen inline on the writer's goroutine.
// The function does not run until the first call to Run.
func NewWatcher(fn func(), schedule func(*Watcher)) *Watcher {
	w := &Watcher{
		id: nextID(),
		fn: fn,
	}
	if schedule == nil {
		schedule = func(w *Watcher) { w.Run() }
	}
	w.schedule = schedule
	return w
}

// Run executes the watched function, re-tracking its dependencies.
// Signals read during the run subscribe this watcher.
func (w *Watcher) Run() {
	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		return
	}
	// Drop stale subscriptions; the run below re-subscribes live ones.
	old := w.sources
	w.sources = nil
	w.mu.Unlock()

	for _, src := range old {
		src.unsubscribe(w)
	}

	withListener(w, w.fn)
}

// MarkDirty implements Listener. It schedules a re-run.
func (w *Watcher) MarkDirty() {
	w.mu.Lock()
	disposed := w.disposed
	w.mu.Unlock()
	if disposed {
		return
	}
	w.schedule(w)
}

// ID implements Listener.
func (w *Watcher) ID() uint64 {
	return w.id
}

// Dispose detaches the watcher from all sources. After Dispose, signal
// writes no longer schedule it.
func (w *Watcher) Dispose() {
	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		return
	}
	w.disposed = true
	sources := w.sources
	w.sources = nil
	w.mu.Unlock()

	for _, src := range sources {
		src.unsubscribe(w)
	}
}

// addSource records a signal this watcher is subscribed to, so Run and
// Dispose can unsubscribe it later.
func (w *Watcher) addSource(src *signalBase) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.disposed {
		return
	}
	for _, existing := range w.sources {
		if existing == src {
			return
		}
	}
	w.sources = append(w.sources, src)
}
