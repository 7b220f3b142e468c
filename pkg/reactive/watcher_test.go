package reactive

import "testing"

func TestWatcherTracksReads(t *testing.T) {
	liked := NewBoolSignal(false)
	count := NewIntSignal(10)

	var rendered []int
	w := NewWatcher(func() {
		_ = liked.Get()
		rendered = append(rendered, count.Get())
	}, nil)
	w.Run()

	count.Set(11)
	liked.SetTrue()

	if len(rendered) != 3 {
		t.Fatalf("watcher ran %d times, want 3", len(rendered))
	}
	if rendered[2] != 11 {
		t.Errorf("final render saw count %d, want 11", rendered[2])
	}
}

func TestWatcherBatchCoalesces(t *testing.T) {
	liked := NewBoolSignal(false)
	count := NewIntSignal(10)

	runs := 0
	w := NewWatcher(func() {
		runs++
		_ = liked.Get()
		_ = count.Get()
	}, nil)
	w.Run()

	Batch(func() {
		liked.SetTrue()
		count.Inc()
	})

	// One initial run plus one for the whole batch.
	if runs != 2 {
		t.Errorf("watcher ran %d times, want 2", runs)
	}
}

func TestWatcherDispose(t *testing.T) {
	sig := NewSignal(0)
	runs := 0
	w := NewWatcher(func() {
		runs++
		_ = sig.Get()
	}, nil)
	w.Run()
	w.Dispose()

	sig.Set(1)
	if runs != 1 {
		t.Errorf("disposed watcher still ran: %d runs, want 1", runs)
	}
}

func TestWatcherCustomScheduler(t *testing.T) {
	sig := NewSignal(0)
	var queued []*Watcher
	w := NewWatcher(func() { _ = sig.Get() }, func(w *Watcher) {
		queued = append(queued, w)
	})
	w.Run()

	sig.Set(1)
	if len(queued) != 1 {
		t.Fatalf("scheduler received %d watchers, want 1", len(queued))
	}
	// Nothing ran inline; the scheduler decides when.
	queued[0].Run()
}

func TestUntrackedReadDoesNotSubscribe(t *testing.T) {
	sig := NewSignal("a")
	runs := 0
	w := NewWatcher(func() {
		runs++
		Untracked(func() { _ = sig.Get() })
	}, nil)
	w.Run()

	sig.Set("b")
	if runs != 1 {
		t.Errorf("untracked read subscribed: %d runs, want 1", runs)
	}
}
