package reactive

import "testing"

type recordingListener struct {
	id    uint64
	dirty int
}

func newRecordingListener() *recordingListener {
	return &recordingListener{id: nextID()}
}

func (l *recordingListener) MarkDirty() { l.dirty++ }
func (l *recordingListener) ID() uint64 { return l.id }

func TestSignalGetSet(t *testing.T) {
	s := NewSignal(10)

	if got := s.Get(); got != 10 {
		t.Errorf("Get() = %d, want 10", got)
	}

	s.Set(12)
	if got := s.Get(); got != 12 {
		t.Errorf("Get() after Set = %d, want 12", got)
	}
}

func TestSignalNotifiesOnChange(t *testing.T) {
	s := NewSignal("idle")
	l := newRecordingListener()
	s.base.subscribe(l)

	s.Set("running")
	if l.dirty != 1 {
		t.Errorf("expected 1 notification, got %d", l.dirty)
	}
}

func TestSignalSkipsNotifyWhenUnchanged(t *testing.T) {
	s := NewSignal(true)
	l := newRecordingListener()
	s.base.subscribe(l)

	s.Set(true)
	if l.dirty != 0 {
		t.Errorf("expected no notification for identical value, got %d", l.dirty)
	}
}

func TestSignalSubscribeDeduplicates(t *testing.T) {
	s := NewSignal(0)
	l := newRecordingListener()
	s.base.subscribe(l)
	s.base.subscribe(l)

	s.Set(1)
	if l.dirty != 1 {
		t.Errorf("duplicate subscription notified %d times, want 1", l.dirty)
	}
}

func TestSignalUpdate(t *testing.T) {
	s := NewIntSignal(10)
	s.Inc()
	if got := s.Get(); got != 11 {
		t.Errorf("Inc: got %d, want 11", got)
	}
	s.DecFloor()
	if got := s.Get(); got != 10 {
		t.Errorf("DecFloor: got %d, want 10", got)
	}
}

func TestDecFloorClampsAtZero(t *testing.T) {
	s := NewIntSignal(0)
	s.DecFloor()
	if got := s.Get(); got != 0 {
		t.Errorf("counter went below zero: %d", got)
	}
}

func TestBoolSignalToggle(t *testing.T) {
	s := NewBoolSignal(false)
	s.Toggle()
	if !s.Get() {
		t.Error("Toggle did not flip false to true")
	}
	s.Toggle()
	if s.Get() {
		t.Error("Toggle did not flip true to false")
	}
}

func TestPeekDoesNotSubscribe(t *testing.T) {
	s := NewSignal(1)
	runs := 0
	w := NewWatcher(func() {
		runs++
		s.Peek()
	}, nil)
	w.Run()

	s.Set(2)
	if runs != 1 {
		t.Errorf("Peek created a subscription: watcher ran %d times, want 1", runs)
	}
}
