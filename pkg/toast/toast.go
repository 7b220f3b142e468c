package toast

import (
	"sync"
	"time"

	"github.com/pulsegram/pulse/pkg/dom"
	"github.com/pulsegram/pulse/pkg/reactive"
)

// ElementID is the id of the notification element patched by the manager.
const ElementID = "pulse-notification"

// VisibleFor is how long a notification stays on screen before it starts
// exiting. ExitAfter is the exit animation length; the element is hidden
// once it elapses.
const (
	VisibleFor = 3 * time.Second
	ExitAfter  = 300 * time.Millisecond
)

// Type represents the notification type.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Manager owns the single notification slot. Showing a new notification
// while one is visible replaces it and restarts the dismiss timers.
type Manager struct {
	mu         sync.Mutex
	clock      reactive.Clock
	sink       dom.Sink
	generation uint64
	dismiss    reactive.TimerHandle
	exit       reactive.TimerHandle
	metrics    *Metrics
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the clock used for dismiss timers. Tests use a
// manual clock to step through the visible and exit phases.
func WithClock(c reactive.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// NewManager returns a manager that applies notification patches to sink.
func NewManager(sink dom.Sink, opts ...Option) *Manager {
	m := &Manager{
		clock: reactive.SystemClock{},
		sink:  sink,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Show displays a notification of the given type. Any notification already
// visible is replaced in place and its pending timers are cancelled.
func (m *Manager) Show(level Type, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimersLocked()
	m.generation++
	gen := m.generation

	m.sink.Apply([]dom.Patch{
		dom.SetText(ElementID, message),
		dom.SetAttr(ElementID, "class", "notification notification-"+string(level)),
		dom.Show(ElementID),
	})

	m.dismiss = m.clock.AfterFunc(VisibleFor, func() { m.beginExit(gen) })
	m.metrics.shown(level)
}

// Success shows a success notification.
func (m *Manager) Success(message string) { m.Show(TypeSuccess, message) }

// Error shows an error notification.
func (m *Manager) Error(message string) { m.Show(TypeError, message) }

// Warning shows a warning notification.
func (m *Manager) Warning(message string) { m.Show(TypeWarning, message) }

// Info shows an info notification.
func (m *Manager) Info(message string) { m.Show(TypeInfo, message) }

// Dismiss hides the current notification immediately, skipping the exit
// animation. No-op when nothing is visible.
func (m *Manager) Dismiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimersLocked()
	m.generation++
	m.sink.Apply([]dom.Patch{dom.Hide(ElementID)})
}

func (m *Manager) beginExit(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return
	}
	m.sink.Apply([]dom.Patch{dom.AddClass(ElementID, "notification-exit")})
	m.exit = m.clock.AfterFunc(ExitAfter, func() { m.finishExit(gen) })
}

func (m *Manager) finishExit(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return
	}
	m.sink.Apply([]dom.Patch{
		dom.RemoveClass(ElementID, "notification-exit"),
		dom.Hide(ElementID),
	})
}

func (m *Manager) stopTimersLocked() {
	if m.dismiss != nil {
		m.dismiss.Stop()
		m.dismiss = nil
	}
	if m.exit != nil {
		m.exit.Stop()
		m.exit = nil
	}
}
