// Package session tracks live widget scopes across socket connections.
//
// Every connected client owns one Session holding its dispatch scope and
// mounted page. When the socket drops, the session is detached rather than
// destroyed; a client reconnecting within the resume window reattaches the
// same scope and keeps all widget state. Detached sessions past the window
// are evicted by a background sweep.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pulsegram/pulse/internal/errors"
	"github.com/pulsegram/pulse/pkg/dom"
	"github.com/pulsegram/pulse/pkg/reactive"
	"github.com/pulsegram/pulse/widget"
)

const (
	// DefaultResumeWindow is how long a detached session stays resumable.
	DefaultResumeWindow = 30 * time.Second

	// DefaultCleanupInterval is how often expired sessions are swept.
	DefaultCleanupInterval = 10 * time.Second
)

// Session is one client's live state: the scope that serializes its event
// handling and the page of mounted widgets rendering into its socket.
type Session struct {
	ID    string
	Scope *widget.Scope
	Page  *widget.Page

	// Sink is the scope's render sink. The runtime retargets it at the
	// new socket when the session is resumed.
	Sink dom.Sink

	// Stop cancels the scope's dispatch loop. It is invoked when the
	// session is evicted.
	Stop func()

	attached   bool
	detachedAt time.Time
}

// Registry is an in-memory store of sessions keyed by id.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool

	resumeWindow    time.Duration
	cleanupInterval time.Duration
	clock           reactive.Clock
	log             *slog.Logger
	onEvict         func(*Session)

	done chan struct{}
}

// Option configures a Registry.
type Option func(*Registry)

// WithResumeWindow sets how long a detached session may be resumed.
func WithResumeWindow(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.resumeWindow = d
		}
	}
}

// WithCleanupInterval sets how often the background sweep runs. A zero or
// negative interval disables the background goroutine; callers may still
// invoke Sweep directly.
func WithCleanupInterval(d time.Duration) Option {
	return func(r *Registry) {
		r.cleanupInterval = d
	}
}

// WithClock substitutes the time source used for detach timestamps.
func WithClock(c reactive.Clock) Option {
	return func(r *Registry) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithLogger sets the logger for session lifecycle events.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithOnEvict registers a callback invoked for every session removed by
// Sweep or Close. It runs outside the registry lock.
func WithOnEvict(fn func(*Session)) Option {
	return func(r *Registry) {
		r.onEvict = fn
	}
}

// NewRegistry creates a registry and starts its cleanup goroutine unless
// the cleanup interval is disabled.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sessions:        make(map[string]*Session),
		resumeWindow:    DefaultResumeWindow,
		cleanupInterval: DefaultCleanupInterval,
		clock:           reactive.SystemClock{},
		log:             slog.Default(),
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cleanupInterval > 0 {
		go r.cleanupLoop()
	}
	return r
}

func (r *Registry) cleanupLoop() {
	ticker := time.NewTicker(r.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Sweep()
		case <-r.done:
			return
		}
	}
}

// Create registers a new attached session under id.
func (r *Registry) Create(id string, scope *widget.Scope, page *widget.Page) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, errors.New("E301", errors.CategoryApplication, "session registry is closed")
	}
	if _, ok := r.sessions[id]; ok {
		return nil, errors.New("E302", errors.CategoryApplication, "session "+id+" already exists")
	}

	s := &Session{ID: id, Scope: scope, Page: page, attached: true}
	r.sessions[id] = s
	r.log.Debug("session created", "session", id)
	return s, nil
}

// Detach marks the session as disconnected but keeps it resumable for the
// resume window. Detaching an unknown or already detached session is a no-op.
func (r *Registry) Detach(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || !s.attached {
		return
	}
	s.attached = false
	s.detachedAt = r.clock.Now()
	r.log.Debug("session detached", "session", id)
}

// Resume reattaches a detached session. It returns false when the id is
// unknown, the session is already attached to another connection, or the
// resume window has elapsed. An expired session is evicted on the spot.
func (r *Registry) Resume(id string) (*Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return nil, false
	}
	if s.attached {
		r.mu.Unlock()
		return nil, false
	}
	if r.clock.Now().Sub(s.detachedAt) > r.resumeWindow {
		delete(r.sessions, id)
		r.mu.Unlock()
		r.evict(s)
		return nil, false
	}
	s.attached = true
	s.detachedAt = time.Time{}
	r.mu.Unlock()

	r.log.Debug("session resumed", "session", id)
	return s, true
}

// Get returns the session for id regardless of attachment state.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove drops the session immediately, bypassing the resume window.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if ok {
		r.evict(s)
	}
}

// Len reports the number of sessions, attached or detached.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts detached sessions whose resume window has elapsed and
// returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.clock.Now()

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if !s.attached && now.Sub(s.detachedAt) > r.resumeWindow {
			delete(r.sessions, id)
			expired = append(expired, s)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		r.log.Debug("session expired", "session", s.ID)
		r.evict(s)
	}
	return len(expired)
}

// Close stops the cleanup goroutine and evicts every session. Subsequent
// Create calls fail.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.done)
	remaining := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		remaining = append(remaining, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range remaining {
		r.evict(s)
	}
}

func (r *Registry) evict(s *Session) {
	if s.Stop != nil {
		s.Stop()
	}
	if r.onEvict != nil {
		r.onEvict(s)
	}
}
