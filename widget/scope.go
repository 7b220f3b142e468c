package widget

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pulsegram/pulse/pkg/api"
	"github.com/pulsegram/pulse/pkg/dom"
	"github.com/pulsegram/pulse/pkg/gateway"
	"github.com/pulsegram/pulse/pkg/reactive"
)

// Event is a user gesture delivered to the scope: a click, input edit,
// keypress, or form submit on a concrete element.
type Event struct {
	// Target is the id of the element the gesture landed on.
	Target string `json:"target"`

	// Type is the gesture kind: click, input, keypress, submit, change.
	Type string `json:"type"`

	// Value carries the input text, key name, or file name.
	Value string `json:"value,omitempty"`

	// Containers lists the ids of the target's ancestors, outermost
	// first. Document-level handlers use it to tell inside from outside.
	Containers []string `json:"containers,omitempty"`
}

// InContainer reports whether the event landed inside the element with
// the given id (the target itself counts).
func (e Event) InContainer(id string) bool {
	if e.Target == id {
		return true
	}
	for _, c := range e.Containers {
		if c == id {
			return true
		}
	}
	return false
}

// Handler reacts to an event.
type Handler func(Event)

// API is the slice of the endpoint client the widgets consume.
// *api.Client satisfies it.
type API interface {
	LikePost(ctx context.Context, postID string) (*api.ToggleResult, error)
	FollowUser(ctx context.Context, username string) (*api.ToggleResult, error)
	SavePost(ctx context.Context, postID string) (*api.ToggleResult, error)
	LikeComment(ctx context.Context, commentID string) (*api.ToggleResult, error)
	AddComment(ctx context.Context, postID, text string) (*api.Comment, error)
	SendMessage(ctx context.Context, conversationID, text string) (*api.Message, error)
	SearchPosts(ctx context.Context, query string) (*api.SearchResults, error)
	SearchUsers(ctx context.Context, query string) (*api.SearchResults, error)
	CreateConversation(ctx context.Context, username string) (string, error)
	SharePost(ctx context.Context, postID, shareType string) error
	CreatePost(ctx context.Context, fields map[string]string, media *gateway.Upload) (string, error)
}

// Notifier is the notification surface widgets talk to. *toast.Manager
// satisfies it.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// Scope owns one client's widgets. All widget state changes run on its
// dispatch queue, one job at a time, so handlers and request
// continuations never observe each other mid-update.
type Scope struct {
	api      API
	sink     dom.Sink
	notifier Notifier
	clock    reactive.Clock
	log      *slog.Logger
	spawn    func(func())

	mu       sync.Mutex
	queue    []func()
	wake     chan struct{}
	handlers map[string]Handler
	document []Handler
}

// ScopeOption configures a Scope.
type ScopeOption func(*Scope)

// WithClock overrides the clock used for debounce and dismiss timers.
func WithClock(c reactive.Clock) ScopeOption {
	return func(s *Scope) { s.clock = c }
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) ScopeOption {
	return func(s *Scope) { s.log = log }
}

// WithSpawner replaces how request work leaves the dispatch loop.
// Production spawns a goroutine; tests substitute an inline or manually
// released runner.
func WithSpawner(spawn func(func())) ScopeOption {
	return func(s *Scope) { s.spawn = spawn }
}

// WithSynchronousRequests makes request work run inline on the caller.
// Tests use it so continuations land on the queue deterministically.
func WithSynchronousRequests() ScopeOption {
	return WithSpawner(func(fn func()) { fn() })
}

// NewScope creates a scope over the given endpoint client, patch sink,
// and notification surface.
func NewScope(client API, sink dom.Sink, notifier Notifier, opts ...ScopeOption) *Scope {
	s := &Scope{
		api:      client,
		sink:     sink,
		notifier: notifier,
		clock:    reactive.SystemClock{},
		log:      slog.Default(),
		spawn:    func(fn func()) { go fn() },
		wake:     make(chan struct{}, 1),
		handlers: make(map[string]Handler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply sends patches to the client.
func (s *Scope) Apply(patches ...dom.Patch) {
	if len(patches) > 0 {
		s.sink.Apply(patches)
	}
}

// Dispatch queues fn to run on the scope's loop.
func (s *Scope) Dispatch(fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Drain runs queued jobs until the queue is empty. The runtime's loop
// calls it after each wakeup; tests call it directly.
func (s *Scope) Drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		fn := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		fn()
	}
}

// Run services the queue until ctx is cancelled.
func (s *Scope) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
			s.Drain()
		}
	}
}

// Bind registers the handler for events on the given element id,
// replacing any previous one.
func (s *Scope) Bind(target string, h Handler) {
	s.mu.Lock()
	s.handlers[target] = h
	s.mu.Unlock()
}

// Unbind removes the handler for the given element id.
func (s *Scope) Unbind(target string) {
	s.mu.Lock()
	delete(s.handlers, target)
	s.mu.Unlock()
}

// BindDocument registers a handler that sees every event before the
// target handler runs, the document-level capture phase.
func (s *Scope) BindDocument(h Handler) {
	s.mu.Lock()
	s.document = append(s.document, h)
	s.mu.Unlock()
}

// Deliver queues an event for processing: document handlers first, then
// the target's handler if one is bound.
func (s *Scope) Deliver(ev Event) {
	s.Dispatch(func() {
		s.mu.Lock()
		capture := make([]Handler, len(s.document))
		copy(capture, s.document)
		target := s.handlers[ev.Target]
		s.mu.Unlock()

		for _, h := range capture {
			h(ev)
		}
		if target != nil {
			target(ev)
		}
	})
}

// async runs fn off the dispatch loop; fn re-enters the scope with
// Dispatch once its request settles.
func (s *Scope) async(fn func()) {
	s.spawn(fn)
}
