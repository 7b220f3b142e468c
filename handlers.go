package pulse

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pulsegram/pulse/pkg/api"
	"github.com/pulsegram/pulse/pkg/dom"
	"github.com/pulsegram/pulse/pkg/gateway"
	"github.com/pulsegram/pulse/pkg/session"
	"github.com/pulsegram/pulse/pkg/toast"
	"github.com/pulsegram/pulse/widget"
)

// SocketPath is the websocket endpoint clients connect to.
const SocketPath = "/_pulse/ws"

const (
	handshakeTimeout = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = 54 * time.Second
	maxMessageSize   = 64 * 1024
)

// clientHello is the first message on every connection. A non-empty
// Session asks to resume existing widget state; Widgets announces what
// the rendered page wants mounted.
type clientHello struct {
	Type    string             `json:"type"`
	Session string             `json:"session,omitempty"`
	CSRF    string             `json:"csrf,omitempty"`
	Widgets []widget.MountSpec `json:"widgets,omitempty"`
}

type serverHello struct {
	Type    string `json:"type"`
	Session string `json:"session"`
	Resumed bool   `json:"resumed"`
}

type eventEnvelope struct {
	Type  string        `json:"type"`
	Event *widget.Event `json:"event,omitempty"`
}

type patchEnvelope struct {
	Type    string      `json:"type"`
	Patches []dom.Patch `json:"patches"`
}

// socketSink delivers patch batches to the session's current socket.
// While the session is detached it buffers patches and flushes them on
// resume, so widget updates produced in the gap are not lost.
type socketSink struct {
	app *App

	mu   sync.Mutex
	conn *websocket.Conn
	buf  []dom.Patch
}

func (s *socketSink) attach(conn *websocket.Conn) {
	s.mu.Lock()
	s.conn = conn
	buffered := s.buf
	s.buf = nil
	s.mu.Unlock()

	if len(buffered) > 0 {
		s.Apply(buffered)
	}
}

// detach drops the socket only if it is still the given one; a resumed
// session must not be detached by its dead predecessor's read loop.
func (s *socketSink) detach(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
}

// writeJSON serializes control messages with patch writes; gorilla
// connections do not allow concurrent writers.
func (s *socketSink) writeJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.WriteJSON(v)
}

// Apply implements dom.Sink.
func (s *socketSink) Apply(patches []dom.Patch) {
	if len(patches) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		s.buf = append(s.buf, patches...)
		return
	}
	if err := s.conn.WriteJSON(patchEnvelope{Type: "patch", Patches: patches}); err != nil {
		s.app.log.Warn("patch write failed", "error", err)
		return
	}
	s.app.metrics.patchesTotal.Add(float64(len(patches)))
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

func (a *App) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.log.Error("websocket upgrade failed", "error", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(handshakeTimeout))

	var hello clientHello
	if err := conn.ReadJSON(&hello); err != nil || hello.Type != "hello" {
		a.log.Warn("handshake failed", "error", err)
		conn.Close()
		return
	}

	sess, resumed := a.attachSession(conn, hello)
	if sess == nil {
		conn.Close()
		return
	}
	a.metrics.connectsTotal.WithLabelValues(boolLabel(resumed)).Inc()
	a.metrics.sessionsActive.Inc()

	sink := sess.Sink.(*socketSink)
	if err := sink.writeJSON(serverHello{Type: "hello", Session: sess.ID, Resumed: resumed}); err != nil {
		a.log.Warn("hello write failed", "error", err)
	}

	if !resumed {
		for _, spec := range hello.Widgets {
			if err := sess.Page.Mount(spec); err != nil {
				a.log.Warn("mount rejected", "session", sess.ID, "kind", spec.Kind, "error", err)
			}
		}
	}

	a.readLoop(conn, sess)
}

// attachSession resumes the session named in the hello or creates a
// fresh one wired to this connection.
func (a *App) attachSession(conn *websocket.Conn, hello clientHello) (*session.Session, bool) {
	if hello.Session != "" {
		if sess, ok := a.registry.Resume(hello.Session); ok {
			sess.Sink.(*socketSink).attach(conn)
			a.log.Info("session resumed", "session", sess.ID)
			return sess, true
		}
	}

	id := uuid.NewString()
	sink := &socketSink{app: a}
	sink.attach(conn)

	notifier := toast.NewManager(sink, toast.WithSharedMetrics(a.toastMetrics))
	gw := gateway.New(a.cfg.API.BaseURL, hello.CSRF,
		gateway.WithLogger(a.log),
		gateway.WithNotifier(notifier),
		gateway.WithTimeout(a.cfg.API.Timeout),
		gateway.WithSharedMetrics(a.gwMetrics),
	)
	scope := widget.NewScope(api.NewClient(gw), sink, notifier,
		widget.WithLogger(a.log.With("session", id)))

	sess, err := a.registry.Create(id, scope, widget.NewPage(scope))
	if err != nil {
		a.log.Error("session create failed", "error", err)
		return nil, false
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess.Sink = sink
	sess.Stop = cancel
	go scope.Run(ctx)

	a.log.Info("session created", "session", id)
	return sess, false
}

// readLoop decodes event envelopes until the socket dies, then detaches
// the session so the client can resume.
func (a *App) readLoop(conn *websocket.Conn, sess *session.Session) {
	defer func() {
		sess.Sink.(*socketSink).detach(conn)
		a.registry.Detach(sess.ID)
		a.metrics.sessionsActive.Dec()
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	stopPing := make(chan struct{})
	defer close(stopPing)
	go pingLoop(conn, stopPing)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				a.log.Warn("read failed", "session", sess.ID, "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		var env eventEnvelope
		if err := json.Unmarshal(msg, &env); err != nil {
			a.log.Warn("bad envelope", "session", sess.ID, "error", err)
			continue
		}
		switch env.Type {
		case "event":
			if env.Event == nil {
				continue
			}
			a.metrics.eventsTotal.Inc()
			sess.Scope.Deliver(*env.Event)
		default:
			a.log.Warn("unknown envelope type", "session", sess.ID, "type", env.Type)
		}
	}
}

func pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(10 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
