// Package pulse is the server-driven interaction runtime for the
// Pulsegram web app. Widget state lives in server-side scopes; browsers
// send DOM events over a websocket and receive patch instructions back.
package pulse

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pulsegram/pulse/internal/config"
	"github.com/pulsegram/pulse/pkg/gateway"
	"github.com/pulsegram/pulse/pkg/session"
	"github.com/pulsegram/pulse/pkg/toast"
)

// App wires the HTTP server, the websocket endpoint, and the session
// registry into a single unit.
type App struct {
	cfg          *config.Config
	log          *slog.Logger
	registry     *session.Registry
	prom         *prometheus.Registry
	metrics      *metrics
	gwMetrics    *gateway.Metrics
	toastMetrics *toast.Metrics
	router       chi.Router
}

// Option configures an App.
type Option func(*App)

// WithLogger replaces the logger derived from the configuration.
func WithLogger(log *slog.Logger) Option {
	return func(a *App) {
		if log != nil {
			a.log = log
		}
	}
}

// WithRegistry substitutes the session registry, e.g. one with a short
// resume window in tests.
func WithRegistry(r *session.Registry) Option {
	return func(a *App) {
		if r != nil {
			a.registry = r
		}
	}
}

// New builds the application from its configuration.
func New(cfg *config.Config, opts ...Option) *App {
	a := &App{
		cfg:  cfg,
		log:  newLogger(cfg.Log),
		prom: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.registry == nil {
		a.registry = session.NewRegistry(
			session.WithResumeWindow(cfg.Session.ResumeWindow),
			session.WithCleanupInterval(cfg.Session.CleanupInterval),
			session.WithLogger(a.log),
		)
	}
	a.metrics = newMetrics(a.prom)
	a.gwMetrics = gateway.NewMetrics(a.prom)
	a.toastMetrics = toast.NewMetrics(a.prom)
	a.router = a.routes()
	return a
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

func (a *App) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", a.handleHealth)
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(a.prom, promhttp.HandlerOpts{}))
	r.Get(SocketPath, a.handleSocket)

	if a.cfg.Static.Dir != "" {
		prefix := a.cfg.Static.Prefix
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(a.cfg.Static.Dir)))
		r.Handle(prefix+"*", fs)
	}

	return r
}

func (a *App) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// Handler returns the root HTTP handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// Registry exposes the session registry.
func (a *App) Registry() *session.Registry {
	return a.registry
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully and closes every live session.
func (a *App) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    a.cfg.Addr(),
		Handler: a.router,
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Info("server listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		a.registry.Close()
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	a.registry.Close()
	return err
}
