package live

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/purview-dev/purview/pkg/purview"
)

// ViewFunc is a named selector over the hosted state. The returned value
// must be JSON-marshalable; equality between transitions uses the purview
// default (== fast paths, reflect.DeepEqual fallback).
type ViewFunc[T any] func(*T) any

// Config configures a live Server.
type Config struct {
	// Logger used for connection and loop events.
	// Default: slog.Default().
	Logger *slog.Logger

	// MetricsHandler, when non-nil, is mounted at /metrics. Pass a
	// promhttp handler to expose store metrics collected by the
	// instrument package.
	MetricsHandler http.Handler

	// CheckOrigin overrides the WebSocket origin check. nil keeps the
	// gorilla default (reject cross-origin browser requests).
	CheckOrigin func(r *http.Request) bool

	// MaxMessageSize caps incoming WebSocket messages in bytes.
	// Default: 64KB. Client frames are tiny; anything near the cap is
	// not a well-behaved client.
	MaxMessageSize int64
}

const defaultMaxMessageSize = 64 * 1024

// Server hosts one store for WebSocket observers.
type Server[T any] struct {
	store *purview.Store[T]
	views map[string]ViewFunc[T]
	loop  *Loop
	log   *slog.Logger

	metricsHandler http.Handler
	maxMessageSize int64
	upgrader       websocket.Upgrader
}

// NewServer creates a live server around store and starts its dispatch
// loop. After NewServer, the caller must not touch the store directly;
// writes go through Dispatch.
func NewServer[T any](store *purview.Store[T], cfg Config) *Server[T] {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	maxMessageSize := cfg.MaxMessageSize
	if maxMessageSize <= 0 {
		maxMessageSize = defaultMaxMessageSize
	}

	return &Server[T]{
		store:          store,
		views:          make(map[string]ViewFunc[T]),
		loop:           newLoop(log),
		log:            log,
		metricsHandler: cfg.MetricsHandler,
		maxMessageSize: maxMessageSize,
		upgrader: websocket.Upgrader{
			CheckOrigin: cfg.CheckOrigin,
		},
	}
}

// RegisterView registers a named selector clients can subscribe to.
// Must be called before the server starts accepting connections.
// Registering the same name twice is a programming error and panics.
func (s *Server[T]) RegisterView(name string, fn ViewFunc[T]) {
	if _, dup := s.views[name]; dup {
		panic(fmt.Sprintf("live: view %q registered twice", name))
	}
	if fn == nil {
		panic(fmt.Sprintf("live: view %q registered with nil selector", name))
	}
	s.views[name] = fn
}

// ViewNames returns all registered view names, sorted.
func (s *Server[T]) ViewNames() []string {
	names := make([]string, 0, len(s.views))
	for name := range s.views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch queues fn to run on the server's loop with the hosted store.
// This is the only correct way to write to the store once the server is
// running. Reports false if the loop is closed or saturated.
func (s *Server[T]) Dispatch(fn func(store *purview.Store[T])) bool {
	return s.loop.Dispatch(func() {
		fn(s.store)
	})
}

// Router returns the HTTP surface:
//
//	GET /live     WebSocket endpoint
//	GET /state    JSON snapshot of all registered views
//	GET /healthz  liveness probe
//	GET /metrics  Prometheus metrics (only when configured)
func (s *Server[T]) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/live", s.handleLive)
	r.Get("/state", s.handleState)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", s.metricsHandler)
	}
	return r
}

// Close stops the dispatch loop. Existing connections wind down as their
// reads fail; new subscriptions are refused.
func (s *Server[T]) Close() {
	s.loop.Close()
}

// snapshotValues evaluates every registered view against the current state.
// Runs on the loop.
func (s *Server[T]) snapshotValues(names []string) map[string]any {
	state := s.store.State()
	values := make(map[string]any, len(names))
	for _, name := range names {
		values[name] = s.views[name](state)
	}
	return values
}

// handleState serves a one-shot JSON snapshot of all views.
func (s *Server[T]) handleState(w http.ResponseWriter, r *http.Request) {
	var values map[string]any
	if !s.loop.Call(func() {
		values = s.snapshotValues(s.ViewNames())
	}) {
		http.Error(w, "server closed", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(values); err != nil {
		s.log.Error("failed to encode state snapshot", "error", err)
	}
}

// handleLive upgrades the connection and runs its read pump.
func (s *Server[T]) handleLive(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	ws.SetReadLimit(s.maxMessageSize)

	c := newConn(s, ws)
	s.log.Debug("live connection opened", "remote", ws.RemoteAddr())
	c.readPump()
	s.log.Debug("live connection closed", "remote", ws.RemoteAddr())
}
