// Package httpapi exposes operations over HTTP, the REST transport built on
// go-chi/chi. The router composition style (middleware chain, route groups)
// follows chi's own idiomatic usage.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/swarmcheck/internal/clog"
	"github.com/matzehuels/swarmcheck/pkg/api"
)

// Server wires an [api.Runner] to chi routes. Every handler accepts and
// returns the same external JSON shapes the CLI and pkg/api use directly,
// so a caller can round-trip a protocol file between "swarmcheck compose"
// and "POST /compose" without re-encoding it.
type Server struct {
	runner *api.Runner
	logger *log.Logger
}

// NewServer returns a Server backed by runner.
func NewServer(runner *api.Runner, logger *log.Logger) *Server {
	return &Server{runner: runner, logger: clog.OrDefault(logger)}
}

// Routes builds the chi router: one POST endpoint operation,
// plus GET /runs for run history and GET /healthz for liveness checks.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealthz)
	r.Post("/check", s.handleCheckComposedSwarm)
	r.Post("/check-projection", s.handleCheckComposedProjection)
	r.Post("/subscription/exact", s.handleExactWellFormedSub)
	r.Post("/subscription/overapprox", s.handleOverapproximatedWellFormedSub)
	r.Post("/compose", s.handleComposeProtocols)
	r.Post("/project", s.handleRevisedProjection)
	r.Post("/project-combine", s.handleProjectCombine)
	r.Post("/projection-info", s.handleProjectionInformation)
	r.Get("/runs", s.handleRecentRuns)
	r.Get("/runs/{role}", s.handleRunsByRole)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "elapsed", time.Since(start))
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON decodes r's body into v, writing a 400 response and returning
// false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
