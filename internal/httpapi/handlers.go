package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/swarmcheck/pkg/api"
	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// runHistoryReader is the listing half of [github.com/matzehuels/swarmcheck/pkg/store.Store]
// that [api.RunStore] itself doesn't require (Save is the only method
// api.Runner needs to record a run) but /runs needs to list history back.
type runHistoryReader interface {
	Recent(ctx context.Context, n int64) ([]api.RunRecord, error)
	ByRole(ctx context.Context, role string, n int64) ([]api.RunRecord, error)
}

// checkRequest is the shared request body for /check and /subscription/*.
type checkRequest struct {
	Protocols    swarm.InterfacingProtocols `json:"protocols"`
	Subscription swarm.Subscription         `json:"subscription,omitempty"`
	Granularity  swarm.Granularity          `json:"granularity,omitempty"`
}

func (s *Server) handleCheckComposedSwarm(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result := s.runner.CheckComposedSwarm(r.Context(), req.Protocols, req.Subscription)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExactWellFormedSub(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result := s.runner.ExactWellFormedSub(r.Context(), req.Protocols, req.Subscription)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleOverapproximatedWellFormedSub(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	granularity := req.Granularity
	if granularity == "" {
		granularity = swarm.TwoStep
	}
	result := s.runner.OverapproximatedWellFormedSub(r.Context(), req.Protocols, req.Subscription, granularity)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleComposeProtocols(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result := s.runner.ComposeProtocols(r.Context(), req.Protocols)
	writeJSON(w, http.StatusOK, result)
}

// projectRequest is the request body for /project.
type projectRequest struct {
	Protocol     swarm.SwarmProtocolType `json:"protocol"`
	Subscription swarm.Subscription      `json:"subscription,omitempty"`
	Role         ident.Role              `json:"role"`
	Minimize     bool                    `json:"minimize"`
}

func (s *Server) handleRevisedProjection(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result := s.runner.RevisedProjection(r.Context(), req.Protocol, req.Subscription, req.Role, req.Minimize)
	writeJSON(w, http.StatusOK, result)
}

// projectCombineRequest is the request body for /project-combine and
// /projection-info.
type projectCombineRequest struct {
	Protocols    swarm.InterfacingProtocols `json:"protocols"`
	Subscription swarm.Subscription         `json:"subscription,omitempty"`
	Role         ident.Role                 `json:"role"`
	Minimize     bool                       `json:"minimize"`
	K            int                        `json:"k,omitempty"`
	Machine      *swarm.MachineType         `json:"machine,omitempty"`
}

func (s *Server) handleProjectCombine(w http.ResponseWriter, r *http.Request) {
	var req projectCombineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result := s.runner.ProjectCombine(r.Context(), req.Protocols, req.Subscription, req.Role, req.Minimize)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleProjectionInformation(w http.ResponseWriter, r *http.Request) {
	var req projectCombineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result := s.runner.ProjectionInformation(r.Context(), req.Role, req.Protocols, req.K, req.Subscription, req.Machine, req.Minimize)
	writeJSON(w, http.StatusOK, result)
}

// checkProjectionRequest is the request body for /check-projection.
type checkProjectionRequest struct {
	Protocols    swarm.InterfacingProtocols `json:"protocols"`
	Subscription swarm.Subscription         `json:"subscription,omitempty"`
	Role         ident.Role                 `json:"role"`
	Machine      swarm.MachineType          `json:"machine"`
}

func (s *Server) handleCheckComposedProjection(w http.ResponseWriter, r *http.Request) {
	var req checkProjectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result := s.runner.CheckComposedProjection(r.Context(), req.Protocols, req.Subscription, req.Role, req.Machine)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRecentRuns(w http.ResponseWriter, r *http.Request) {
	limit := int64(20)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			limit = n
		}
	}
	if s.runner.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "run history is disabled"})
		return
	}
	recentStore, ok := s.runner.Store.(runHistoryReader)
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "run history store does not support listing"})
		return
	}
	records, err := recentStore.Recent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleRunsByRole(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "role")
	limit := int64(20)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			limit = n
		}
	}
	if s.runner.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "run history is disabled"})
		return
	}
	recentStore, ok := s.runner.Store.(runHistoryReader)
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "run history store does not support listing"})
		return
	}
	records, err := recentStore.ByRole(r.Context(), role, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, records)
}
