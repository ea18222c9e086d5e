package api

import (
	"net/http"

	"github.com/okian/vitals/pkg/logger"
)

// LoadHandler handles training load and consistency requests.
type LoadHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewLoadHandler creates a new load handler.
func NewLoadHandler(deps Dependencies, log logger.Logger) *LoadHandler {
	return &LoadHandler{deps: deps, logger: log}
}

// HandleLoad handles POST /v1/load requests.
func (h *LoadHandler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	const op = "api.load"
	var req activityRequest
	if err := decodePost(w, r, op, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Load(r.Context(), req.Activities, req.AsOf))
}

// HandleConsistency handles POST /v1/consistency requests.
func (h *LoadHandler) HandleConsistency(w http.ResponseWriter, r *http.Request) {
	const op = "api.consistency"
	var req activityRequest
	if err := decodePost(w, r, op, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Consistency(r.Context(), req.Activities, req.AsOf))
}
