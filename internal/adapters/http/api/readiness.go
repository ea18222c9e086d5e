package api

import (
	"net/http"

	service "github.com/okian/vitals/internal/app"
	"github.com/okian/vitals/pkg/logger"
)

// ReadinessHandler handles readiness requests.
type ReadinessHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewReadinessHandler creates a new readiness handler.
func NewReadinessHandler(deps Dependencies, log logger.Logger) *ReadinessHandler {
	return &ReadinessHandler{deps: deps, logger: log}
}

// HandleReadiness handles POST /v1/readiness requests.
func (h *ReadinessHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	const op = "api.readiness"
	var req readinessRequest
	if err := decodePost(w, r, op, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	res, err := h.deps.Readiness(r.Context(), service.ReadinessInput{
		Today:       req.Today,
		Manual:      req.Manual,
		History:     req.History,
		Demographic: req.Demographic,
	})
	if err != nil {
		writeError(w, r, h.logger, WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type seriesResponse struct {
	Points []service.SeriesPoint `json:"points"`
}

// HandleSeries handles POST /v1/readiness/series requests.
func (h *ReadinessHandler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	const op = "api.readiness_series"
	var req seriesRequest
	if err := decodePost(w, r, op, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	points, err := h.deps.ReadinessSeries(r.Context(), req.History, req.Days, req.Demographic)
	if err != nil {
		writeError(w, r, h.logger, WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, seriesResponse{Points: points})
}
