package api

import (
	"net/http"

	service "github.com/okian/vitals/internal/app"
	"github.com/okian/vitals/pkg/logger"
)

// DashboardHandler handles combined dashboard requests.
type DashboardHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{deps: deps, logger: log}
}

// HandleDashboard handles POST /v1/dashboard requests.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.dashboard"
	var req dashboardRequest
	if err := decodePost(w, r, op, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	d, err := h.deps.Dashboard(r.Context(), service.DashboardInput{
		Sleep:       req.Sleep,
		Today:       req.Today,
		Manual:      req.Manual,
		History:     req.History,
		Demographic: req.Demographic,
		Activities:  req.Activities,
		AsOf:        req.AsOf,
	})
	if err != nil {
		writeError(w, r, h.logger, WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, d)
}
