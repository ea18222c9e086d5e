package api

import (
	"net/http"

	"github.com/okian/vitals/pkg/logger"
)

// SleepHandler handles sleep score requests.
type SleepHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewSleepHandler creates a new sleep handler.
func NewSleepHandler(deps Dependencies, log logger.Logger) *SleepHandler {
	return &SleepHandler{deps: deps, logger: log}
}

// HandleScore handles POST /v1/sleep/score requests.
func (h *SleepHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.sleep_score"
	var req sleepRequest
	if err := decodePost(w, r, op, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.SleepScore(r.Context(), req.SleepRecord))
}
