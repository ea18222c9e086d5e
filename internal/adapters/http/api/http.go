// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	service "github.com/okian/vitals/internal/app"
	"github.com/okian/vitals/internal/domain/load"
	"github.com/okian/vitals/internal/domain/model"
	"github.com/okian/vitals/pkg/logger"
)

const maxBodyBytes = 4 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SleepScore(ctx context.Context, rec model.SleepRecord) service.SleepResult
	Readiness(ctx context.Context, in service.ReadinessInput) (service.ReadinessResult, error)
	ReadinessSeries(ctx context.Context, history []model.DailyBiometric, days int, demographic *model.Demographic) ([]service.SeriesPoint, error)
	Load(ctx context.Context, activities []model.ActivityRecord, asOf time.Time) load.LoadDetail
	Consistency(ctx context.Context, activities []model.ActivityRecord, asOf time.Time) load.ConsistencyDetail
	Dashboard(ctx context.Context, in service.DashboardInput) (service.Dashboard, error)
}

// Server wires HTTP routes for the scoring API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	sleepHandler     *SleepHandler
	readinessHandler *ReadinessHandler
	loadHandler      *LoadHandler
	dashboardHandler *DashboardHandler
	logger           logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("api")
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		sleepHandler:     NewSleepHandler(deps, log),
		readinessHandler: NewReadinessHandler(deps, log),
		loadHandler:      NewLoadHandler(deps, log),
		dashboardHandler: NewDashboardHandler(deps, log),
		logger:           log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(path, name string, h http.HandlerFunc) {
		mux.HandleFunc(path, RequestIDMiddleware(MetricsMiddleware(h, name)))
	}
	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	route("/stats", "stats", s.statsHandler.HandleStats)
	route("/v1/sleep/score", "sleep_score", s.sleepHandler.HandleScore)
	route("/v1/readiness", "readiness", s.readinessHandler.HandleReadiness)
	route("/v1/readiness/series", "readiness_series", s.readinessHandler.HandleSeries)
	route("/v1/load", "load", s.loadHandler.HandleLoad)
	route("/v1/consistency", "consistency", s.loadHandler.HandleConsistency)
	route("/v1/dashboard", "dashboard", s.dashboardHandler.HandleDashboard)
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", RequestID(r.Context())),
			logger.Error(err),
		)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: RequestID(r.Context())})
}

// decodePost checks the method and decodes a JSON body into v, then runs its
// validation.
func decodePost(w http.ResponseWriter, r *http.Request, op string, v interface{ validate() error }) error {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		return NewKind(op, ErrMethodNotAllowed)
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return WrapKind(op, ErrTooLarge, err)
		case errors.Is(err, io.EOF):
			return WrapKind(op, ErrBadRequest, errors.New("empty body"))
		default:
			return WrapKind(op, ErrBadRequest, err)
		}
	}
	if dec.More() {
		return WrapKind(op, ErrBadRequest, fmt.Errorf("unexpected data after JSON body"))
	}
	if err := v.validate(); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}
