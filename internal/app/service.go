// Package service composes the scoring calculators into the operations
// exposed by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/vitals/internal/adapters/batch"
	"github.com/okian/vitals/internal/config"
	"github.com/okian/vitals/internal/domain/load"
	"github.com/okian/vitals/internal/domain/model"
	"github.com/okian/vitals/internal/domain/readiness"
	"github.com/okian/vitals/internal/domain/scoring"
	"github.com/okian/vitals/internal/domain/sleep"
	"github.com/okian/vitals/internal/domain/types"
	"github.com/okian/vitals/pkg/logger"
	"github.com/okian/vitals/pkg/metrics"
)

const defaultMaxSeriesDays = 90

// Calculator names used for stats and metrics.
const (
	calcSleep       = "sleep"
	calcReadiness   = "readiness"
	calcLoad        = "load"
	calcConsistency = "consistency"
	calcDashboard   = "dashboard"
)

// Service wires the calculators with logging, metrics and the batch pool.
// It holds no per-user state and is safe for concurrent use.
type Service struct {
	sleep     *sleep.Calculator
	readiness *readiness.Calculator
	load      *load.Calculator
	pool      *batch.Pool

	// Configuration
	location      *time.Location
	workerCount   int
	maxSeriesDays int
	readinessOpts []readiness.Option
	extraObserver scoring.Observer
	now           func() time.Time

	startedAt time.Time
	mu        sync.Mutex
	counts    map[string]*atomic.Int64

	logger  logger.Logger
	metrics *metrics.Manager
}

// New constructs a Service.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU(),
		maxSeriesDays: defaultMaxSeriesDays,
		now:           time.Now,
		logger:        logger.Nop(),
		metrics:       metrics.Default(),
		counts:        make(map[string]*atomic.Int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("service")

	obs := scoring.Multi(newObserver(s.logger, s.metrics), s.extraObserver)
	s.sleep = sleep.New(sleep.WithObserver(obs), sleep.WithLocation(s.location))
	s.readiness = readiness.New(append([]readiness.Option{readiness.WithObserver(obs)}, s.readinessOpts...)...)
	s.load = load.New(load.WithObserver(obs))
	s.pool = batch.NewPool(
		batch.WithWorkers(s.workerCount),
		batch.WithName("readiness-series"),
		batch.WithLogger(s.logger),
		batch.WithMetrics(s.metrics),
	)
	s.startedAt = s.now()
	return s
}

// NewFromConfig builds a Service from loaded configuration. Extra options are
// applied after the configuration.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	base := []Option{
		WithLocation(loc),
		WithWorkerCount(cfg.WorkerCount),
		WithMaxSeriesDays(cfg.MaxSeriesDays),
		WithReadinessOptions(
			readiness.WithWindowDays(cfg.ReadinessWindowDays),
			readiness.WithMinSamples(cfg.ReadinessMinSamples),
			readiness.WithTemperatureThreshold(cfg.TemperatureThresholdC),
			readiness.WithRespiratoryThreshold(cfg.RespiratoryThresholdBPM),
		),
	}
	return New(append(base, opts...)...), nil
}

// SleepResult is a scored night.
type SleepResult struct {
	Score     types.CompositeScore  `json:"score"`
	Dimension types.DimensionDetail `json:"dimension"`
}

// SleepScore scores a single night.
func (s *Service) SleepScore(ctx context.Context, rec model.SleepRecord) SleepResult {
	defer s.track(ctx, calcSleep, time.Now())
	score := s.sleep.Compute(rec)
	return SleepResult{Score: score, Dimension: sleep.Dimension(score, rec)}
}

// ReadinessInput is one readiness request. Manual, when set, fills metrics the
// ring did not report for today.
type ReadinessInput struct {
	Today       model.DailyBiometric
	Manual      *model.DailyBiometric
	History     []model.DailyBiometric
	Demographic *model.Demographic
}

// ReadinessResult pairs the readiness result with its dimension rendering.
type ReadinessResult struct {
	readiness.Result
	Dimension types.DimensionDetail `json:"dimension"`
}

// Readiness scores today's biometrics against the history baseline.
func (s *Service) Readiness(ctx context.Context, in ReadinessInput) (ReadinessResult, error) {
	if in.Demographic != nil {
		if err := in.Demographic.Validate(); err != nil {
			return ReadinessResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	defer s.track(ctx, calcReadiness, time.Now())
	today := in.Today
	if in.Manual != nil {
		today = model.Merge(today, *in.Manual)
	}
	res := s.readiness.Compute(today, in.History, in.Demographic)
	s.recordElevated(res)
	return ReadinessResult{Result: res, Dimension: res.Dimension()}, nil
}

// SeriesPoint is the readiness of one history day scored against the days
// before it.
type SeriesPoint struct {
	Date   time.Time `json:"date"`
	Score  float64   `json:"score"`
	Status string    `json:"status"`
	// Fallback marks days without enough baseline to score.
	Fallback bool `json:"fallback"`
}

// ReadinessSeries scores the last days entries of history concurrently. Each
// day's baseline is the part of history before it.
func (s *Service) ReadinessSeries(ctx context.Context, history []model.DailyBiometric, days int, demographic *model.Demographic) ([]SeriesPoint, error) {
	switch {
	case len(history) == 0:
		return nil, ErrEmptyHistory
	case days < 1:
		return nil, fmt.Errorf("%w: days must be positive", ErrInvalidInput)
	case days > s.maxSeriesDays:
		return nil, fmt.Errorf("%w: %d > %d", ErrSeriesTooLong, days, s.maxSeriesDays)
	}
	if demographic != nil {
		if err := demographic.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	days = min(days, len(history))
	first := len(history) - days

	start := time.Now()
	points, err := batch.Run(ctx, s.pool, days, func(ctx context.Context, i int) (SeriesPoint, error) {
		if err := ctx.Err(); err != nil {
			return SeriesPoint{}, err
		}
		idx := first + i
		res := s.readiness.Compute(history[idx], history[:idx], demographic)
		return SeriesPoint{
			Date:     history[idx].Date,
			Score:    res.Score,
			Status:   string(res.Status.Code),
			Fallback: res.Fallback,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("readiness series: %w", err)
	}
	s.count(calcReadiness, int64(days))
	s.logger.Debug(ctx, "readiness series computed",
		logger.Int("days", days),
		logger.Duration("elapsed", time.Since(start)),
	)
	return points, nil
}

// Load computes the acute:chronic workload ratio as of asOf. A zero asOf
// means now.
func (s *Service) Load(ctx context.Context, activities []model.ActivityRecord, asOf time.Time) load.LoadDetail {
	defer s.track(ctx, calcLoad, time.Now())
	return s.load.Load(activities, s.asOf(asOf))
}

// Consistency computes weekly training consistency as of asOf. A zero asOf
// means now.
func (s *Service) Consistency(ctx context.Context, activities []model.ActivityRecord, asOf time.Time) load.ConsistencyDetail {
	defer s.track(ctx, calcConsistency, time.Now())
	return s.load.Consistency(activities, s.asOf(asOf))
}

func (s *Service) asOf(t time.Time) time.Time {
	if t.IsZero() {
		t = s.now()
	}
	if s.location != nil {
		t = t.In(s.location)
	}
	return t
}

func (s *Service) recordElevated(res readiness.Result) {
	for _, m := range model.AllMetrics {
		if res.Details.Get(m).IsElevated {
			s.metrics.RecordElevated(string(m))
		}
	}
}

// track counts a computation and records its latency.
func (s *Service) track(ctx context.Context, calculator string, start time.Time) {
	elapsed := time.Since(start)
	s.metrics.RecordComputation(calculator, float64(elapsed.Microseconds())/1000)
	s.count(calculator, 1)
	s.logger.Debug(ctx, "computation finished",
		logger.String("calculator", calculator),
		logger.Duration("elapsed", elapsed),
	)
}

func (s *Service) count(calculator string, n int64) {
	s.mu.Lock()
	c, ok := s.counts[calculator]
	if !ok {
		c = &atomic.Int64{}
		s.counts[calculator] = c
	}
	s.mu.Unlock()
	c.Add(n)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.Lock()
	computations := make(map[string]int64, len(s.counts))
	for name, c := range s.counts {
		computations[name] = c.Load()
	}
	s.mu.Unlock()

	stats := map[string]any{
		"startedAt":     s.startedAt.UTC().Format(time.RFC3339),
		"uptimeSeconds": int64(s.now().Sub(s.startedAt).Seconds()),
		"workerCount":   s.workerCount,
		"maxSeriesDays": s.maxSeriesDays,
		"computations":  computations,
	}
	if s.location != nil {
		stats["timezone"] = s.location.String()
	}
	return stats
}
