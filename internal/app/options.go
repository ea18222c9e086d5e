package service

import (
	"time"

	"github.com/okian/vitals/internal/domain/readiness"
	"github.com/okian/vitals/internal/domain/scoring"
	"github.com/okian/vitals/pkg/logger"
	"github.com/okian/vitals/pkg/metrics"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records service activity on m instead of the global manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLocation interprets bedtimes and activity days in loc.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.location = loc
	}
}

// WithWorkerCount bounds concurrent day computations in a readiness series.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithMaxSeriesDays caps the length of a readiness series.
func WithMaxSeriesDays(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSeriesDays = n
		}
	}
}

// WithReadinessOptions forwards options to the readiness calculator.
func WithReadinessOptions(opts ...readiness.Option) Option {
	return func(s *Service) {
		s.readinessOpts = append(s.readinessOpts, opts...)
	}
}

// WithObserver adds an observer next to the built-in metrics observer.
func WithObserver(o scoring.Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.extraObserver = o
		}
	}
}

// WithClock overrides the time source used when a request has no as-of time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
