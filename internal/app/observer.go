package service

import (
	"context"

	"github.com/okian/vitals/internal/domain/scoring"
	"github.com/okian/vitals/pkg/logger"
	"github.com/okian/vitals/pkg/metrics"
)

// newObserver feeds calculator events into metrics and debug logs.
func newObserver(log logger.Logger, m *metrics.Manager) scoring.Observer {
	return scoring.ObserverFunc(func(e scoring.Event) {
		m.RecordComponentScore(e.Calculator, e.Component, e.Score, e.Fallback)
		log.Debug(context.Background(), "component scored",
			logger.String("calculator", e.Calculator),
			logger.String("component", e.Component),
			logger.Float64("input", e.Input),
			logger.Float64("score", e.Score),
			logger.Bool("fallback", e.Fallback),
		)
	})
}
