// Package batch runs bounded, cancellable fan-out over indexed jobs.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/vitals/pkg/logger"
	"github.com/okian/vitals/pkg/metrics"
)

// Job status labels.
const (
	statusOK       = "ok"
	statusFailed   = "failed"
	statusCanceled = "canceled"
)

// Pool holds the concurrency settings shared by every Run.
// A Pool is immutable after construction and safe for concurrent use.
type Pool struct {
	workers int
	name    string
	logger  logger.Logger
	metrics *metrics.Manager
}

// NewPool creates a pool. Without WithWorkers it runs runtime.NumCPU jobs at a time.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		workers: runtime.NumCPU(),
		name:    "batch",
		logger:  logger.Nop(),
		metrics: metrics.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named(p.name)
	return p
}

// Workers returns the concurrency bound.
func (p *Pool) Workers() int { return p.workers }

// Run executes job for every index in [0, n) on p and returns the results in
// index order. The first failing job cancels the context passed to the others
// and its error is returned.
func Run[T any](ctx context.Context, p *Pool, n int, job func(ctx context.Context, i int) (T, error)) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeN, n)
	}
	start := time.Now()
	out := make([]T, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			p.metrics.AddBatchWorkers(1)
			defer p.metrics.AddBatchWorkers(-1)

			v, err := call(gctx, i, job)
			if err != nil {
				p.metrics.RecordBatchJob(statusFailed)
				return err
			}
			out[i] = v
			p.metrics.RecordBatchJob(statusOK)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	p.metrics.RecordBatchLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		if ctx.Err() != nil {
			p.metrics.RecordBatchJob(statusCanceled)
		}
		p.logger.Warn(ctx, "batch aborted",
			logger.Int("jobs", n),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err),
		)
		return nil, err
	}
	p.logger.Debug(ctx, "batch finished",
		logger.Int("jobs", n),
		logger.Int("workers", p.workers),
		logger.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// call runs one job, converting a panic into ErrJobPanic.
func call[T any](ctx context.Context, i int, job func(ctx context.Context, i int) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: job %d: %v", ErrJobPanic, i, r)
		}
	}()
	v, err = job(ctx, i)
	if err != nil {
		return v, fmt.Errorf("%w: job %d: %w", ErrJobFailed, i, err)
	}
	return v, nil
}
