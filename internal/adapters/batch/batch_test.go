package batch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/goleak"

	"github.com/okian/vitals/internal/adapters/batch"
	"github.com/okian/vitals/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newPool(workers int) *batch.Pool {
	return batch.NewPool(
		batch.WithWorkers(workers),
		batch.WithName("test"),
		batch.WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))),
	)
}

func TestRun(t *testing.T) {
	Convey("Given a pool of three workers", t, func() {
		pool := newPool(3)
		So(pool.Workers(), ShouldEqual, 3)

		Convey("When running ten jobs", func() {
			var running, peak int32
			out, err := batch.Run(context.Background(), pool, 10, func(_ context.Context, i int) (int, error) {
				n := atomic.AddInt32(&running, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&running, -1)
				return i * i, nil
			})

			Convey("Then results should keep index order", func() {
				So(err, ShouldBeNil)
				So(out, ShouldResemble, []int{0, 1, 4, 9, 16, 25, 36, 49, 64, 81})
			})

			Convey("And concurrency should stay within the bound", func() {
				So(atomic.LoadInt32(&peak), ShouldBeLessThanOrEqualTo, 3)
			})
		})

		Convey("When there are no jobs", func() {
			out, err := batch.Run(context.Background(), pool, 0, func(context.Context, int) (string, error) {
				return "", nil
			})
			So(err, ShouldBeNil)
			So(out, ShouldBeEmpty)
		})

		Convey("When the size is negative", func() {
			_, err := batch.Run(context.Background(), pool, -1, func(context.Context, int) (string, error) {
				return "", nil
			})
			So(errors.Is(err, batch.ErrNegativeN), ShouldBeTrue)
		})
	})
}

func TestRunFailures(t *testing.T) {
	Convey("Given a pool", t, func() {
		pool := newPool(2)
		boom := errors.New("boom")

		Convey("When one job fails", func() {
			out, err := batch.Run(context.Background(), pool, 5, func(ctx context.Context, i int) (int, error) {
				if i == 2 {
					return 0, boom
				}
				return i, nil
			})

			Convey("Then the error should be returned wrapped", func() {
				So(out, ShouldBeNil)
				So(errors.Is(err, batch.ErrJobFailed), ShouldBeTrue)
				So(errors.Is(err, boom), ShouldBeTrue)
			})
		})

		Convey("When a job panics", func() {
			_, err := batch.Run(context.Background(), pool, 3, func(_ context.Context, i int) (int, error) {
				if i == 1 {
					panic("bad day")
				}
				return i, nil
			})
			So(errors.Is(err, batch.ErrJobPanic), ShouldBeTrue)
		})

		Convey("When the parent context is already canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			var calls int32
			_, err := batch.Run(ctx, pool, 50, func(ctx context.Context, i int) (int, error) {
				atomic.AddInt32(&calls, 1)
				return i, ctx.Err()
			})

			Convey("Then the cancellation should surface and no job should start", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(atomic.LoadInt32(&calls), ShouldEqual, 0)
			})
		})
	})
}
