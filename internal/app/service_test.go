package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	service "github.com/okian/vitals/internal/app"
	"github.com/okian/vitals/internal/config"
	"github.com/okian/vitals/internal/domain/load"
	"github.com/okian/vitals/internal/domain/model"
	"github.com/okian/vitals/internal/domain/readiness"
	"github.com/okian/vitals/internal/domain/scoring"
	"github.com/okian/vitals/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

var day0 = time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)

func steadyDay(i int) model.DailyBiometric {
	return model.DailyBiometric{
		Date:                 day0.AddDate(0, 0, i),
		HRV:                  model.Ring(60),
		RestingHR:            model.Ring(50),
		TemperatureDeviation: model.Ring(0),
		RespiratoryRate:      model.Ring(14),
	}
}

func steadyHistory(n int) []model.DailyBiometric {
	out := make([]model.DailyBiometric, n)
	for i := range out {
		out[i] = steadyDay(i)
	}
	return out
}

func dailySessions(days int, minutes int, asOf time.Time) []model.ActivityRecord {
	out := make([]model.ActivityRecord, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, model.ActivityRecord{
			StartTime:  asOf.AddDate(0, 0, -i),
			MovingTime: minutes * 60,
		})
	}
	return out
}

func newService(opts ...service.Option) *service.Service {
	m := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
	return service.New(append([]service.Option{
		service.WithMetrics(m),
		service.WithWorkerCount(2),
		service.WithClock(func() time.Time { return day0 }),
	}, opts...)...)
}

func TestSleepScore(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := newService()
		ctx := context.Background()

		Convey("When scoring an ideal night", func() {
			rec := model.SleepRecord{
				TotalSleepDuration: 8 * 3600,
				Efficiency:         100,
				REMSleepDuration:   int(8 * 3600 * 0.22),
				DeepSleepDuration:  int(8 * 3600 * 0.18),
				Latency:            15 * 60,
				BedtimeStart:       time.Date(2024, 6, 1, 22, 30, 0, 0, time.UTC),
			}
			res := svc.SleepScore(ctx, rec)

			Convey("Then the composite and dimension should agree", func() {
				So(res.Score.TotalScore, ShouldEqual, 100)
				So(res.Dimension.Score, ShouldEqual, 100)
				So(res.Dimension.Components, ShouldHaveLength, 7)
			})

			Convey("And the computation should be counted", func() {
				counts := svc.GetStats()["computations"].(map[string]int64)
				So(counts["sleep"], ShouldEqual, 1)
			})
		})
	})
}

func TestReadiness(t *testing.T) {
	Convey("Given a steady history", t, func() {
		svc := newService()
		ctx := context.Background()
		history := steadyHistory(10)

		Convey("When today matches the baseline", func() {
			res, err := svc.Readiness(ctx, service.ReadinessInput{Today: steadyDay(10), History: history})

			Convey("Then every metric should score at baseline", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 90)
				So(res.Status.Code, ShouldEqual, readiness.StatusPrime)
				So(res.Fallback, ShouldBeFalse)
				So(res.Dimension.Components, ShouldHaveLength, 4)
			})
		})

		Convey("When the ring missed HRV but a manual value exists", func() {
			today := steadyDay(10)
			today.HRV = model.Unavailable()
			manual := model.DailyBiometric{Date: today.Date, HRV: model.Manual(60)}

			res, err := svc.Readiness(ctx, service.ReadinessInput{Today: today, Manual: &manual, History: history})

			Convey("Then the manual reading should be scored", func() {
				So(err, ShouldBeNil)
				So(res.Details.HRV.Fallback, ShouldBeFalse)
				So(res.Details.HRV.Source, ShouldEqual, model.SourceManual)
			})
		})

		Convey("When today has an elevated temperature", func() {
			today := steadyDay(10)
			today.TemperatureDeviation = model.Ring(0.9)
			res, err := svc.Readiness(ctx, service.ReadinessInput{Today: today, History: history})

			So(err, ShouldBeNil)
			So(res.Details.Temperature.IsElevated, ShouldBeTrue)
		})

		Convey("When the demographic is unknown", func() {
			_, err := svc.Readiness(ctx, service.ReadinessInput{
				Today:       steadyDay(10),
				History:     history,
				Demographic: &model.Demographic{Gender: "robot", AgeBucket: model.Age30to39},
			})
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestReadinessSeries(t *testing.T) {
	Convey("Given a ten day steady history", t, func() {
		svc := newService(service.WithMaxSeriesDays(20))
		ctx := context.Background()
		history := steadyHistory(10)

		Convey("When scoring the last five days", func() {
			points, err := svc.ReadinessSeries(ctx, history, 5, nil)

			Convey("Then each day should be scored against its own past", func() {
				So(err, ShouldBeNil)
				So(points, ShouldHaveLength, 5)
				for i, p := range points {
					So(p.Date, ShouldEqual, history[5+i].Date)
					So(p.Score, ShouldEqual, 90)
					So(p.Fallback, ShouldBeFalse)
				}
			})
		})

		Convey("When asking for more days than the history holds", func() {
			points, err := svc.ReadinessSeries(ctx, history, 15, nil)

			Convey("Then early days should fall back for lack of baseline", func() {
				So(err, ShouldBeNil)
				So(points, ShouldHaveLength, 10)
				So(points[0].Fallback, ShouldBeTrue)
				So(points[0].Score, ShouldEqual, 0)
				So(points[2].Fallback, ShouldBeTrue)
				So(points[3].Fallback, ShouldBeFalse)
				So(points[3].Score, ShouldEqual, 90)
			})
		})

		Convey("When the series is longer than allowed", func() {
			_, err := svc.ReadinessSeries(ctx, history, 21, nil)
			So(errors.Is(err, service.ErrSeriesTooLong), ShouldBeTrue)
		})

		Convey("When days is not positive", func() {
			_, err := svc.ReadinessSeries(ctx, history, 0, nil)
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When the history is empty", func() {
			_, err := svc.ReadinessSeries(ctx, nil, 3, nil)
			So(errors.Is(err, service.ErrEmptyHistory), ShouldBeTrue)
		})

		Convey("When the context is canceled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.ReadinessSeries(cctx, history, 5, nil)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestLoadAndConsistency(t *testing.T) {
	Convey("Given sixty days of steady training", t, func() {
		svc := newService()
		ctx := context.Background()
		acts := dailySessions(60, 30, day0)

		Convey("When computing load as of the last session", func() {
			res := svc.Load(ctx, acts, day0)

			So(res.Zone, ShouldEqual, load.ZonePerfectGrowth)
			So(res.Score, ShouldEqual, 100)
			So(res.Fallback, ShouldBeFalse)
		})

		Convey("When computing load without an as-of time", func() {
			So(svc.Load(ctx, acts, time.Time{}), ShouldResemble, svc.Load(ctx, acts, day0))
		})

		Convey("When computing consistency", func() {
			res := svc.Consistency(ctx, acts, day0)

			So(res.WeeklyCounts, ShouldResemble, [8]int{7, 7, 7, 7, 7, 7, 7, 7})
			So(res.Score, ShouldEqual, 100)
		})
	})
}

func TestDashboard(t *testing.T) {
	Convey("Given every dashboard section", t, func() {
		svc := newService()
		ctx := context.Background()
		today := steadyDay(10)
		rec := model.SleepRecord{
			TotalSleepDuration: 8 * 3600,
			Efficiency:         100,
			REMSleepDuration:   int(8 * 3600 * 0.22),
			DeepSleepDuration:  int(8 * 3600 * 0.18),
			Latency:            15 * 60,
			BedtimeStart:       time.Date(2024, 6, 1, 22, 30, 0, 0, time.UTC),
		}

		Convey("When composing the dashboard", func() {
			d, err := svc.Dashboard(ctx, service.DashboardInput{
				Sleep:      &rec,
				Today:      &today,
				History:    steadyHistory(10),
				Activities: dailySessions(60, 30, day0),
				AsOf:       day0,
			})

			Convey("Then every section should be present", func() {
				So(err, ShouldBeNil)
				So(d.Sleep, ShouldNotBeNil)
				So(d.Readiness, ShouldNotBeNil)
				So(d.Load, ShouldNotBeNil)
				So(d.Consistency, ShouldNotBeNil)
			})

			Convey("And the headline should summarize them", func() {
				So(d.Headline, ShouldStartWith, "Readiness 90 (Prime)")
				So(d.Headline, ShouldContainSubstring, "Sleep 100")
				So(d.Headline, ShouldContainSubstring, "Load Perfect Growth Zone, ACWR")
				So(d.Headline, ShouldEndWith, "Consistency 100")
			})
		})

		Convey("When only activities are empty", func() {
			d, err := svc.Dashboard(ctx, service.DashboardInput{Activities: []model.ActivityRecord{}, AsOf: day0})

			Convey("Then fallbacks should render as placeholders", func() {
				So(err, ShouldBeNil)
				So(d.Sleep, ShouldBeNil)
				So(d.Readiness, ShouldBeNil)
				So(d.Headline, ShouldEqual, "Load Maintenance Mode, ACWR -- · Consistency --")
			})
		})

		Convey("When nothing is supplied", func() {
			d, err := svc.Dashboard(ctx, service.DashboardInput{})
			So(err, ShouldBeNil)
			So(d.Headline, ShouldEqual, "No data")
		})
	})
}

func TestNewFromConfig(t *testing.T) {
	Convey("Given a loaded config", t, func() {
		cfg := config.New()
		cfg.Timezone = "UTC"
		cfg.MaxSeriesDays = 7
		cfg.WorkerCount = 3

		Convey("When building the service", func() {
			rec := &scoring.Recorder{}
			svc, err := service.NewFromConfig(cfg, service.WithObserver(rec))
			So(err, ShouldBeNil)

			Convey("Then its settings should follow the config", func() {
				stats := svc.GetStats()
				So(stats["workerCount"], ShouldEqual, 3)
				So(stats["maxSeriesDays"], ShouldEqual, 7)
				So(stats["timezone"], ShouldEqual, "UTC")
			})

			Convey("And extra observers should see calculator events", func() {
				svc.Load(context.Background(), nil, day0)
				So(rec.Events, ShouldHaveLength, 1)
				So(strings.ToLower(rec.Events[0].Component), ShouldEqual, "acwr")
			})
		})

		Convey("When the timezone is invalid", func() {
			cfg.Timezone = "Nowhere/Land"
			_, err := service.NewFromConfig(cfg)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
