package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	service "github.com/okian/vitals/internal/app"
	"github.com/okian/vitals/internal/config"
	"github.com/okian/vitals/internal/domain/model"
	"github.com/okian/vitals/pkg/logger"
	"github.com/okian/vitals/pkg/metrics"
)

var day0 = time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)

func execute(stdin string, args ...string) (string, error) {
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--no-color"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeInput(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal input: %v", err)
	}
	path := filepath.Join(t.TempDir(), "input.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func idealNight() model.SleepRecord {
	return model.SleepRecord{
		TotalSleepDuration: 8 * 3600,
		Efficiency:         100,
		REMSleepDuration:   int(8 * 3600 * 0.22),
		DeepSleepDuration:  int(8 * 3600 * 0.18),
		Latency:            15 * 60,
		BedtimeStart:       time.Date(2024, 5, 31, 22, 30, 0, 0, time.UTC),
		TimeInBed:          8*3600 + 900,
	}
}

func steadyHistory(n int) []model.DailyBiometric {
	out := make([]model.DailyBiometric, n)
	for i := range out {
		out[i] = model.DailyBiometric{
			Date:                 day0.AddDate(0, 0, i-n),
			HRV:                  model.Ring(60),
			RestingHR:            model.Ring(50),
			TemperatureDeviation: model.Ring(0),
			RespiratoryRate:      model.Ring(14),
		}
	}
	return out
}

func TestScoreCommands(t *testing.T) {
	convey.Convey("Given the score command", t, func() {
		_ = os.Unsetenv(config.EnvFile)

		convey.Convey("When scoring a night from a file", func() {
			path := writeInput(t, idealNight())
			out, err := execute("", "score", "sleep", "-f", path)

			convey.Convey("Then a sleep report should be printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldStartWith, "Sleep")
				convey.So(out, convey.ShouldContainSubstring, "100")
			})
		})

		convey.Convey("When scoring a night from stdin as JSON", func() {
			data, _ := json.Marshal(idealNight())
			out, err := execute(string(data), "score", "sleep", "--json")

			convey.Convey("Then the raw result should be printed", func() {
				convey.So(err, convey.ShouldBeNil)
				var res service.SleepResult
				convey.So(json.Unmarshal([]byte(out), &res), convey.ShouldBeNil)
				convey.So(res.Score.TotalScore, convey.ShouldEqual, 100)
				convey.So(res.Dimension.Components, convey.ShouldHaveLength, 7)
			})
		})

		convey.Convey("When the input has unknown fields", func() {
			_, err := execute(`{"bogus": 1}`, "score", "sleep")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "unknown field")
		})

		convey.Convey("When the input is empty", func() {
			_, err := execute("", "score", "sleep")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "empty input")
		})

		convey.Convey("When the input file does not exist", func() {
			_, err := execute("", "score", "sleep", "-f", filepath.Join(t.TempDir(), "missing.json"))
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When scoring readiness", func() {
			today := steadyHistory(11)[10]
			today.Date = day0
			path := writeInput(t, map[string]any{"today": today, "history": steadyHistory(10)})
			out, err := execute("", "score", "readiness", "-f", path, "--json")

			convey.Convey("Then today should score at baseline", func() {
				convey.So(err, convey.ShouldBeNil)
				var res service.ReadinessResult
				convey.So(json.Unmarshal([]byte(out), &res), convey.ShouldBeNil)
				convey.So(res.Score, convey.ShouldEqual, 90)
				convey.So(res.Status.Label, convey.ShouldEqual, "Prime")
			})
		})

		convey.Convey("When readiness has no date", func() {
			path := writeInput(t, map[string]any{"history": steadyHistory(10)})
			_, err := execute("", "score", "readiness", "-f", path)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "today.date")
		})

		convey.Convey("When scoring a series", func() {
			path := writeInput(t, map[string]any{"history": steadyHistory(10)})
			out, err := execute("", "score", "series", "-f", path, "-d", "3")

			convey.Convey("Then one line per day should be printed", func() {
				convey.So(err, convey.ShouldBeNil)
				lines := strings.Split(strings.TrimSpace(out), "\n")
				convey.So(lines, convey.ShouldHaveLength, 3)
				convey.So(lines[2], convey.ShouldContainSubstring, "90")
			})
		})

		convey.Convey("When scoring load", func() {
			acts := make([]model.ActivityRecord, 0, 60)
			for i := 0; i < 60; i++ {
				acts = append(acts, model.ActivityRecord{StartTime: day0.AddDate(0, 0, -i), MovingTime: 1800})
			}
			path := writeInput(t, map[string]any{"activities": acts, "as_of": day0})
			out, err := execute("", "score", "load", "-f", path)

			convey.Convey("Then both activity dimensions should be printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Perfect Growth Zone")
				convey.So(out, convey.ShouldContainSubstring, "Consistency")
				convey.So(out, convey.ShouldContainSubstring, "7 7 7 7 7 7 7 7")
			})
		})

		convey.Convey("When scoring a dashboard with only sleep", func() {
			path := writeInput(t, map[string]any{"sleep": idealNight()})
			out, err := execute("", "score", "dashboard", "-f", path, "--json")

			convey.Convey("Then the headline should name only sleep", func() {
				convey.So(err, convey.ShouldBeNil)
				var d map[string]any
				convey.So(json.Unmarshal([]byte(out), &d), convey.ShouldBeNil)
				convey.So(d["headline"], convey.ShouldEqual, "Sleep 100")
			})
		})

		convey.Convey("When the config file is missing", func() {
			path := writeInput(t, idealNight())
			_, err := execute("", "score", "sleep", "-f", path, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "failed to load config")
		})
	})
}

func TestServe(t *testing.T) {
	convey.Convey("Given a configured logger", t, func() {
		convey.So(logger.InitWith(io.Discard, logger.FormatText, "error"), convey.ShouldBeNil)

		convey.Convey("When the context ends", func() {
			cfg := config.New()
			cfg.Addr = "127.0.0.1:0"
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			convey.Convey("Then the server should shut down cleanly", func() {
				convey.So(serve(ctx, cfg), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the address cannot be bound", func() {
			cfg := config.New()
			cfg.Addr = "not-an-address"
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			convey.So(serve(ctx, cfg), convey.ShouldNotBeNil)
		})

		convey.Convey("When building the mux", func() {
			svc := service.New(service.WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))))
			mux := newMux(context.Background(), svc, logger.Nop())

			convey.Convey("Then docs, metrics and scoring routes should be served", func() {
				for _, path := range []string{"/api-docs", "/openapi.yaml", "/healthz", "/stats"} {
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}

				data, _ := json.Marshal(idealNight())
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/sleep/score", bytes.NewReader(data)))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When the config names a metrics namespace", func() {
			cfg := config.New()
			cfg.MetricsNamespace = "wellness"
			cfg.MetricsLabels = map[string]string{"env": "staging"}
			configureMetrics(cfg)
			defer metrics.Configure()

			mux := newMux(context.Background(), service.New(), logger.Nop())
			data, _ := json.Marshal(idealNight())
			mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/sleep/score", bytes.NewReader(data)))

			convey.Convey("Then /healthz should expose metrics under it", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `wellness_engine_computations_total{calculator="sleep",env="staging"}`)
			})
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("When updating once", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("When the context is already done", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}

func TestGenerateCommand(t *testing.T) {
	convey.Convey("Given the generate command", t, func() {
		_ = os.Unsetenv(config.EnvFile)

		convey.Convey("When generating a sick sample", func() {
			doc, err := execute("", "generate", "--profile", "sick", "--seed", "7", "--end", "2024-06-01T07:00:00Z", "-d", "14")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the document should score as a dashboard", func() {
				out, err := execute(doc, "score", "dashboard", "--json")
				convey.So(err, convey.ShouldBeNil)

				var d service.Dashboard
				convey.So(json.Unmarshal([]byte(out), &d), convey.ShouldBeNil)
				convey.So(d.Readiness, convey.ShouldNotBeNil)
				convey.So(d.Readiness.Details.Temperature.IsElevated, convey.ShouldBeTrue)
				convey.So(d.Sleep, convey.ShouldNotBeNil)
				convey.So(d.Load, convey.ShouldNotBeNil)
				convey.So(d.Headline, convey.ShouldStartWith, "Readiness")
			})
		})

		convey.Convey("When writing to a file", func() {
			path := filepath.Join(t.TempDir(), "sample.json")
			_, err := execute("", "generate", "-o", path)
			convey.So(err, convey.ShouldBeNil)

			data, err := os.ReadFile(path)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(data), convey.ShouldContainSubstring, `"history"`)
		})

		convey.Convey("When the profile is unknown", func() {
			_, err := execute("", "generate", "--profile", "tired")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
