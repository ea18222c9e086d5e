package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)
			So(Get(), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})

		Convey("When initialized with an unknown format", func() {
			err := InitWith(&bytes.Buffer{}, "xml", "info")
			So(err, ShouldNotBeNil)
		})

		Convey("When initialized with an unknown level", func() {
			err := InitWith(&bytes.Buffer{}, FormatText, "loud")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a JSON logger", t, func() {
		var buf bytes.Buffer
		l, err := New(&buf, FormatJSON, slog.LevelInfo)
		So(err, ShouldBeNil)

		Convey("When logging with fields", func() {
			l.Named("readiness").Info(context.Background(), "scored",
				String("metric", "hrv"),
				Float64("score", 90),
				Bool("fallback", false),
				Duration("took", time.Millisecond),
			)

			Convey("Then every field should be encoded", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "scored")
				So(rec["logger"], ShouldEqual, "readiness")
				So(rec["metric"], ShouldEqual, "hrv")
				So(rec["score"], ShouldEqual, 90)
				So(rec["fallback"], ShouldEqual, false)
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the level", func() {
			l.Debug(context.Background(), "hidden")
			So(buf.Len(), ShouldEqual, 0)
		})
	})
}

func TestLoggerWith(t *testing.T) {
	Convey("Given a text logger with bound fields", t, func() {
		var buf bytes.Buffer
		l, err := New(&buf, FormatText, slog.LevelDebug)
		So(err, ShouldBeNil)

		l.With(String("request_id", "abc")).Warn(context.Background(), "slow")

		So(buf.String(), ShouldContainSubstring, "request_id=abc")
		So(strings.Count(buf.String(), "\n"), ShouldEqual, 1)
	})
}

func TestLevels(t *testing.T) {
	Convey("Given level names", t, func() {
		lv, err := ParseLevel("WARNING")
		So(err, ShouldBeNil)
		So(lv, ShouldEqual, slog.LevelWarn)

		lv, err = ParseLevel("")
		So(err, ShouldBeNil)
		So(lv, ShouldEqual, slog.LevelInfo)

		_, err = ParseLevel("trace")
		So(err, ShouldNotBeNil)
	})

	Convey("Given the no-op logger", t, func() {
		So(func() { Nop().Error(context.Background(), "dropped") }, ShouldNotPanic)
	})
}
