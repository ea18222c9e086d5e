package sleep_test

import (
	"testing"

	"github.com/okian/vitals/internal/domain/sleep"
	"github.com/okian/vitals/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDimension(t *testing.T) {
	Convey("Given an ideal night", t, func() {
		rec := idealNight()
		detail := sleep.Dimension(sleep.Compute(rec), rec)

		Convey("Then the dimension should mirror the composite", func() {
			So(detail.Score, ShouldEqual, 100)
			So(detail.Trend, ShouldEqual, types.TrendStable)
			So(detail.Fallback, ShouldBeFalse)
			So(detail.Components, ShouldHaveLength, 7)
			So(detail.Components[0].Name, ShouldEqual, sleep.ComponentTotalSleep)
			So(detail.Components[0].DisplayValue, ShouldEqual, "8h 00m")
		})

		Convey("And contributions should add up to the total", func() {
			sum := 0.0
			for _, c := range detail.Components {
				sum += c.Contribution
			}
			So(sum, ShouldAlmostEqual, detail.Score, 1e-9)
		})
	})

	Convey("Given a short night", t, func() {
		rec := idealNight()
		rec.TotalSleepDuration = 4 * hour

		Convey("Then the suggestion should target total sleep", func() {
			detail := sleep.Dimension(sleep.Compute(rec), rec)
			So(detail.Suggestion, ShouldContainSubstring, "7 to 9 hours")
		})
	})

	Convey("Given a missing night", t, func() {
		rec := idealNight()
		rec.TotalSleepDuration = 0

		Convey("Then the dimension should be flagged as fallback", func() {
			So(sleep.Dimension(sleep.Compute(rec), rec).Fallback, ShouldBeTrue)
		})
	})
}
