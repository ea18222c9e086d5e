package load_test

import (
	"testing"

	"github.com/okian/vitals/internal/domain/load"
	"github.com/okian/vitals/internal/domain/model"
	"github.com/okian/vitals/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// weeks builds activities so that week i (0 = most recent) has counts[i]
// distinct active days. Each active day gets two sessions.
func weeks(counts ...int) []model.ActivityRecord {
	var acts []model.ActivityRecord
	for w, n := range counts {
		for d := 0; d < n; d++ {
			acts = append(acts, session(w*7+d, 30), session(w*7+d, 20))
		}
	}
	return acts
}

func TestComputeConsistency(t *testing.T) {
	Convey("Given three active days in each of eight weeks", t, func() {
		res := load.ComputeConsistency(weeks(3, 3, 3, 3, 3, 3, 3, 3), asOf)

		Convey("Then the counts should be flat", func() {
			So(res.WeeklyCounts, ShouldResemble, [8]int{3, 3, 3, 3, 3, 3, 3, 3})
			So(res.StdDev, ShouldEqual, 0)
		})

		Convey("And consistency should be perfect and stable", func() {
			So(res.Score, ShouldEqual, 100)
			So(res.Trend, ShouldEqual, types.TrendStable)
			So(res.Fallback, ShouldBeFalse)
		})
	})

	Convey("Given an empty activity list", t, func() {
		res := load.ComputeConsistency(nil, asOf)

		Convey("Then the standard deviation should default to zero", func() {
			So(res.StdDev, ShouldEqual, 0)
			So(res.Score, ShouldEqual, 100)
			So(res.Trend, ShouldEqual, types.TrendStable)
			So(res.Fallback, ShouldBeTrue)
		})
	})

	Convey("Given steady recent weeks after erratic older ones", t, func() {
		res := load.ComputeConsistency(weeks(3, 3, 3, 3, 0, 6, 0, 6), asOf)

		Convey("Then the trend should be improving", func() {
			So(res.RecentStdDev, ShouldEqual, 0)
			So(res.OlderStdDev, ShouldEqual, 3)
			So(res.Trend, ShouldEqual, types.TrendImproving)
		})

		Convey("And the overall spread should score low", func() {
			So(res.StdDev, ShouldAlmostEqual, 2.1213, 1e-4)
			So(res.Score, ShouldEqual, 50)
		})
	})

	Convey("Given erratic recent weeks after steady older ones", t, func() {
		res := load.ComputeConsistency(weeks(1, 3, 1, 3, 2, 2, 2, 2), asOf)

		Convey("Then the trend should be declining", func() {
			So(res.Trend, ShouldEqual, types.TrendDeclining)
			So(res.StdDev, ShouldAlmostEqual, 0.7071, 1e-4)
			So(res.Score, ShouldEqual, 85)
		})
	})

	Convey("Given activities older than eight weeks", t, func() {
		res := load.ComputeConsistency([]model.ActivityRecord{session(56, 30), session(100, 30)}, asOf)

		Convey("Then they should be ignored", func() {
			So(res.WeeklyCounts, ShouldResemble, [8]int{})
		})

		Convey("And the empty window should be flagged as a fallback", func() {
			So(res.Fallback, ShouldBeTrue)
			So(load.ComputeLoad([]model.ActivityRecord{session(100, 30)}, asOf).Fallback, ShouldBeTrue)
		})
	})
}

func TestConsistencyScore(t *testing.T) {
	Convey("Given standard deviations on each band edge", t, func() {
		So(load.ConsistencyScore(0), ShouldEqual, 100)
		So(load.ConsistencyScore(0.49), ShouldEqual, 100)
		So(load.ConsistencyScore(0.5), ShouldEqual, 85)
		So(load.ConsistencyScore(0.99), ShouldEqual, 85)
		So(load.ConsistencyScore(1.0), ShouldEqual, 70)
		So(load.ConsistencyScore(1.5), ShouldEqual, 70)
		So(load.ConsistencyScore(1.51), ShouldEqual, 50)
	})
}
