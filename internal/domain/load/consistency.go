package load

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/okian/vitals/internal/domain/model"
	"github.com/okian/vitals/internal/domain/scoring"
	"github.com/okian/vitals/internal/domain/types"
)

// Consistency window constants.
const (
	consistencyWeeks = 8
	recentWeeks      = 4
	stdDevTolerance  = 1e-9
)

var consistencySuggestions = map[float64]string{
	100: "Your weekly rhythm is rock solid. Keep it up.",
	85:  "Training is fairly regular. Small tweaks will make it steadier.",
	70:  "Training days vary week to week. Pick fixed days to train.",
	50:  "Training is irregular. Plan a simple repeatable weekly schedule.",
}

// ConsistencyDetail is the weekly consistency result. WeeklyCounts[0] is the
// week ending on asOf; higher indexes step back in time.
type ConsistencyDetail struct {
	types.DimensionDetail
	WeeklyCounts [consistencyWeeks]int `json:"weekly_counts"`
	StdDev       float64               `json:"std_dev"`
	RecentStdDev float64               `json:"recent_std_dev"`
	OlderStdDev  float64               `json:"older_std_dev"`
}

// Consistency scores how evenly active days are spread over the last eight
// weeks. Days are calendar days in asOf's location.
func (c *Calculator) Consistency(activities []model.ActivityRecord, asOf time.Time) ConsistencyDetail {
	counts := WeeklyActiveDays(activities, asOf)

	all := make([]float64, consistencyWeeks)
	for i, n := range counts {
		all[i] = float64(n)
	}
	sd := scoring.StdDev(all)
	recent := scoring.StdDev(all[:recentWeeks])
	older := scoring.StdDev(all[recentWeeks:])
	score := ConsistencyScore(sd)

	trend := types.TrendStable
	switch {
	case recent < older-stdDevTolerance:
		trend = types.TrendImproving
	case recent > older+stdDevTolerance:
		trend = types.TrendDeclining
	}

	out := ConsistencyDetail{
		DimensionDetail: types.DimensionDetail{
			Score:      score,
			Trend:      trend,
			Suggestion: consistencySuggestions[score],
			Fallback:   noActiveDays(counts),
			Components: []types.DetailComponent{
				{Name: "weekly_active_days", DisplayValue: formatCounts(counts)},
				{Name: "std_dev", DisplayValue: fmt.Sprintf("%.2f", sd), Contribution: score},
			},
		},
		WeeklyCounts: counts,
		StdDev:       sd,
		RecentStdDev: recent,
		OlderStdDev:  older,
	}

	c.observer.Observe(scoring.Event{
		Calculator: calculatorName,
		Component:  "consistency",
		Input:      sd,
		Score:      score,
		Fallback:   out.Fallback,
	})
	return out
}

// noActiveDays reports whether the window holds no activity at all, in which
// case a zero spread says nothing about consistency.
func noActiveDays(counts [consistencyWeeks]int) bool {
	for _, n := range counts {
		if n > 0 {
			return false
		}
	}
	return true
}

// WeeklyActiveDays counts distinct active calendar days in each of the eight
// 7-day buckets ending on the day containing asOf.
func WeeklyActiveDays(activities []model.ActivityRecord, asOf time.Time) [consistencyWeeks]int {
	loc := asOf.Location()
	end := model.StartOfDay(asOf).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -consistencyWeeks*daysPerWeek)

	seen := make(map[string]struct{})
	var counts [consistencyWeeks]int
	for _, a := range activities {
		day := model.StartOfDay(a.StartTime.In(loc))
		if day.Before(start) || !day.Before(end) {
			continue
		}
		key := day.Format(time.DateOnly)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		daysBack := int(math.Round(end.Sub(day).Hours()/24)) - 1
		counts[daysBack/daysPerWeek]++
	}
	return counts
}

// ConsistencyScore maps the standard deviation of weekly active days to a
// score.
func ConsistencyScore(sd float64) float64 {
	switch {
	case sd < 0.5:
		return 100
	case sd < 1.0:
		return 85
	case sd <= 1.5:
		return 70
	default:
		return 50
	}
}

func formatCounts(counts [consistencyWeeks]int) string {
	parts := make([]string, len(counts))
	// Oldest week first reads naturally left to right.
	for i := range counts {
		parts[i] = fmt.Sprint(counts[len(counts)-1-i])
	}
	return strings.Join(parts, " ")
}
