// Package load scores training load (acute:chronic workload ratio) and weekly
// training consistency from an activity history.
package load

import (
	"fmt"
	"time"

	"github.com/okian/vitals/internal/domain/model"
	"github.com/okian/vitals/internal/domain/scoring"
	"github.com/okian/vitals/internal/domain/types"
)

// Window constants for ACWR.
const (
	acuteDays       = 7
	chronicDays     = 42
	daysPerWeek     = 7
	minChronic      = 10.0 // minutes per week
	noBaselineRatio = 2.0
	neutralRatio    = 1.0

	improvingRatio = 1.05
	decliningRatio = 0.95

	calculatorName = "load"
)

// Zone is an ACWR risk band.
type Zone string

// ACWR zones.
const (
	ZonePerfectGrowth Zone = "Perfect Growth Zone"
	ZoneMaintenance   Zone = "Maintenance Mode"
	ZoneAggressive    Zone = "Aggressive Build"
	ZoneDetraining    Zone = "Detraining Risk"
	ZoneDanger        Zone = "Danger Zone — too much too soon"
)

var zoneSuggestions = map[Zone]string{
	ZonePerfectGrowth: "Load is building at a sustainable rate. Keep progressing.",
	ZoneMaintenance:   "Load is steady. Add a little volume if you want to build fitness.",
	ZoneAggressive:    "Load is climbing quickly. Schedule an easier day soon.",
	ZoneDetraining:    "Recent load is below your norm. Ease back in with consistent sessions.",
	ZoneDanger:        "This week is far above your norm. Cut volume to lower injury risk.",
}

// LoadDetail is the ACWR result. The embedded dimension is what displays use;
// the raw figures support explanations.
type LoadDetail struct {
	types.DimensionDetail
	AcuteMinutes   float64 `json:"acute_minutes"`
	ChronicMinutes float64 `json:"chronic_minutes"` // weekly rate
	Ratio          float64 `json:"ratio"`
	Zone           Zone    `json:"zone"`
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithObserver installs an instrumentation hook.
func WithObserver(o scoring.Observer) Option {
	return func(c *Calculator) {
		if o != nil {
			c.observer = o
		}
	}
}

// Calculator computes load and consistency. It is immutable and safe for
// concurrent use.
type Calculator struct {
	observer scoring.Observer
}

// New creates a Calculator with configuration options.
func New(opts ...Option) *Calculator {
	c := &Calculator{observer: scoring.Nop}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCalculator = New()

// ComputeLoad scores ACWR with the default calculator.
func ComputeLoad(activities []model.ActivityRecord, asOf time.Time) LoadDetail {
	return defaultCalculator.Load(activities, asOf)
}

// ComputeConsistency scores weekly consistency with the default calculator.
func ComputeConsistency(activities []model.ActivityRecord, asOf time.Time) ConsistencyDetail {
	return defaultCalculator.Consistency(activities, asOf)
}

// Load scores the acute:chronic workload ratio as of the day containing asOf.
func (c *Calculator) Load(activities []model.ActivityRecord, asOf time.Time) LoadDetail {
	end := model.StartOfDay(asOf).AddDate(0, 0, 1)
	acute := sumMinutes(activities, end.AddDate(0, 0, -(acuteDays+1)), end)
	chronic := sumMinutes(activities, end.AddDate(0, 0, -(chronicDays+1)), end) / chronicDays * daysPerWeek

	ratio, fallback := Ratio(acute, chronic)
	zone, score := Classify(ratio)

	out := LoadDetail{
		DimensionDetail: types.DimensionDetail{
			Score:      score,
			Trend:      ratioTrend(ratio),
			Suggestion: zoneSuggestions[zone],
			Fallback:   fallback,
			Components: []types.DetailComponent{
				{Name: "acute", DisplayValue: fmt.Sprintf("%.0f min", acute)},
				{Name: "chronic", DisplayValue: fmt.Sprintf("%.0f min/wk", chronic)},
				{Name: "ratio", DisplayValue: fmt.Sprintf("%.2f", ratio), Contribution: score},
			},
		},
		AcuteMinutes:   acute,
		ChronicMinutes: chronic,
		Ratio:          ratio,
		Zone:           zone,
	}

	c.observer.Observe(scoring.Event{
		Calculator: calculatorName,
		Component:  "acwr",
		Input:      ratio,
		Score:      score,
		Fallback:   fallback,
	})
	return out
}

// Ratio computes ACWR from acute and weekly-normalized chronic minutes. The
// second result reports whether the ratio is a policy default rather than a
// measured value: 2.0 when there is activity but no chronic baseline, 1.0 when
// there is no activity at all.
func Ratio(acute, chronic float64) (float64, bool) {
	switch {
	case chronic > minChronic:
		return acute / chronic, false
	case acute > 0:
		return noBaselineRatio, true
	default:
		return neutralRatio, true
	}
}

// Classify maps a ratio to its zone and score.
func Classify(ratio float64) (Zone, float64) {
	switch {
	case ratio >= 1.10 && ratio <= 1.30:
		return ZonePerfectGrowth, 100
	case ratio >= 0.95 && ratio < 1.10:
		return ZoneMaintenance, 85
	case ratio > 1.30 && ratio <= 1.45:
		return ZoneAggressive, 80
	case ratio < 0.95:
		return ZoneDetraining, 60
	default:
		return ZoneDanger, 50
	}
}

func ratioTrend(ratio float64) types.Trend {
	switch {
	case ratio > improvingRatio:
		return types.TrendImproving
	case ratio < decliningRatio:
		return types.TrendDeclining
	default:
		return types.TrendStable
	}
}

// sumMinutes totals moving minutes of activities starting in [from, to).
func sumMinutes(activities []model.ActivityRecord, from, to time.Time) float64 {
	total := 0.0
	for _, a := range activities {
		if !a.StartTime.Before(from) && a.StartTime.Before(to) {
			total += a.MovingMinutes()
		}
	}
	return total
}
