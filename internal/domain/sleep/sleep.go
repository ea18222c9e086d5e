// Package sleep scores a single night of sleep against fixed physiological
// targets. Scoring needs no history.
package sleep

import (
	"math"
	"time"

	"github.com/okian/vitals/internal/domain/model"
	"github.com/okian/vitals/internal/domain/scoring"
	"github.com/okian/vitals/internal/domain/types"
)

// Component names of the sleep composite.
const (
	ComponentTotalSleep  = "totalSleep"
	ComponentEfficiency  = "efficiency"
	ComponentRestfulness = "restfulness"
	ComponentREM         = "remSleep"
	ComponentDeep        = "deepSleep"
	ComponentLatency     = "latency"
	ComponentTiming      = "timing"

	calculatorName = "sleep"
	minutesPerHour = 60.0
)

// DefaultWeights are the fixed component weights. They sum to 1.
var DefaultWeights = scoring.Weights{
	ComponentTotalSleep:  0.25,
	ComponentEfficiency:  0.20,
	ComponentRestfulness: 0.15,
	ComponentREM:         0.15,
	ComponentDeep:        0.10,
	ComponentLatency:     0.10,
	ComponentTiming:      0.05,
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

// WithLocation converts bedtimes into loc before reading the local hour.
func WithLocation(loc *time.Location) Option {
	return func(c *Calculator) {
		c.location = loc
	}
}

// Calculator computes sleep scores. It is immutable and safe for concurrent
// use.
type Calculator struct {
	observer scoring.Observer
	location *time.Location
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

// Compute scores rec with the default calculator.
func Compute(rec model.SleepRecord) types.CompositeScore {
	return defaultCalculator.Compute(rec)
}

// Compute scores a single night.
func (c *Calculator) Compute(rec model.SleepRecord) types.CompositeScore {
	hours := rec.TotalSleepHours()
	// Zero total sleep resolves stage percentages to 0.
	remPct := rec.REMPercent()
	deepPct := rec.DeepPercent()
	latency := rec.LatencyMinutes()
	hour := c.bedtimeHour(rec.BedtimeStart)

	raw := map[string]float64{
		ComponentTotalSleep:  TotalSleepScore(hours),
		ComponentEfficiency:  EfficiencyScore(rec.Efficiency),
		ComponentRestfulness: RestfulnessScore(rec.RestlessPeriods, hours),
		ComponentREM:         REMScore(remPct),
		ComponentDeep:        DeepScore(deepPct),
		ComponentLatency:     LatencyScore(latency),
		ComponentTiming:      TimingScore(hour),
	}

	inputs := map[string]float64{
		ComponentTotalSleep:  hours,
		ComponentEfficiency:  rec.Efficiency,
		ComponentRestfulness: float64(rec.RestlessPeriods),
		ComponentREM:         remPct,
		ComponentDeep:        deepPct,
		ComponentLatency:     latency,
		ComponentTiming:      float64(hour),
	}
	for _, name := range DefaultWeights.Names() {
		c.observer.Observe(scoring.Event{
			Calculator: calculatorName,
			Component:  name,
			Input:      inputs[name],
			Score:      scoring.Clamp(raw[name]),
		})
	}

	return scoring.Compose(DefaultWeights, raw)
}

func (c *Calculator) bedtimeHour(t time.Time) int {
	if c.location != nil {
		t = t.In(c.location)
	}
	return t.Hour()
}

// TotalSleepScore scores total sleep in hours. 7 to 9 hours is ideal.
func TotalSleepScore(h float64) float64 {
	switch {
	case h >= 7 && h <= 9:
		return 100
	case h >= 6 && h < 7:
		return scoring.Ramp(h, 6, 7, 80, 100)
	case h > 9 && h <= 10:
		return scoring.Ramp(h, 9, 10, 100, 80)
	case h >= 5 && h < 6:
		return scoring.Ramp(h, 5, 6, 60, 80)
	case h > 10 && h <= 11:
		return scoring.Ramp(h, 10, 11, 80, 60)
	case h < 5:
		return math.Max(20, 60-(5-h)*15)
	default:
		return math.Max(20, 60-(h-11)*10)
	}
}

// EfficiencyScore passes the efficiency percentage through, capped at 100.
func EfficiencyScore(pct float64) float64 {
	return scoring.Clamp(math.Min(100, pct))
}

// RestfulnessScore scores restless periods per minute of sleep. Zero sleep
// resolves the rate to 0.
func RestfulnessScore(restlessPeriods int, sleepHours float64) float64 {
	rate := scoring.Ratio(float64(restlessPeriods), sleepHours*minutesPerHour)
	switch {
	case rate <= 0.5:
		return 100
	case rate <= 1.0:
		return scoring.Ramp(rate, 0.5, 1.0, 100, 80)
	case rate <= 2.0:
		return scoring.Ramp(rate, 1.0, 2.0, 80, 50)
	default:
		return math.Max(20, 50-(rate-2.0)*10)
	}
}

// REMScore scores the REM share of total sleep in percent.
func REMScore(pct float64) float64 {
	switch {
	case pct >= 20 && pct <= 25:
		return 100
	case pct >= 15 && pct < 20:
		return scoring.Ramp(pct, 15, 20, 80, 100)
	case pct > 25 && pct <= 30:
		return scoring.Ramp(pct, 25, 30, 100, 80)
	case pct >= 10 && pct < 15:
		return scoring.Ramp(pct, 10, 15, 60, 80)
	case pct > 30 && pct <= 35:
		return scoring.Ramp(pct, 30, 35, 80, 60)
	default:
		return 40
	}
}

// DeepScore scores the deep-sleep share of total sleep in percent.
func DeepScore(pct float64) float64 {
	switch {
	case pct >= 15 && pct <= 20:
		return 100
	case pct >= 10 && pct < 15:
		return scoring.Ramp(pct, 10, 15, 80, 100)
	case pct > 20 && pct <= 25:
		return scoring.Ramp(pct, 20, 25, 100, 80)
	case pct >= 5 && pct < 10:
		return scoring.Ramp(pct, 5, 10, 60, 80)
	case pct < 5:
		return 50
	default:
		// Beyond 25% keep the same slope, floored at 60.
		return math.Max(60, scoring.Ramp(pct, 25, 30, 80, 60))
	}
}

// LatencyScore scores the minutes taken to fall asleep. Falling asleep in
// under five minutes is penalized as a sign of sleep debt.
func LatencyScore(m float64) float64 {
	switch {
	case m >= 10 && m <= 20:
		return 100
	case m >= 5 && m < 10:
		return scoring.Ramp(m, 5, 10, 90, 100)
	case m > 20 && m <= 30:
		return 100 - (m-20)*2
	case m < 5:
		return 90 - (5-m)*5
	default:
		return math.Max(40, 80-(m-30)*2)
	}
}

// TimingScore scores the local hour the sleep period started.
func TimingScore(hour int) float64 {
	switch {
	case hour >= 21 && hour <= 23:
		return 100
	case hour == 20:
		return 90
	case hour == 0 || hour == 1 || hour == 19:
		return 85
	case hour == 2 || hour == 3 || hour == 18:
		return 75
	default:
		return 60
	}
}
