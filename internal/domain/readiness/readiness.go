// Package readiness scores daily biometrics against a rolling personal
// baseline and aggregates them into a readiness score and status.
package readiness

import (
	"math"
	"time"

	"github.com/okian/vitals/internal/domain/model"
	"github.com/okian/vitals/internal/domain/scoring"
	"github.com/okian/vitals/internal/domain/types"
)

// Default readiness configuration constants.
const (
	defaultWindowDays           = 30
	defaultMinSamples           = 3
	defaultTemperatureThreshold = 0.8 // °C over personal norm
	defaultRespiratoryThreshold = 1.5 // breaths/min over baseline

	// baselineScore is what a value exactly at baseline earns.
	baselineScore    = 90.0
	favorableSlope   = 10.0
	unfavorableSlope = 20.0

	calculatorName = "readiness"
)

// orientation says which direction of deviation from baseline is favorable.
type orientation int

const (
	higherIsBetter orientation = iota
	lowerIsBetter
	twoSided
)

// metricSpec parametrizes the deviation transform for one metric.
type metricSpec struct {
	orientation orientation
	spreadFloor float64
	epsilon     float64
}

// Calculator computes readiness. It is immutable and safe for concurrent use.
type Calculator struct {
	windowDays           int
	minSamples           int
	temperatureThreshold float64
	respiratoryThreshold float64
	observer             scoring.Observer
}

// New creates a Calculator with configuration options.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		windowDays:           defaultWindowDays,
		minSamples:           defaultMinSamples,
		temperatureThreshold: defaultTemperatureThreshold,
		respiratoryThreshold: defaultRespiratoryThreshold,
		observer:             scoring.Nop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCalculator = New()

// Compute scores today with the default calculator.
func Compute(today model.DailyBiometric, history []model.DailyBiometric, demographic *model.Demographic) Result {
	return defaultCalculator.Compute(today, history, demographic)
}

// Compute scores today against the baseline built from history. History must
// be in chronological order; entries on today's date or later are ignored.
// demographic may be nil.
func (c *Calculator) Compute(today model.DailyBiometric, history []model.DailyBiometric, demographic *model.Demographic) Result {
	window := c.baselineWindow(today.Date, history)
	specs := c.specs(demographic)

	var details Details
	var valid []float64
	for _, m := range model.AllMetrics {
		d := c.scoreMetric(m, specs[m], today.Reading(m), window)
		details.set(m, d)
		if !d.Fallback {
			valid = append(valid, d.Score)
		}
		c.observer.Observe(scoring.Event{
			Calculator: calculatorName,
			Component:  string(m),
			Input:      d.Value,
			Score:      d.Score,
			Fallback:   d.Fallback,
		})
	}

	res := Result{
		Details: details,
		Breakdown: Breakdown{
			HRVScore:      details.HRV.Score,
			RHRScore:      details.RHR.Score,
			TempComponent: details.Temperature.Score,
			RespComponent: details.Respiratory.Score,
		},
	}
	if len(valid) == 0 {
		res.Score = 0
		res.Fallback = true
	} else {
		res.Score = scoring.Clamp(scoring.Mean(valid))
	}
	res.Status = statusFor(res.Score, details.Temperature.IsElevated, details.Respiratory.IsElevated)
	return res
}

// specs returns the per-metric transform parameters.
func (c *Calculator) specs(demographic *model.Demographic) map[model.Metric]metricSpec {
	hrvFloor, rhrFloor := spreadFloors(demographic)
	return map[model.Metric]metricSpec{
		model.MetricHRV:         {orientation: higherIsBetter, spreadFloor: hrvFloor, epsilon: 1.0},
		model.MetricRestingHR:   {orientation: lowerIsBetter, spreadFloor: rhrFloor, epsilon: 0.5},
		model.MetricTemperature: {orientation: twoSided, spreadFloor: 0.1, epsilon: 0.1},
		model.MetricRespiratory: {orientation: twoSided, spreadFloor: 0.3, epsilon: 0.2},
	}
}

// baselineWindow drops the scored day and later days, then keeps the trailing
// windowDays entries.
func (c *Calculator) baselineWindow(day time.Time, history []model.DailyBiometric) []model.DailyBiometric {
	cutoff := model.StartOfDay(day)
	out := make([]model.DailyBiometric, 0, len(history))
	for _, h := range history {
		if model.SameDay(h.Date, day) {
			continue
		}
		if !day.IsZero() && !h.Date.Before(cutoff) {
			continue
		}
		out = append(out, h)
	}
	if len(out) > c.windowDays {
		out = out[len(out)-c.windowDays:]
	}
	return out
}

func (c *Calculator) scoreMetric(m model.Metric, spec metricSpec, today model.Reading, window []model.DailyBiometric) MetricDetail {
	d := MetricDetail{
		Metric:       m,
		Unit:         model.MetricUnits[m],
		Source:       today.Source,
		Trend:        types.DirectionStable,
		InverseTrend: spec.orientation == lowerIsBetter,
	}
	if today.Available() {
		d.Value = today.Value
	}

	samples := make([]float64, 0, len(window))
	for _, h := range window {
		if r := h.Reading(m); r.Available() {
			samples = append(samples, r.Value)
		}
	}
	d.Samples = len(samples)
	if len(samples) > 0 {
		d.Baseline = scoring.Mean(samples)
		d.Spread = scoring.StdDev(samples)
	}

	// No reading today or too little history: neutral, never elevated.
	if !today.Available() || len(samples) < c.minSamples {
		d.Score = scoring.NeutralScore
		d.Fallback = true
		return d
	}

	delta := today.Value - d.Baseline
	spread := math.Max(d.Spread, spec.spreadFloor)
	var z float64
	switch spec.orientation {
	case higherIsBetter:
		z = delta / spread
	case lowerIsBetter:
		z = -delta / spread
	default:
		z = -math.Abs(delta) / spread
	}
	d.Score = DeviationScore(z)

	switch {
	case delta > spec.epsilon:
		d.Trend = types.DirectionUp
	case delta < -spec.epsilon:
		d.Trend = types.DirectionDown
	}

	switch m {
	case model.MetricTemperature:
		d.IsElevated = today.Value > c.temperatureThreshold
	case model.MetricRespiratory:
		d.IsElevated = delta > c.respiratoryThreshold
	}
	return d
}

// DeviationScore maps a favorable-positive z-score onto 0-100. A value at
// baseline scores 90; unfavorable deviations lose points twice as fast as
// favorable ones gain them.
func DeviationScore(z float64) float64 {
	if z >= 0 {
		return math.Min(scoring.MaxScore, baselineScore+favorableSlope*z)
	}
	return math.Max(scoring.MinScore, baselineScore+unfavorableSlope*z)
}
