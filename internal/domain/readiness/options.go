package readiness

import "github.com/okian/vitals/internal/domain/scoring"

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithWindowDays sets how many trailing history entries form the baseline.
func WithWindowDays(days int) Option {
	return func(c *Calculator) {
		if days > 0 {
			c.windowDays = days
		}
	}
}

// WithMinSamples sets the minimum number of baseline readings required before
// a metric is scored against its baseline.
func WithMinSamples(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.minSamples = n
		}
	}
}

// WithTemperatureThreshold sets the deviation in °C above which temperature is
// flagged as elevated.
func WithTemperatureThreshold(celsius float64) Option {
	return func(c *Calculator) {
		if celsius > 0 {
			c.temperatureThreshold = celsius
		}
	}
}

// WithRespiratoryThreshold sets the rise over baseline in breaths/min above
// which respiratory rate is flagged as elevated.
func WithRespiratoryThreshold(bpm float64) Option {
	return func(c *Calculator) {
		if bpm > 0 {
			c.respiratoryThreshold = bpm
		}
	}
}

// WithObserver installs an instrumentation hook.
func WithObserver(o scoring.Observer) Option {
	return func(c *Calculator) {
		if o != nil {
			c.observer = o
		}
	}
}
