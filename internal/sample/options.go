package sample

import "time"

// Option configures Generate.
type Option func(*Config)

// WithDays sets the number of history days before the scored day.
func WithDays(n int) Option {
	return func(c *Config) { c.Days = n }
}

// WithSeed sets the random seed. Equal seeds give equal data.
func WithSeed(seed uint64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithProfile selects how the scored day deviates from the baseline.
func WithProfile(p Profile) Option {
	return func(c *Config) { c.Profile = p }
}

// WithEnd sets the scored day. The time of day is kept as the wake time.
func WithEnd(t time.Time) Option {
	return func(c *Config) {
		if !t.IsZero() {
			c.End = t
		}
	}
}
