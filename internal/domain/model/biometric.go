package model

import (
	"fmt"
	"time"
)

// Metric names a biometric tracked by the readiness calculator.
type Metric string

// Biometric metrics in display order.
const (
	MetricHRV         Metric = "hrv"
	MetricRestingHR   Metric = "rhr"
	MetricTemperature Metric = "temperature"
	MetricRespiratory Metric = "respiratory"
)

// AllMetrics lists every biometric metric in display order.
var AllMetrics = []Metric{MetricHRV, MetricRestingHR, MetricTemperature, MetricRespiratory}

// MetricUnits maps metrics to their display units.
var MetricUnits = map[Metric]string{
	MetricHRV:         "ms",
	MetricRestingHR:   "bpm",
	MetricTemperature: "°C",
	MetricRespiratory: "br/min",
}

// DailyBiometric is one day of recovery biometrics.
type DailyBiometric struct {
	Date                 time.Time `json:"date"`
	HRV                  Reading   `json:"hrv"`                   // ms
	RestingHR            Reading   `json:"resting_hr"`            // bpm
	TemperatureDeviation Reading   `json:"temperature_deviation"` // °C relative to personal norm
	RespiratoryRate      Reading   `json:"respiratory_rate"`      // breaths/min
}

// Reading returns the reading for metric m.
func (d DailyBiometric) Reading(m Metric) Reading {
	switch m {
	case MetricHRV:
		return d.HRV
	case MetricRestingHR:
		return d.RestingHR
	case MetricTemperature:
		return d.TemperatureDeviation
	case MetricRespiratory:
		return d.RespiratoryRate
	default:
		return Reading{}
	}
}

// Merge combines two records of the same day metric by metric. Readings from
// primary win; secondary fills the gaps. The date of primary is kept unless it
// is zero.
func Merge(primary, secondary DailyBiometric) DailyBiometric {
	out := DailyBiometric{
		Date:                 primary.Date,
		HRV:                  Prefer(primary.HRV, secondary.HRV),
		RestingHR:            Prefer(primary.RestingHR, secondary.RestingHR),
		TemperatureDeviation: Prefer(primary.TemperatureDeviation, secondary.TemperatureDeviation),
		RespiratoryRate:      Prefer(primary.RespiratoryRate, secondary.RespiratoryRate),
	}
	if out.Date.IsZero() {
		out.Date = secondary.Date
	}
	return out
}

// SameDay reports whether a and b fall on the same calendar date. The
// comparison uses each timestamp's own location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Gender is used to pick population norms.
type Gender string

// Supported genders.
const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
	GenderOther  Gender = "other"
)

// AgeBucket is a coarse age range.
type AgeBucket string

// Supported age buckets.
const (
	Age18to29 AgeBucket = "18-29"
	Age30to39 AgeBucket = "30-39"
	Age40to49 AgeBucket = "40-49"
	Age50to59 AgeBucket = "50-59"
	Age60Plus AgeBucket = "60+"
)

// Demographic parametrizes readiness scoring with population norms.
type Demographic struct {
	Gender    Gender    `json:"gender"`
	AgeBucket AgeBucket `json:"age_bucket"`
}

// Validate checks that both fields name known values.
func (d Demographic) Validate() error {
	switch d.Gender {
	case GenderFemale, GenderMale, GenderOther:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGender, d.Gender)
	}
	switch d.AgeBucket {
	case Age18to29, Age30to39, Age40to49, Age50to59, Age60Plus:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAge, d.AgeBucket)
	}
	return nil
}
