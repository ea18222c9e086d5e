package model

import "time"

// Unit conversion constants.
const (
	secondsPerMinute = 60.0
	secondsPerHour   = 3600.0
)

// SleepRecord summarizes a single night of sleep. Durations are in seconds.
type SleepRecord struct {
	TotalSleepDuration int       `json:"total_sleep_duration"`
	Efficiency         float64   `json:"efficiency"` // percent, 0-100
	RestlessPeriods    int       `json:"restless_periods"`
	REMSleepDuration   int       `json:"rem_sleep_duration"`
	DeepSleepDuration  int       `json:"deep_sleep_duration"`
	LightSleepDuration int       `json:"light_sleep_duration"`
	Latency            int       `json:"latency"`
	BedtimeStart       time.Time `json:"bedtime_start"`
	TimeInBed          int       `json:"time_in_bed"`
}

// TotalSleepHours returns the total sleep duration in hours.
func (r SleepRecord) TotalSleepHours() float64 {
	return float64(r.TotalSleepDuration) / secondsPerHour
}

// REMPercent returns REM sleep as a percentage of total sleep, or 0 when no
// sleep was recorded.
func (r SleepRecord) REMPercent() float64 {
	return percentOfSleep(r.REMSleepDuration, r.TotalSleepDuration)
}

// DeepPercent returns deep sleep as a percentage of total sleep, or 0 when no
// sleep was recorded.
func (r SleepRecord) DeepPercent() float64 {
	return percentOfSleep(r.DeepSleepDuration, r.TotalSleepDuration)
}

func percentOfSleep(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}

// LatencyMinutes returns sleep latency in minutes.
func (r SleepRecord) LatencyMinutes() float64 {
	return float64(r.Latency) / secondsPerMinute
}
