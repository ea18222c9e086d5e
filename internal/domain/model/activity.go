package model

import "time"

// ActivityRecord is a completed workout.
type ActivityRecord struct {
	ID         string    `json:"id,omitempty"`
	Name       string    `json:"name,omitempty"`
	Type       string    `json:"type,omitempty"`
	StartTime  time.Time `json:"start_time"`
	MovingTime int       `json:"moving_time"` // seconds
}

// MovingMinutes returns the moving time in minutes.
func (a ActivityRecord) MovingMinutes() float64 {
	return float64(a.MovingTime) / secondsPerMinute
}
