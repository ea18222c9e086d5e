package api

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/okian/vitals/internal/domain/model"
)

type sleepRequest struct {
	model.SleepRecord
}

func (r *sleepRequest) validate() error {
	rec := r.SleepRecord
	for _, f := range []struct {
		name  string
		value int
	}{
		{"total_sleep_duration", rec.TotalSleepDuration},
		{"rem_sleep_duration", rec.REMSleepDuration},
		{"deep_sleep_duration", rec.DeepSleepDuration},
		{"light_sleep_duration", rec.LightSleepDuration},
		{"latency", rec.Latency},
		{"time_in_bed", rec.TimeInBed},
		{"restless_periods", rec.RestlessPeriods},
	} {
		if f.value < 0 {
			return fmt.Errorf("%s must not be negative", f.name)
		}
	}
	switch {
	case rec.Efficiency < 0 || rec.Efficiency > 100 || math.IsNaN(rec.Efficiency):
		return errors.New("efficiency must be within 0..100")
	case rec.BedtimeStart.IsZero():
		return errors.New("missing bedtime_start")
	}
	return nil
}

type readinessRequest struct {
	Today       model.DailyBiometric   `json:"today"`
	Manual      *model.DailyBiometric  `json:"manual,omitempty"`
	History     []model.DailyBiometric `json:"history"`
	Demographic *model.Demographic     `json:"demographic,omitempty"`
}

func (r *readinessRequest) validate() error {
	if r.Today.Date.IsZero() {
		return errors.New("missing today.date")
	}
	if err := validateDay("today", r.Today); err != nil {
		return err
	}
	if r.Manual != nil {
		if err := validateDay("manual", *r.Manual); err != nil {
			return err
		}
		if !r.Manual.Date.IsZero() && !model.SameDay(r.Manual.Date, r.Today.Date) {
			return errors.New("manual.date must match today.date")
		}
	}
	return validateHistory(r.History, r.Demographic)
}

type seriesRequest struct {
	History     []model.DailyBiometric `json:"history"`
	Days        int                    `json:"days"`
	Demographic *model.Demographic     `json:"demographic,omitempty"`
}

func (r *seriesRequest) validate() error {
	if len(r.History) == 0 {
		return errors.New("missing history")
	}
	if r.Days < 1 {
		return errors.New("days must be positive")
	}
	return validateHistory(r.History, r.Demographic)
}

type activityRequest struct {
	Activities []model.ActivityRecord `json:"activities"`
	AsOf       time.Time              `json:"as_of"`
}

func (r *activityRequest) validate() error {
	return validateActivities(r.Activities)
}

type dashboardRequest struct {
	Sleep       *model.SleepRecord     `json:"sleep,omitempty"`
	Today       *model.DailyBiometric  `json:"today,omitempty"`
	Manual      *model.DailyBiometric  `json:"manual,omitempty"`
	History     []model.DailyBiometric `json:"history,omitempty"`
	Demographic *model.Demographic     `json:"demographic,omitempty"`
	Activities  []model.ActivityRecord `json:"activities,omitempty"`
	AsOf        time.Time              `json:"as_of"`
}

func (r *dashboardRequest) validate() error {
	if r.Sleep != nil {
		s := sleepRequest{SleepRecord: *r.Sleep}
		if err := s.validate(); err != nil {
			return fmt.Errorf("sleep: %w", err)
		}
	}
	if r.Today != nil {
		rr := readinessRequest{Today: *r.Today, Manual: r.Manual, History: r.History, Demographic: r.Demographic}
		if err := rr.validate(); err != nil {
			return err
		}
	}
	return validateActivities(r.Activities)
}

func validateDay(field string, d model.DailyBiometric) error {
	for _, m := range model.AllMetrics {
		v := d.Reading(m)
		if v.Available() && (math.IsNaN(v.Value) || math.IsInf(v.Value, 0)) {
			return fmt.Errorf("%s.%s must be finite", field, m)
		}
	}
	return nil
}

func validateHistory(history []model.DailyBiometric, demographic *model.Demographic) error {
	for i, d := range history {
		if d.Date.IsZero() {
			return fmt.Errorf("history[%d] missing date", i)
		}
		if i > 0 && d.Date.Before(history[i-1].Date) {
			return fmt.Errorf("history must be chronological at index %d", i)
		}
		if err := validateDay(fmt.Sprintf("history[%d]", i), d); err != nil {
			return err
		}
	}
	if demographic != nil {
		return demographic.Validate()
	}
	return nil
}

func validateActivities(activities []model.ActivityRecord) error {
	for i, a := range activities {
		switch {
		case a.StartTime.IsZero():
			return fmt.Errorf("activities[%d] missing start_time", i)
		case a.MovingTime < 0:
			return fmt.Errorf("activities[%d] moving_time must not be negative", i)
		}
	}
	return nil
}
