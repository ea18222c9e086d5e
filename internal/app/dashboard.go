package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/vitals/internal/domain/load"
	"github.com/okian/vitals/internal/domain/model"
)

const placeholder = "--"

// DashboardInput gathers everything needed to score one day. Any section may
// be omitted; omitted sections are left out of the result.
type DashboardInput struct {
	Sleep       *model.SleepRecord
	Today       *model.DailyBiometric
	Manual      *model.DailyBiometric
	History     []model.DailyBiometric
	Demographic *model.Demographic
	Activities  []model.ActivityRecord
	AsOf        time.Time
}

// Dashboard is the combined view of all scored dimensions.
type Dashboard struct {
	Sleep       *SleepResult            `json:"sleep,omitempty"`
	Readiness   *ReadinessResult        `json:"readiness,omitempty"`
	Load        *load.LoadDetail        `json:"load,omitempty"`
	Consistency *load.ConsistencyDetail `json:"consistency,omitempty"`
	// Headline is a one-line summary suitable for an assistant prompt.
	Headline string `json:"headline"`
}

// Dashboard scores every section present in in.
func (s *Service) Dashboard(ctx context.Context, in DashboardInput) (Dashboard, error) {
	defer s.track(ctx, calcDashboard, time.Now())

	var out Dashboard
	if in.Sleep != nil {
		r := s.SleepScore(ctx, *in.Sleep)
		out.Sleep = &r
	}
	if in.Today != nil || in.Manual != nil {
		var today model.DailyBiometric
		if in.Today != nil {
			today = *in.Today
		}
		r, err := s.Readiness(ctx, ReadinessInput{
			Today:       today,
			Manual:      in.Manual,
			History:     in.History,
			Demographic: in.Demographic,
		})
		if err != nil {
			return Dashboard{}, err
		}
		out.Readiness = &r
	}
	if in.Activities != nil {
		l := s.Load(ctx, in.Activities, in.AsOf)
		c := s.Consistency(ctx, in.Activities, in.AsOf)
		out.Load = &l
		out.Consistency = &c
	}
	out.Headline = headline(out)
	return out, nil
}

// headline renders the dashboard as "Readiness 82 (Prime) · Sleep 88 · ...".
// Fallback scores are shown as "--".
func headline(d Dashboard) string {
	var parts []string
	if d.Readiness != nil {
		parts = append(parts, fmt.Sprintf("Readiness %s (%s)",
			scoreText(d.Readiness.Score, d.Readiness.Fallback), d.Readiness.Status.Label))
	}
	if d.Sleep != nil {
		parts = append(parts, "Sleep "+scoreText(d.Sleep.Score.TotalScore, d.Sleep.Dimension.Fallback))
	}
	if d.Load != nil {
		ratio := fmt.Sprintf("%.2f", d.Load.Ratio)
		if d.Load.Fallback {
			ratio = placeholder
		}
		parts = append(parts, fmt.Sprintf("Load %s, ACWR %s", d.Load.Zone, ratio))
	}
	if d.Consistency != nil {
		parts = append(parts, "Consistency "+scoreText(d.Consistency.Score, d.Consistency.Fallback))
	}
	if len(parts) == 0 {
		return "No data"
	}
	return strings.Join(parts, " · ")
}

func scoreText(score float64, fallback bool) string {
	if fallback {
		return placeholder
	}
	return fmt.Sprintf("%.0f", score)
}
