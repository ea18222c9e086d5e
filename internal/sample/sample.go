// Package sample generates synthetic wearable data for demos and smoke tests.
//
// The generated document has the shape accepted by the dashboard endpoint, so
// it can be piped straight into "vitals score dashboard".
package sample

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/okian/vitals/internal/domain/model"
)

// Profile shapes the scored day relative to the generated baseline.
type Profile string

// Profiles.
const (
	ProfileSteady   Profile = "steady"
	ProfileStrained Profile = "strained"
	ProfileSick     Profile = "sick"
)

// Profiles lists every supported profile.
var Profiles = []Profile{ProfileSteady, ProfileStrained, ProfileSick}

// Baseline and noise for generated biometrics.
const (
	baseHRV  = 55.0
	baseRHR  = 52.0
	baseTemp = 0.0
	baseResp = 14.5

	noiseHRV  = 4.0
	noiseRHR  = 1.5
	noiseTemp = 0.12
	noiseResp = 0.3

	strainedHRVDrop  = 15.0
	strainedRHRRise  = 6.0
	sickTemp         = 1.1
	sickRespRise     = 2.5
	sickHRVDrop      = 10.0
	strainedLoadGain = 2.0
)

// Activity generation.
const (
	activityDays    = 56
	activityChance  = 0.6
	minSessionMins  = 30
	sessionMinRange = 30
	acuteDays       = 7
)

const (
	targetSleepHours = 7.5
	minSleepHours    = 5.0
	secondsPerMinute = 60
	defaultDays      = 30
	wakeHour         = 7
)

// Config controls Generate.
type Config struct {
	Days    int
	Seed    uint64
	Profile Profile
	End     time.Time
}

// Data is a generated input document.
type Data struct {
	Sleep      *model.SleepRecord     `json:"sleep"`
	Today      *model.DailyBiometric  `json:"today"`
	History    []model.DailyBiometric `json:"history"`
	Activities []model.ActivityRecord `json:"activities"`
	AsOf       time.Time              `json:"as_of"`
}

// Generate builds a deterministic sample for the configured seed.
func Generate(opts ...Option) (Data, error) {
	now := time.Now().UTC()
	cfg := Config{
		Days:    defaultDays,
		Seed:    1,
		Profile: ProfileSteady,
		End:     time.Date(now.Year(), now.Month(), now.Day(), wakeHour, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Days < 1 {
		return Data{}, fmt.Errorf("%w: %d", ErrInvalidDays, cfg.Days)
	}
	if !slices.Contains(Profiles, cfg.Profile) {
		return Data{}, fmt.Errorf("%w: %q", ErrUnknownProfile, cfg.Profile)
	}

	g := &generator{cfg: cfg, rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))} //nolint:gosec // reproducible demo data
	history := g.history()
	today := g.today()
	night := g.sleep()
	return Data{
		Sleep:      &night,
		Today:      &today,
		History:    history,
		Activities: g.activities(),
		AsOf:       cfg.End,
	}, nil
}

type generator struct {
	cfg Config
	rng *rand.Rand
}

func (g *generator) noise(sd float64) float64 {
	return g.rng.NormFloat64() * sd
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func (g *generator) day(date time.Time) model.DailyBiometric {
	return model.DailyBiometric{
		Date:                 date,
		HRV:                  model.Ring(round1(baseHRV + g.noise(noiseHRV))),
		RestingHR:            model.Ring(round1(baseRHR + g.noise(noiseRHR))),
		TemperatureDeviation: model.Ring(round1(baseTemp + g.noise(noiseTemp))),
		RespiratoryRate:      model.Ring(round1(baseResp + g.noise(noiseResp))),
	}
}

func (g *generator) history() []model.DailyBiometric {
	out := make([]model.DailyBiometric, g.cfg.Days)
	for i := range out {
		out[i] = g.day(g.cfg.End.AddDate(0, 0, i-g.cfg.Days))
	}
	return out
}

func (g *generator) today() model.DailyBiometric {
	d := g.day(g.cfg.End)
	switch g.cfg.Profile {
	case ProfileStrained:
		d.HRV.Value = round1(baseHRV - strainedHRVDrop)
		d.RestingHR.Value = round1(baseRHR + strainedRHRRise)
	case ProfileSick:
		d.HRV.Value = round1(baseHRV - sickHRVDrop)
		d.TemperatureDeviation.Value = sickTemp
		d.RespiratoryRate.Value = round1(baseResp + sickRespRise)
	}
	return d
}

func (g *generator) sleep() model.SleepRecord {
	total := int(math.Max(minSleepHours, targetSleepHours+g.noise(0.4)) * 3600)
	efficiency := math.Round(88 + g.rng.Float64()*7)
	latency := (10 + g.rng.IntN(11)) * secondsPerMinute
	rem := int(float64(total) * (0.2 + g.rng.Float64()*0.04))
	deep := int(float64(total) * (0.15 + g.rng.Float64()*0.05))
	bedtime := g.cfg.End.Add(-time.Duration(total+latency)*time.Second - 30*time.Minute)
	return model.SleepRecord{
		TotalSleepDuration: total,
		Efficiency:         efficiency,
		RestlessPeriods:    g.rng.IntN(20),
		REMSleepDuration:   rem,
		DeepSleepDuration:  deep,
		LightSleepDuration: total - rem - deep,
		Latency:            latency,
		BedtimeStart:       bedtime,
		TimeInBed:          int(float64(total) * 100 / efficiency),
	}
}

func (g *generator) activities() []model.ActivityRecord {
	var out []model.ActivityRecord
	for i := activityDays - 1; i >= 0; i-- {
		if g.rng.Float64() >= activityChance {
			continue
		}
		mins := float64(minSessionMins + g.rng.IntN(sessionMinRange))
		if g.cfg.Profile == ProfileStrained && i < acuteDays {
			mins *= strainedLoadGain
		}
		start := g.cfg.End.AddDate(0, 0, -i).Add(10 * time.Hour)
		if start.After(g.cfg.End) {
			start = g.cfg.End.Add(-time.Hour)
		}
		out = append(out, model.ActivityRecord{
			ID:         uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "%d/%d", g.cfg.Seed, i)).String(),
			Name:       "Run",
			Type:       "Run",
			StartTime:  start,
			MovingTime: int(mins) * secondsPerMinute,
		})
	}
	return out
}
