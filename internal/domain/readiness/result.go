package readiness

import (
	"fmt"

	"github.com/okian/vitals/internal/domain/model"
	"github.com/okian/vitals/internal/domain/types"
)

// Status band thresholds.
const (
	primeThreshold = 80.0
	goodThreshold  = 50.0
)

// StatusCode identifies a readiness band.
type StatusCode string

// Readiness bands.
const (
	StatusPrime StatusCode = "prime"
	StatusGood  StatusCode = "good"
	StatusRest  StatusCode = "rest"
)

// Status is the readiness band together with its display strings.
type Status struct {
	Code    StatusCode `json:"code"`
	Label   string     `json:"label"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// Messages attached to statuses.
const (
	primeMessage       = "Your body is primed. A good day for high intensity or a key session."
	goodMessage        = "Recovery is adequate. Train as planned but keep an eye on intensity."
	restMessage        = "Recovery is low. Favor rest, mobility or easy movement today."
	temperatureMessage = "Body temperature is elevated. Take a rest day and watch for signs of illness."
	respiratoryMessage = "Respiratory rate is above your baseline; keep intensity light."
)

// statusFor bands score. Elevated temperature replaces the message; elevated
// respiratory rate appends a caution instead.
func statusFor(score float64, tempElevated, respElevated bool) Status {
	var s Status
	switch {
	case score >= primeThreshold:
		s = Status{Code: StatusPrime, Label: "Prime", Title: "Prime State", Message: primeMessage}
	case score >= goodThreshold:
		s = Status{Code: StatusGood, Label: "Good", Title: "Strained-Normal", Message: goodMessage}
	default:
		s = Status{Code: StatusRest, Label: "Rest Required", Title: "Recovery Needed", Message: restMessage}
	}
	switch {
	case tempElevated:
		s.Message = temperatureMessage
	case respElevated:
		s.Message = s.Message + " " + respiratoryMessage
	}
	return s
}

// MetricDetail is the scored state of one biometric.
//
// Trend is the raw direction of today's value against the baseline. For
// metrics with InverseTrend set, an upward trend is unfavorable; displays are
// expected to apply that inversion, the engine never does.
type MetricDetail struct {
	Metric       model.Metric    `json:"metric"`
	Value        float64         `json:"value"`
	Unit         string          `json:"unit"`
	Source       model.Source    `json:"source"`
	Baseline     float64         `json:"baseline"`
	Spread       float64         `json:"spread"`
	Samples      int             `json:"samples"`
	Score        float64         `json:"score"`
	Trend        types.Direction `json:"trend"`
	IsElevated   bool            `json:"is_elevated"`
	InverseTrend bool            `json:"inverse_trend"`
	Fallback     bool            `json:"fallback"`
}

// Details holds the per-metric results.
type Details struct {
	HRV         MetricDetail `json:"hrv"`
	RHR         MetricDetail `json:"rhr"`
	Temperature MetricDetail `json:"temperature"`
	Respiratory MetricDetail `json:"respiratory"`
}

func (d *Details) set(m model.Metric, md MetricDetail) {
	switch m {
	case model.MetricHRV:
		d.HRV = md
	case model.MetricRestingHR:
		d.RHR = md
	case model.MetricTemperature:
		d.Temperature = md
	case model.MetricRespiratory:
		d.Respiratory = md
	}
}

// Get returns the detail for metric m.
func (d Details) Get(m model.Metric) MetricDetail {
	switch m {
	case model.MetricHRV:
		return d.HRV
	case model.MetricRestingHR:
		return d.RHR
	case model.MetricTemperature:
		return d.Temperature
	default:
		return d.Respiratory
	}
}

// Breakdown lists the metric scores feeding the overall score.
type Breakdown struct {
	HRVScore      float64 `json:"hrv_score"`
	RHRScore      float64 `json:"rhr_score"`
	TempComponent float64 `json:"temp_component"`
	RespComponent float64 `json:"resp_component"`
}

// Result is the outcome of a readiness computation. Fallback is set when no
// metric had a usable baseline; Score is then 0 and must not be shown as a
// measured value.
type Result struct {
	Score     float64   `json:"score"`
	Status    Status    `json:"status"`
	Breakdown Breakdown `json:"breakdown"`
	Details   Details   `json:"details"`
	Fallback  bool      `json:"fallback"`
}

// Dimension renders the result as a dimension breakdown. Each scored metric
// contributes an equal share of the overall mean.
func (r Result) Dimension() types.DimensionDetail {
	detail := types.DimensionDetail{
		Score:      r.Score,
		Suggestion: r.Status.Message,
		Fallback:   r.Fallback,
	}

	valid := 0
	for _, m := range model.AllMetrics {
		if !r.Details.Get(m).Fallback {
			valid++
		}
	}

	balance := 0
	for _, m := range model.AllMetrics {
		md := r.Details.Get(m)
		row := types.DetailComponent{Name: string(m), DisplayValue: "--"}
		if !md.Fallback {
			row.DisplayValue = formatValue(md)
			row.Contribution = md.Score / float64(valid)
			balance += favorability(md)
		}
		detail.Components = append(detail.Components, row)
	}

	switch {
	case balance > 0:
		detail.Trend = types.TrendImproving
	case balance < 0:
		detail.Trend = types.TrendDeclining
	default:
		detail.Trend = types.TrendStable
	}
	return detail
}

// favorability turns a raw direction into +1, 0 or -1 for the metric.
func favorability(md MetricDetail) int {
	switch md.Metric {
	case model.MetricHRV:
		return directionSign(md.Trend)
	case model.MetricRestingHR:
		return -directionSign(md.Trend)
	default:
		// Any rise in temperature or breathing rate is a warning sign.
		if md.Trend == types.DirectionUp {
			return -1
		}
		return 0
	}
}

func directionSign(d types.Direction) int {
	switch d {
	case types.DirectionUp:
		return 1
	case types.DirectionDown:
		return -1
	default:
		return 0
	}
}

func formatValue(md MetricDetail) string {
	switch md.Metric {
	case model.MetricTemperature:
		return fmt.Sprintf("%+.1f %s", md.Value, md.Unit)
	case model.MetricRespiratory:
		return fmt.Sprintf("%.1f %s", md.Value, md.Unit)
	default:
		return fmt.Sprintf("%.0f %s", md.Value, md.Unit)
	}
}
