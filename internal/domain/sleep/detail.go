package sleep

import (
	"fmt"
	"sort"

	"github.com/okian/vitals/internal/domain/model"
	"github.com/okian/vitals/internal/domain/types"
)

// displayOrder lists components as a dashboard shows them.
var displayOrder = []string{
	ComponentTotalSleep,
	ComponentEfficiency,
	ComponentRestfulness,
	ComponentREM,
	ComponentDeep,
	ComponentLatency,
	ComponentTiming,
}

var suggestions = map[string]string{
	ComponentTotalSleep:  "Aim for 7 to 9 hours of sleep tonight.",
	ComponentEfficiency:  "Keep the bed for sleep; get up if you lie awake for long.",
	ComponentRestfulness: "Cut late caffeine and alcohol to reduce restless periods.",
	ComponentREM:         "A consistent wake time helps protect REM sleep.",
	ComponentDeep:        "Avoid heavy meals and hard training close to bedtime to support deep sleep.",
	ComponentLatency:     "Wind down for 30 minutes before bed to settle sleep onset.",
	ComponentTiming:      "Try to start sleep between 21:00 and 23:00.",
}

const wellRestedSuggestion = "Sleep was on target. Keep the same routine."

// Dimension renders a sleep composite as a dimension breakdown. A night has no
// history, so the trend is always stable.
func Dimension(score types.CompositeScore, rec model.SleepRecord) types.DimensionDetail {
	detail := types.DimensionDetail{
		Score:      score.TotalScore,
		Trend:      types.TrendStable,
		Suggestion: wellRestedSuggestion,
		Fallback:   rec.TotalSleepDuration <= 0,
	}

	display := map[string]string{
		ComponentTotalSleep:  formatDuration(rec.TotalSleepDuration),
		ComponentEfficiency:  fmt.Sprintf("%.0f%%", rec.Efficiency),
		ComponentRestfulness: fmt.Sprintf("%d restless", rec.RestlessPeriods),
		ComponentREM:         fmt.Sprintf("%.0f%%", rec.REMPercent()),
		ComponentDeep:        fmt.Sprintf("%.0f%%", rec.DeepPercent()),
		ComponentLatency:     fmt.Sprintf("%.0f min", rec.LatencyMinutes()),
		ComponentTiming:      rec.BedtimeStart.Format("15:04"),
	}

	type deficit struct {
		name string
		lost float64
	}
	var deficits []deficit
	for _, name := range displayOrder {
		c := score.Components[name]
		detail.Components = append(detail.Components, types.DetailComponent{
			Name:         name,
			DisplayValue: display[name],
			Contribution: c.Score * c.Weight,
		})
		if lost := (100 - c.Score) * c.Weight; lost > 0 {
			deficits = append(deficits, deficit{name: name, lost: lost})
		}
	}

	if len(deficits) > 0 {
		sort.SliceStable(deficits, func(i, j int) bool { return deficits[i].lost > deficits[j].lost })
		detail.Suggestion = suggestions[deficits[0].name]
	}
	return detail
}

func formatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dh %02dm", seconds/3600, (seconds%3600)/60)
}
