package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	service "github.com/okian/vitals/internal/app"
	"github.com/okian/vitals/internal/domain/load"
	"github.com/okian/vitals/internal/domain/model"
	"github.com/okian/vitals/internal/domain/types"
)

// Score bands used for coloring.
const (
	highScore = 85
	midScore  = 70
)

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)
	red   = color.New(color.FgRed)
)

func scoreColor(score float64) *color.Color {
	switch {
	case score >= highScore:
		return color.New(color.FgGreen, color.Bold)
	case score >= midScore:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// scoreString renders a score, or "--" for fallback values.
func scoreString(score float64, fallback bool) string {
	if fallback {
		return faint.Sprint("--")
	}
	return scoreColor(score).Sprintf("%.0f", score)
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func renderDimension(w io.Writer, title string, d types.DimensionDetail) {
	fmt.Fprintf(w, "%s %s\n", bold.Sprint(padRight(title, 12)), scoreString(d.Score, d.Fallback))
	for _, c := range d.Components {
		fmt.Fprintf(w, "  %s %s %s\n",
			padRight(c.Name, 20),
			padRight(c.DisplayValue, 14),
			faint.Sprintf("%.1f", c.Contribution))
	}
	if d.Trend != "" {
		fmt.Fprintf(w, "  %s %s\n", faint.Sprint("trend"), d.Trend)
	}
	if d.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", d.Suggestion)
	}
}

func renderSleep(w io.Writer, r service.SleepResult) {
	renderDimension(w, "Sleep", r.Dimension)
}

func renderReadiness(w io.Writer, r service.ReadinessResult) {
	renderDimension(w, "Readiness", r.Dimension)
	fmt.Fprintf(w, "  %s %s\n", bold.Sprint(r.Status.Title), r.Status.Message)
	for _, m := range model.AllMetrics {
		if d := r.Details.Get(m); d.IsElevated {
			red.Fprintf(w, "  ! %s elevated\n", m)
		}
	}
}

func renderSeries(w io.Writer, points []service.SeriesPoint) {
	if len(points) == 0 {
		fmt.Fprintln(w, "No days scored.")
		return
	}
	for _, p := range points {
		fmt.Fprintf(w, "%s %s %s\n",
			faint.Sprint(p.Date.Format("2006-01-02")),
			scoreString(p.Score, p.Fallback),
			p.Status)
	}
}

func renderLoad(w io.Writer, d load.LoadDetail) {
	renderDimension(w, "Load", d.DimensionDetail)
	ratio := fmt.Sprintf("%.2f", d.Ratio)
	if d.Fallback {
		ratio = "--"
	}
	fmt.Fprintf(w, "  %s ACWR %s (acute %.0f min, chronic %.0f min/wk)\n",
		bold.Sprint(d.Zone), ratio, d.AcuteMinutes, d.ChronicMinutes)
}

func renderConsistency(w io.Writer, d load.ConsistencyDetail) {
	renderDimension(w, "Consistency", d.DimensionDetail)
	counts := make([]string, len(d.WeeklyCounts))
	for i, c := range d.WeeklyCounts {
		counts[i] = fmt.Sprint(c)
	}
	fmt.Fprintf(w, "  %s %s\n", faint.Sprint("weeks"), strings.Join(counts, " "))
}

func renderDashboard(w io.Writer, d service.Dashboard) {
	fmt.Fprintln(w, bold.Sprint(d.Headline))
	if d.Readiness != nil {
		fmt.Fprintln(w)
		renderReadiness(w, *d.Readiness)
	}
	if d.Sleep != nil {
		fmt.Fprintln(w)
		renderSleep(w, *d.Sleep)
	}
	if d.Load != nil {
		fmt.Fprintln(w)
		renderLoad(w, *d.Load)
	}
	if d.Consistency != nil {
		fmt.Fprintln(w)
		renderConsistency(w, *d.Consistency)
	}
}
