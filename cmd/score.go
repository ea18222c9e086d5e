package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	service "github.com/okian/vitals/internal/app"
	"github.com/okian/vitals/internal/domain/load"
	"github.com/okian/vitals/internal/domain/model"
	"github.com/okian/vitals/pkg/logger"
)

const stdinPath = "-"

// readinessFile is the input of the readiness and series commands.
type readinessFile struct {
	Today       model.DailyBiometric   `json:"today"`
	Manual      *model.DailyBiometric  `json:"manual,omitempty"`
	History     []model.DailyBiometric `json:"history"`
	Demographic *model.Demographic     `json:"demographic,omitempty"`
}

type activityFile struct {
	Activities []model.ActivityRecord `json:"activities"`
	AsOf       time.Time              `json:"as_of"`
}

type dashboardFile struct {
	Sleep       *model.SleepRecord     `json:"sleep,omitempty"`
	Today       *model.DailyBiometric  `json:"today,omitempty"`
	Manual      *model.DailyBiometric  `json:"manual,omitempty"`
	History     []model.DailyBiometric `json:"history,omitempty"`
	Demographic *model.Demographic     `json:"demographic,omitempty"`
	Activities  []model.ActivityRecord `json:"activities,omitempty"`
	AsOf        time.Time              `json:"as_of"`
}

// scoreFlags are shared by every score subcommand.
type scoreFlags struct {
	file    string
	asJSON  bool
	days    int
	rootOpt *rootOptions
}

func newScoreCmd(opts *rootOptions) *cobra.Command {
	f := &scoreFlags{rootOpt: opts}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a JSON input file",
		Long: `Score a JSON input file and print a report.

INPUT:

  sleep       a sleep record: total_sleep_duration, efficiency, rem_sleep_duration,
              deep_sleep_duration, latency, bedtime_start, ...
  readiness   {"today": {...}, "manual": {...}, "history": [...], "demographic": {...}}
  series      same as readiness; today and manual are ignored
  load        {"activities": [...], "as_of": "2024-06-01T07:00:00Z"}
  dashboard   any combination of the above sections

  Use -f - to read from stdin. Use --json for machine-readable output.`,
	}
	cmd.PersistentFlags().StringVarP(&f.file, "file", "f", stdinPath, "input JSON file, - for stdin")
	cmd.PersistentFlags().BoolVar(&f.asJSON, "json", false, "print the raw JSON result")

	series := &cobra.Command{
		Use:   "series",
		Short: "Readiness for each of the last N days of history",
		Args:  cobra.NoArgs,
		RunE:  f.run(runSeries),
	}
	series.Flags().IntVarP(&f.days, "days", "d", 7, "number of trailing days to score")

	cmd.AddCommand(
		&cobra.Command{Use: "sleep", Short: "Score one night of sleep", Args: cobra.NoArgs, RunE: f.run(runSleep)},
		&cobra.Command{Use: "readiness", Short: "Score today's readiness", Args: cobra.NoArgs, RunE: f.run(runReadiness)},
		series,
		&cobra.Command{Use: "load", Short: "Score training load and consistency", Args: cobra.NoArgs, RunE: f.run(runLoad)},
		&cobra.Command{Use: "dashboard", Short: "Score every supplied section", Args: cobra.NoArgs, RunE: f.run(runDashboard)},
	)
	return cmd
}

// scoreRun executes one scoring command and returns the value to print.
type scoreRun func(cmd *cobra.Command, svc *service.Service, f *scoreFlags) (any, func(io.Writer, any), error)

func (f *scoreFlags) run(fn scoreRun) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := f.rootOpt.load(cmd)
		if err != nil {
			return err
		}
		svc, err := service.NewFromConfig(cfg, service.WithLogger(logger.Get()))
		if err != nil {
			return fmt.Errorf("failed to create service: %w", err)
		}
		out, render, err := fn(cmd, svc, f)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if f.asJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
		render(w, out)
		return nil
	}
}

func runSleep(cmd *cobra.Command, svc *service.Service, f *scoreFlags) (any, func(io.Writer, any), error) {
	var rec model.SleepRecord
	if err := readInput(cmd, f.file, &rec); err != nil {
		return nil, nil, err
	}
	if rec.BedtimeStart.IsZero() {
		return nil, nil, errors.New("missing bedtime_start")
	}
	res := svc.SleepScore(cmd.Context(), rec)
	return res, func(w io.Writer, v any) { renderSleep(w, v.(service.SleepResult)) }, nil
}

func runReadiness(cmd *cobra.Command, svc *service.Service, f *scoreFlags) (any, func(io.Writer, any), error) {
	var in readinessFile
	if err := readInput(cmd, f.file, &in); err != nil {
		return nil, nil, err
	}
	if in.Today.Date.IsZero() {
		return nil, nil, errors.New("missing today.date")
	}
	res, err := svc.Readiness(cmd.Context(), service.ReadinessInput{
		Today:       in.Today,
		Manual:      in.Manual,
		History:     in.History,
		Demographic: in.Demographic,
	})
	if err != nil {
		return nil, nil, err
	}
	return res, func(w io.Writer, v any) { renderReadiness(w, v.(service.ReadinessResult)) }, nil
}

func runSeries(cmd *cobra.Command, svc *service.Service, f *scoreFlags) (any, func(io.Writer, any), error) {
	var in readinessFile
	if err := readInput(cmd, f.file, &in); err != nil {
		return nil, nil, err
	}
	points, err := svc.ReadinessSeries(cmd.Context(), in.History, f.days, in.Demographic)
	if err != nil {
		return nil, nil, err
	}
	return points, func(w io.Writer, v any) { renderSeries(w, v.([]service.SeriesPoint)) }, nil
}

// loadReport pairs the two activity dimensions for output.
type loadReport struct {
	Load        *load.LoadDetail        `json:"load"`
	Consistency *load.ConsistencyDetail `json:"consistency"`
}

func runLoad(cmd *cobra.Command, svc *service.Service, f *scoreFlags) (any, func(io.Writer, any), error) {
	var in activityFile
	if err := readInput(cmd, f.file, &in); err != nil {
		return nil, nil, err
	}
	if in.Activities == nil {
		in.Activities = []model.ActivityRecord{}
	}
	d, err := svc.Dashboard(cmd.Context(), service.DashboardInput{Activities: in.Activities, AsOf: in.AsOf})
	if err != nil {
		return nil, nil, err
	}
	return loadReport{Load: d.Load, Consistency: d.Consistency}, func(w io.Writer, v any) {
		r := v.(loadReport)
		renderLoad(w, *r.Load)
		renderConsistency(w, *r.Consistency)
	}, nil
}

func runDashboard(cmd *cobra.Command, svc *service.Service, f *scoreFlags) (any, func(io.Writer, any), error) {
	var in dashboardFile
	if err := readInput(cmd, f.file, &in); err != nil {
		return nil, nil, err
	}
	d, err := svc.Dashboard(cmd.Context(), service.DashboardInput{
		Sleep:       in.Sleep,
		Today:       in.Today,
		Manual:      in.Manual,
		History:     in.History,
		Demographic: in.Demographic,
		Activities:  in.Activities,
		AsOf:        in.AsOf,
	})
	if err != nil {
		return nil, nil, err
	}
	return d, func(w io.Writer, v any) { renderDashboard(w, v.(service.Dashboard)) }, nil
}

// readInput decodes a single JSON document from path, or from the command's
// input stream when path is "-".
func readInput(cmd *cobra.Command, path string, v any) error {
	var r io.Reader
	if path == stdinPath {
		r = cmd.InOrStdin()
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer fh.Close()
		r = fh
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty input")
		}
		return fmt.Errorf("invalid input %s: %w", path, err)
	}
	return nil
}
