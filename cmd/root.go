package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/okian/vitals/internal/config"
	"github.com/okian/vitals/pkg/logger"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
	noColor    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "vitals",
		Short: "Wearable health scoring engine",
		Long: `Vitals turns raw wearable data into daily scores.

WHAT IT SCORES:

  Sleep        duration, efficiency, REM, deep, latency, timing, restfulness
  Readiness    HRV, resting HR, temperature and respiratory rate vs. your baseline
  Load         acute:chronic workload ratio over the last four weeks
  Consistency  how evenly active days spread over the last eight weeks

QUICK START:

  $ vitals score sleep -f night.json         # Score one night
  $ vitals score readiness -f today.json     # Score today against history
  $ vitals score series -f history.json -d 7 # Readiness for the last 7 days
  $ vitals score load -f activities.json     # Training load and consistency
  $ vitals generate | vitals score dashboard # Try it on synthetic data
  $ vitals serve                             # Run the HTTP API

CONFIGURATION:

  Settings come from defaults, then a YAML file (--config or $VITALS_CONFIG),
  then VITALS_* environment variables, e.g. VITALS_ADDR=:8080.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (default $VITALS_CONFIG)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newServeCmd(opts), newScoreCmd(opts), newGenerateCmd())
	return root
}

// load reads configuration and initializes logging on the command's error
// stream.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	if o.noColor {
		color.NoColor = true
	}
	path := o.configPath
	if path == "" {
		path = os.Getenv(config.EnvFile)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.InitWith(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return cfg, nil
}
