package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/vitals/internal/sample"
)

func newGenerateCmd() *cobra.Command {
	var (
		days    int
		seed    uint64
		profile string
		end     string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic input document",
		Long: `Write a synthetic input document with sleep, biometrics and activities.

PROFILES:

  steady     today matches the baseline
  strained   low HRV, high resting HR and a load spike this week
  sick       elevated temperature and respiratory rate

EXAMPLE:

  $ vitals generate --profile sick | vitals score dashboard`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []sample.Option{
				sample.WithDays(days),
				sample.WithSeed(seed),
				sample.WithProfile(sample.Profile(profile)),
			}
			if end != "" {
				t, err := time.Parse(time.RFC3339, end)
				if err != nil {
					return fmt.Errorf("invalid --end: %w", err)
				}
				opts = append(opts, sample.WithEnd(t))
			}
			data, err := sample.Generate(opts...)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output: %w", err)
				}
				defer f.Close()
				w = f
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(data)
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 30, "history days before the scored day")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().StringVarP(&profile, "profile", "p", string(sample.ProfileSteady), "steady, strained or sick")
	cmd.Flags().StringVar(&end, "end", "", "scored day as RFC3339 (default today 07:00 UTC)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
