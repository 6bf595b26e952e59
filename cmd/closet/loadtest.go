package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/closet/internal/loadtest"
)

func newLoadtestCmd() *cobra.Command {
	cfg := loadtest.Config{}
	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Drive a running server with concurrent clients and verify its answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := loadtest.Run(cmd.Context(), &cfg)
			if stats != nil {
				fmt.Fprintf(cmd.OutOrStdout(),
					"garments %d (+%d)  scored %d (%d valid, %d failed)  searches %d/%d ordered  top %d  in %s\n",
					stats.Wardrobe, stats.GarmentsAdded, stats.Scored, stats.ScoredValid, stats.ScoreFailed,
					stats.SearchesOrdered, stats.SessionsOpened, stats.TopEntries, stats.Duration.Round(time.Millisecond))
			}
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", loadtest.DefaultBaseURL, "base URL of the service")
	f.IntVar(&cfg.PerCategory, "per-category", loadtest.DefaultPerCategory, "garments to seed per category (0 skips seeding)")
	f.IntVar(&cfg.Selections, "selections", loadtest.DefaultSelections, "random selections to score")
	f.IntVar(&cfg.Sessions, "sessions", loadtest.DefaultSessions, "concurrent search sessions")
	f.IntVar(&cfg.TopN, "top", loadtest.DefaultTopN, "catalogue entries to verify")
	f.IntVar(&cfg.Workers, "workers", 0, "concurrent clients (default CPU cores * 2)")
	f.DurationVar(&cfg.Timeout, "timeout", loadtest.DefaultTimeout, "HTTP request timeout")
	f.Uint64Var(&cfg.Seed, "seed", 0, "random seed; zero uses the clock")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log every failed request")
	return cmd
}
