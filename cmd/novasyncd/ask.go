package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nova-sync-backend/internal/feed"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var ticks int

	cmd := &cobra.Command{
		Use:       "ask tips|summary",
		Short:     "Run the feed for a few ticks and print one AI action result",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"tips", "summary"},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.NewNop()
			if opts.verbose {
				l, err := newLogger(true)
				if err != nil {
					return err
				}
				logger = l
			}

			cfg, err := loadConfig(opts.configPath, logger)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			hub := newHub(cfg, logger)
			for i := 0; i < ticks; i++ {
				hub.Tick(ctx)
			}
			snap, err := hub.Snapshot(feed.KeyLogs)
			if err != nil {
				return err
			}

			actions, err := newActions(ctx, cfg, logger)
			if err != nil {
				return err
			}

			var result any
			switch args[0] {
			case "tips":
				result = actions.GetOnboardingTips(ctx, snap.Logs)
			case "summary":
				result = actions.GetSystemActivitySummary(ctx, snap.Logs)
			default:
				return fmt.Errorf("unknown question %q, want tips or summary", args[0])
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().IntVar(&ticks, "ticks", 0, "feed ticks to run before asking")
	return cmd
}
