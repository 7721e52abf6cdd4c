package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chuan-101/json-splitter-public/internal/search"
	"github.com/chuan-101/json-splitter-public/internal/tui"
)

func newStatsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats <archive>",
		Short: "Summarize an archive",
		Long: `Print message and character counts, the most used models, activity
streaks and a sparkline of daily activity.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.withContext(cmd.Context(), args[0])
			ws, err := a.open(ctx, args[0])
			if err != nil {
				return err
			}

			st := search.Compute(ctx, ws.Snapshot().Conversations, time.Now())
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			_, err = fmt.Fprint(out, tui.RenderStats(st))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
