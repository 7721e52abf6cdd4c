package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chuan-101/json-splitter-public/internal/search"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		maxHits int
		radius  int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "search <archive> <query>",
		Short: "Search message text across all conversations",
		Long: `Search every conversation's current branch for messages containing the
query (case-insensitive) and print a snippet around each match.

Examples:
  convsplit search conversations.json "rate limit"
  convsplit search conversations.json kubernetes --max 20 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.withContext(cmd.Context(), args[0])
			ws, err := a.open(ctx, args[0])
			if err != nil {
				return err
			}

			opts := search.GlobalOptions{
				SnippetRadius: a.cfg.Search.SnippetRadius,
				MaxHits:       a.cfg.Search.MaxHits,
			}
			if cmd.Flags().Changed("max") {
				opts.MaxHits = maxHits
			}
			if cmd.Flags().Changed("radius") {
				opts.SnippetRadius = radius
			}

			hits := search.Global(ctx, ws.Snapshot().Conversations, args[1], opts)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(hits)
			}
			for _, h := range hits {
				fmt.Fprintf(out, "[%d:%d] %s\n    %s\n", h.ConvIndex, h.MsgIndex, h.Title, h.Snippet)
			}
			if len(hits) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "no matches")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxHits, "max", 0, "maximum number of hits (default from config)")
	cmd.Flags().IntVar(&radius, "radius", 0, "snippet characters on each side of a match (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
