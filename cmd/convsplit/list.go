package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chuan-101/json-splitter-public/internal/search"
	"github.com/chuan-101/json-splitter-public/internal/tui"
)

const (
	defaultTitleWidth = 60
	listFixedWidth    = 30 // index, date and message count columns
)

func newListCmd(a *app) *cobra.Command {
	var (
		title  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list <archive>",
		Short: "List conversations in an archive",
		Long: `List the conversations of an archive with their index, creation date
and number of visible (non-system) messages.

Examples:
  # List everything
  convsplit list conversations.json

  # Only conversations whose title contains "rust"
  convsplit list conversations.json --title rust`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.withContext(cmd.Context(), args[0])
			ws, err := a.open(ctx, args[0])
			if err != nil {
				return err
			}

			rows := search.List(ctx, ws.Snapshot().Conversations, title, nil, time.Now())
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			width := defaultTitleWidth
			if f, ok := out.(*os.File); ok && isTerminal(f) {
				if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > listFixedWidth+10 {
					width = w - listFixedWidth
				}
			}
			for _, r := range rows {
				fmt.Fprintf(out, "%5d  %s  %s  %4d msgs\n",
					r.Index, r.Created.Format("2006-01-02"), tui.Fit(r.Title, width), r.Messages)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "only titles containing this text (case-insensitive)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
