package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/chuan-101/json-splitter-public/internal/export"
	"github.com/chuan-101/json-splitter-public/internal/search"
	"github.com/chuan-101/json-splitter-public/internal/tui"
)

func newShowCmd(a *app) *cobra.Command {
	var (
		query string
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "show <archive> <index>",
		Short: "Print one conversation as Markdown",
		Long: `Print the current branch of one conversation.

Without --query the output is exactly the Markdown that export writes.
With --query only messages containing the text are shown, in preview
layout. Output to a terminal is rendered; use --plain for raw Markdown.

Examples:
  convsplit show conversations.json 3
  convsplit show conversations.json 3 --query "docker compose"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.withContext(cmd.Context(), args[0])
			ws, err := a.open(ctx, args[0])
			if err != nil {
				return err
			}
			convs := ws.Snapshot().Conversations
			idx, err := parseIndex(args[1], len(convs))
			if err != nil {
				return err
			}
			c := convs[idx]

			var md string
			if query == "" {
				md, err = export.ToMarkdown(c, a.roles())
			} else {
				var rows []search.Row
				rows, err = search.Preview(c, a.roles(), query)
				md = "# " + c.DisplayTitle() + "\n\n" + tui.PreviewMarkdown(rows)
			}
			if err != nil {
				return fmt.Errorf("conversation %d: %w", idx, err)
			}

			out := cmd.OutOrStdout()
			if !plain && isTerminal(out) {
				r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
				if err != nil {
					return fmt.Errorf("failed to create markdown renderer: %w", err)
				}
				if md, err = r.Render(md); err != nil {
					return fmt.Errorf("failed to render markdown: %w", err)
				}
			}
			_, err = fmt.Fprintln(out, md)
			return err
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "only messages containing this text")
	cmd.Flags().BoolVar(&plain, "plain", false, "print raw Markdown even on a terminal")
	return cmd
}
