package main

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chuan-101/json-splitter-public/internal/tui"
	"github.com/chuan-101/json-splitter-public/internal/watch"
)

func newBrowseCmd(a *app) *cobra.Command {
	var (
		out    string
		redact bool
	)

	cmd := &cobra.Command{
		Use:   "browse <archive>",
		Short: "Browse an archive interactively",
		Long: `Open the terminal browser: filter by title, select conversations,
preview them and export with a keypress. The archive is reloaded when
the file changes.

Keys:
  space toggle   a/n/i select, deselect, invert shown   / filter
  enter preview  d export highlighted   e export selected   z zip selected
  s stats        q quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(a.withContext(cmd.Context(), args[0]))
			defer cancel()

			ws, err := a.open(ctx, args[0])
			if err != nil {
				return err
			}

			overrides := exportOverrides{}
			if cmd.Flags().Changed("redact") {
				overrides.redact = &redact
			}
			svc, err := a.exportService(overrides)
			if err != nil {
				return err
			}

			dir := a.cfg.Export.OutputDir
			if cmd.Flags().Changed("out") {
				dir = out
			}
			model := tui.New(ws, svc, tui.Options{
				Roles:     a.roles(),
				OutputDir: dir,
				Logger:    a.logger,
			})
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

			w, err := watch.New(args[0], ws, watch.Options{
				Debounce: a.cfg.Watch.Debounce.Duration(),
				OnReload: func(err error) { p.Send(tui.ReloadedMsg{Err: err}) },
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}
			go func() {
				if err := w.Run(ctx); err != nil {
					a.logger.Warn(ctx, "archive watcher stopped", zap.Error(err))
				}
			}()

			_, err = p.Run()
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory for exports (default from config)")
	cmd.Flags().BoolVar(&redact, "redact", false, "redact detected secrets from exports")
	return cmd
}
