package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpapi "github.com/chuan-101/json-splitter-public/internal/http"
	"github.com/chuan-101/json-splitter-public/internal/watch"
	"github.com/chuan-101/json-splitter-public/internal/workspace"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host     string
		port     int
		watchArc bool
	)

	cmd := &cobra.Command{
		Use:   "serve [archive]",
		Short: "Serve an archive over a local HTTP API",
		Long: `Start the local HTTP API. The archive given on the command line is loaded
at startup; another one can be uploaded with POST /api/v1/archive.

With --watch (or watch.enabled in the config) the archive file is
reloaded whenever it changes on disk.

Examples:
  convsplit serve conversations.json
  convsplit serve conversations.json --port 9000 --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			ctx := a.withContext(cmd.Context(), path)

			ws := workspace.New(a.logger)
			if path != "" {
				if err := ws.Load(ctx, path); err != nil {
					return err
				}
			}

			svc, err := a.exportService(exportOverrides{})
			if err != nil {
				return err
			}

			cfg := httpapi.DefaultConfig()
			cfg.Host = a.cfg.Server.Host
			cfg.Port = a.cfg.Server.Port
			cfg.MaxUploadBytes = int64(a.cfg.Server.MaxUploadMB) << 20
			cfg.Roles = a.roles()
			cfg.SnippetRadius = a.cfg.Search.SnippetRadius
			cfg.MaxHits = a.cfg.Search.MaxHits
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			srv, err := httpapi.NewServer(ws, svc, a.logger, cfg)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			if path != "" && (watchArc || a.cfg.Watch.Enabled) {
				w, err := watch.New(path, ws, watch.Options{
					Debounce: a.cfg.Watch.Debounce.Duration(),
					Logger:   a.logger,
				})
				if err != nil {
					return err
				}
				go func() {
					if err := w.Run(ctx); err != nil {
						a.logger.Error(ctx, "archive watcher stopped", zap.Error(err))
					}
				}()
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start(ctx)
			}()
			fmt.Fprintf(cmd.ErrOrStderr(), "convsplit listening on http://%s\n", srv.Addr())

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout.Duration())
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown failed: %w", err)
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	cmd.Flags().BoolVarP(&watchArc, "watch", "w", false, "reload the archive when the file changes")
	return cmd
}
