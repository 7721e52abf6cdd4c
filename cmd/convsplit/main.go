// Convsplit splits conversation archive exports into Markdown documents.
//
// It reads the JSON array of conversations produced by a chat export,
// walks each conversation's current branch and renders it as Markdown,
// either as individual files or bundled into a ZIP archive. The same
// archive can be browsed in a terminal UI or served over a local HTTP API.
//
// Usage:
//
//	# List conversations whose title mentions "plan"
//	convsplit list conversations.json --title plan
//
//	# Export everything into one ZIP
//	convsplit export conversations.json --all --zip --out exports/
//
//	# Browse interactively
//	convsplit browse conversations.json
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chuan-101/json-splitter-public/internal/config"
	"github.com/chuan-101/json-splitter-public/internal/logging"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	cmd := &cobra.Command{
		Use:   "convsplit",
		Short: "Split conversation archive exports into Markdown",
		Long: `convsplit reads a conversation archive (the conversations.json of a chat
export) and renders conversations as Markdown files or a ZIP bundle.

Configuration is read from ~/.config/convsplit/config.yaml (or --config),
an optional .env file and CONVSPLIT_* environment variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/convsplit/config.yaml)")
	flags.StringVar(&opts.envFile, "env-file", "", "dotenv file to load (default ./.env if present)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: json or console")

	cmd.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newSearchCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newServeCmd(a),
		newBrowseCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// setup loads configuration and builds the logger.
func (a *app) setup(opts *rootOptions) error {
	if err := config.LoadEnvFile(opts.envFile); err != nil {
		return err
	}

	cfg, err := config.LoadWithFile(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Logging.Format = opts.logFormat
	}

	logCfg, err := logging.FromAppConfig(cfg.Logging)
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}
