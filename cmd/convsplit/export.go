package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
	"github.com/chuan-101/json-splitter-public/internal/export"
	"github.com/chuan-101/json-splitter-public/internal/search"
)

type exportFlags struct {
	indices   []int
	selection string
	all       bool
	title     string
	zip       bool
	out       string
	prefix    string
	suffix    string
	redact    bool
}

func newExportCmd(a *app) *cobra.Command {
	f := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export <archive>",
		Short: "Write conversations as Markdown files or a ZIP",
		Long: `Render the selected conversations as Markdown and write them to the
output directory, one file each or bundled into a single ZIP.

Selections combine: every conversation named by --index, --select, --all
or --title is exported once, in archive order.

Examples:
  # One conversation
  convsplit export conversations.json --index 3

  # A few, zipped
  convsplit export conversations.json --select 0,2,5-7 --zip --out exports/

  # Everything about Go, with secrets redacted
  convsplit export conversations.json --title golang --redact`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.withContext(cmd.Context(), args[0])
			ws, err := a.open(ctx, args[0])
			if err != nil {
				return err
			}
			convs := ws.Snapshot().Conversations

			indices, err := f.resolve(convs)
			if err != nil {
				return err
			}

			overrides := exportOverrides{}
			if cmd.Flags().Changed("prefix") {
				overrides.prefix = &f.prefix
			}
			if cmd.Flags().Changed("suffix") {
				overrides.suffix = &f.suffix
			}
			if cmd.Flags().Changed("redact") {
				overrides.redact = &f.redact
			}
			svc, err := a.exportService(overrides)
			if err != nil {
				return err
			}

			var artifacts []export.Artifact
			if f.zip {
				z, err := svc.Zip(ctx, convs, indices)
				if err != nil {
					return err
				}
				artifacts = append(artifacts, *z)
			} else {
				artifacts, err = svc.Files(ctx, convs, indices)
				if err != nil {
					return err
				}
			}

			dir := a.cfg.Export.OutputDir
			if cmd.Flags().Changed("out") {
				dir = f.out
			}
			paths, err := export.WriteFiles(dir, artifacts...)
			if err != nil {
				return err
			}
			a.logger.Info(ctx, "export written",
				zap.Int("conversations", len(indices)),
				zap.Int("files", len(paths)),
				zap.String("dir", dir))

			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntSliceVarP(&f.indices, "index", "i", nil, "conversation index (repeatable)")
	flags.StringVarP(&f.selection, "select", "s", "", "indices and ranges, e.g. 0,2,5-7")
	flags.BoolVar(&f.all, "all", false, "export every conversation")
	flags.StringVarP(&f.title, "title", "t", "", "export conversations whose title contains this text")
	flags.BoolVarP(&f.zip, "zip", "z", false, "bundle into one ZIP archive")
	flags.StringVarP(&f.out, "out", "o", "", "output directory (default from config)")
	flags.StringVar(&f.prefix, "prefix", "", "file name prefix")
	flags.StringVar(&f.suffix, "suffix", "", "file name suffix")
	flags.BoolVar(&f.redact, "redact", false, "redact detected secrets from the Markdown")
	return cmd
}

// resolve merges every selection flag into ascending archive indices.
func (f *exportFlags) resolve(convs []*conversation.Conversation) ([]int, error) {
	if len(f.indices) == 0 && f.selection == "" && !f.all && f.title == "" {
		return nil, errors.New("nothing selected: use --index, --select, --all or --title")
	}

	sel := search.NewSelection()
	for _, idx := range f.indices {
		if idx < 0 || idx >= len(convs) {
			return nil, fmt.Errorf("%w: %d (archive has %d)", export.ErrIndexOutOfRange, idx, len(convs))
		}
		if !sel.Has(idx) {
			sel.Toggle(idx)
		}
	}
	if f.selection != "" {
		picked, err := parseSelection(f.selection, len(convs))
		if err != nil {
			return nil, err
		}
		sel.SelectAll(picked)
	}
	if f.all {
		sel.SelectAll(search.FilterByTitle(convs, ""))
	}
	if f.title != "" {
		sel.SelectAll(search.FilterByTitle(convs, f.title))
	}

	indices := sel.Sorted()
	if len(indices) == 0 {
		return nil, export.ErrNoSelection
	}
	return indices, nil
}
