package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
	"github.com/chuan-101/json-splitter-public/internal/export"
	"github.com/chuan-101/json-splitter-public/internal/logging"
	"github.com/chuan-101/json-splitter-public/internal/secrets"
	"github.com/chuan-101/json-splitter-public/internal/workspace"
)

// withContext returns ctx carrying the app logger and the archive source.
func (a *app) withContext(ctx context.Context, source string) context.Context {
	ctx = logging.WithLogger(ctx, a.logger)
	if source != "" {
		ctx = logging.WithSource(ctx, source)
	}
	return ctx
}

func (a *app) roles() conversation.RoleNames {
	return conversation.RoleNames{
		User:      a.cfg.Roles.User,
		Assistant: a.cfg.Roles.Assistant,
		System:    a.cfg.Roles.System,
	}
}

// open loads the archive at path into a new workspace.
func (a *app) open(ctx context.Context, path string) (*workspace.Workspace, error) {
	ws := workspace.New(a.logger)
	if err := ws.Load(ctx, path); err != nil {
		return nil, err
	}
	return ws, nil
}

type exportOverrides struct {
	prefix, suffix *string
	redact         *bool
}

// exportService builds the export service from config, with command-line
// overrides applied when set.
func (a *app) exportService(o exportOverrides) (*export.Service, error) {
	opts := export.Options{
		Roles:  a.roles(),
		Prefix: a.cfg.Export.Prefix,
		Suffix: a.cfg.Export.Suffix,
		Logger: a.logger,
	}
	if o.prefix != nil {
		opts.Prefix = *o.prefix
	}
	if o.suffix != nil {
		opts.Suffix = *o.suffix
	}

	redact := a.cfg.Export.Redact
	if o.redact != nil {
		redact = *o.redact
	}
	if redact {
		var allowlists []string
		if a.cfg.Export.Allowlist != "" {
			allowlists = append(allowlists, a.cfg.Export.Allowlist)
		}
		r, err := secrets.NewRedactor(allowlists...)
		if err != nil {
			return nil, fmt.Errorf("failed to create redactor: %w", err)
		}
		opts.Redactor = r
	}

	return export.NewService(opts), nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// parseIndex parses a conversation index argument.
func parseIndex(s string, n int) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	if idx < 0 || idx >= n {
		return 0, fmt.Errorf("%w: %d (archive has %d)", export.ErrIndexOutOfRange, idx, n)
	}
	return idx, nil
}
