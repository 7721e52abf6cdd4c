// Package watch reloads an archive file when it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/chuan-101/json-splitter-public/internal/logging"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// Loader loads the archive at path.
type Loader interface {
	Load(ctx context.Context, path string) error
}

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period after the last change before a reload,
	// and the minimum spacing between reloads.
	Debounce time.Duration

	// OnReload is called after every reload attempt with its result.
	OnReload func(error)

	Logger *logging.Logger
}

// Watcher watches one archive file. Editors and exporters often replace
// files by renaming a temporary file over them, so the parent directory
// is watched and events are filtered by name.
type Watcher struct {
	path     string
	loader   Loader
	debounce time.Duration
	limiter  *rate.Limiter
	onReload func(error)
	logger   *logging.Logger
	watcher  *fsnotify.Watcher
}

// New creates a watcher for path. Run starts it.
func New(path string, loader Loader, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		loader:   loader,
		debounce: opts.Debounce,
		limiter:  rate.NewLimiter(rate.Every(opts.Debounce), 1),
		onReload: opts.OnReload,
		logger:   logger.Named("watch"),
		watcher:  fw,
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run processes events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	ctx = logging.WithSource(ctx, w.path)
	w.logger.Info(ctx, "watching archive for changes")

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug(ctx, "archive changed", zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "watcher error", zap.Error(err))

		case <-timer.C:
			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
			w.reload(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *Watcher) reload(ctx context.Context) {
	err := w.loader.Load(ctx, w.path)
	if err != nil {
		w.logger.Warn(ctx, "reload failed", zap.Error(err))
	} else {
		w.logger.Info(ctx, "archive reloaded")
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}
