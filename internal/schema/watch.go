package schema

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/graphvinci/graphvinci/internal/domain"
)

// DefaultDebounce is how long a file must stay quiet before it is reloaded.
const DefaultDebounce = 150 * time.Millisecond

// Reload is the outcome of reloading a watched schema file.
type Reload struct {
	Path  string
	Nodes []domain.SchemaNode
	Err   error
}

// Watcher reloads an SDL file whenever it changes on disk. The parent
// directory is watched so that editors which save by rename are seen.
type Watcher struct {
	path     string
	opts     Options
	debounce time.Duration
	logger   *slog.Logger
	fsw      *fsnotify.Watcher
}

// NewWatcher starts watching path. Call Run to receive reloads and Close
// to release the watch.
func NewWatcher(path string, opts Options, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{path: abs, opts: opts, debounce: debounce, logger: logger, fsw: fsw}, nil
}

// Run sends one Reload on out after each burst of writes to the file settles.
// It returns when ctx is done or the watcher is closed. out is never closed.
func (w *Watcher) Run(ctx context.Context, out chan<- Reload) {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			nodes, err := LoadFile(w.path, w.opts)
			if err != nil {
				w.logger.Warn("schema_reload_failed", "path", w.path, "error", err)
			} else {
				w.logger.Debug("schema_reloaded", "path", w.path, "types", len(nodes))
			}
			select {
			case out <- Reload{Path: w.path, Nodes: nodes, Err: err}:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("schema_watch_error", "path", w.path, "error", err)
		}
	}
}

// Close stops the watch. A running Run returns.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
