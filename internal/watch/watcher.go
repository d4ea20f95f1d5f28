// Package watch reloads the catalog when price files in the source directory
// change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/JonMunkholm/pricelist/internal/core"
)

// ReloadFunc rebuilds the catalog. The context carries core.TriggerWatch.
type ReloadFunc func(ctx context.Context) error

// Watcher coalesces bursts of file system events on matching price files
// into a single reload.
type Watcher struct {
	dir      string
	match    func(name string) bool
	debounce time.Duration
	reload   ReloadFunc
	logger   *slog.Logger
	ready    chan struct{}
}

// New creates a Watcher for dir. match filters base file names; a nil match
// accepts every file.
func New(dir string, match func(string) bool, debounce time.Duration, reload ReloadFunc, logger *slog.Logger) *Watcher {
	if match == nil {
		match = func(string) bool { return true }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		dir:      dir,
		match:    match,
		debounce: debounce,
		reload:   reload,
		logger:   logger.With("component", "watch", "dir", dir),
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the directory is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches the directory until ctx is cancelled. It returns an error only
// when the watch cannot be established.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	close(w.ready)
	w.logger.Info("watching price directory", "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	var changed []string
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("price file changed", "file", filepath.Base(ev.Name), "op", ev.Op.String())
			changed = append(changed, filepath.Base(ev.Name))
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-timer.C:
			w.fire(ctx, changed)
			changed = changed[:0]
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return w.match(filepath.Base(ev.Name))
}

func (w *Watcher) fire(ctx context.Context, changed []string) {
	w.logger.Info("reloading catalog", "changes", len(changed))

	err := w.reload(core.ContextWithTrigger(ctx, core.TriggerWatch))
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		w.logger.Debug("reload cancelled")
	default:
		w.logger.Error("reload failed", "error", err, "code", core.MapError(err).Code)
	}
}
