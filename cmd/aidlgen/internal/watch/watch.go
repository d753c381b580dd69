// Package watch reruns generation when the input document changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long a burst of change events is coalesced before
// the callback runs.
const DefaultDelay = 100 * time.Millisecond

// Watcher watches a single file.
type Watcher struct {
	Path string

	// Delay coalesces bursts of events. Zero means DefaultDelay.
	Delay time.Duration

	// Logger receives callback failures and watcher errors.
	// Default: slog.Default().
	Logger *slog.Logger
}

// Run calls fn once, then again after every change to Path, until ctx is
// done. Failures of fn are logged and do not stop the watch.
//
// The parent directory is watched rather than the file, so editors that
// save by renaming a new file over the old one keep triggering runs.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	delay := w.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	target, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.Path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("initialize fsnotify: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	run := func() {
		if err := fn(ctx); err != nil {
			logger.Error("regeneration failed", slog.String("input", target), slog.Any("error", err))
		}
	}
	run()
	logger.Info("watching for changes", slog.String("input", target))

	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("input changed", slog.String("input", target), slog.String("op", ev.Op.String()))
			timer.Reset(delay)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", slog.Any("error", err))
		case <-timer.C:
			run()
		}
	}
}
