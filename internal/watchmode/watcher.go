package watchmode

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"stellar/internal/config"
	"stellar/internal/lockfile"
	"stellar/internal/logging"
	"stellar/internal/organize"
)

// pollInterval bounds how late after its settle deadline a file is processed.
const pollInterval = 250 * time.Millisecond

// Watcher runs continuous watch sessions for one configuration.
type Watcher struct {
	runner   *organize.Runner
	locks    *lockfile.Manager
	debounce time.Duration
	logger   *slog.Logger
}

// New builds a watcher. The settle delay comes from the watch configuration.
func New(cfg *config.Config, runner *organize.Runner, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		runner:   runner,
		locks:    lockfile.NewManager(cfg.Paths.StateDir),
		debounce: time.Duration(cfg.Watch.DebounceSeconds) * time.Second,
		logger:   logger.With(logging.String(logging.FieldComponent, "watch")),
	}
}

// Watch blocks organizing target until ctx is cancelled. It returns nil on a
// clean shutdown; preflight and lock failures are returned immediately.
func (w *Watcher) Watch(ctx context.Context, target string, opts organize.Options) error {
	abs, err := w.runner.Preflight(target)
	if err != nil {
		return err
	}

	lock, err := w.locks.Acquire(abs)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(abs); err != nil {
		return fmt.Errorf("watch %s: %w", abs, err)
	}

	logger := w.logger.With(logging.String(logging.FieldTarget, abs))
	logger.Info("watching",
		logging.Duration("debounce", w.debounce),
		logging.String("mode", opts.Mode.String()),
		logging.String("rename", opts.Rename.String()),
	)

	// pending maps each newly seen path to the time its writes are considered
	// settled. Writes push the deadline back.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.drain(abs, pending, opts, logger)
			logger.Info("watch stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Dir(event.Name) != abs {
				continue
			}
			switch {
			case event.Has(fsnotify.Create):
				pending[event.Name] = time.Now().Add(w.debounce)
			case event.Has(fsnotify.Write):
				if _, tracked := pending[event.Name]; tracked {
					pending[event.Name] = time.Now().Add(w.debounce)
				}
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				delete(pending, event.Name)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", logging.Error(err))

		case now := <-ticker.C:
			for path, deadline := range pending {
				if now.Before(deadline) {
					continue
				}
				delete(pending, path)
				w.process(ctx, abs, path, opts, logger)
			}
		}
	}
}

// drain handles files whose settle deadline already passed when the session is
// cancelled. Files still inside their settle window may be mid-write, so they
// stay where they are for the next session.
func (w *Watcher) drain(target string, pending map[string]time.Time, opts organize.Options, logger *slog.Logger) {
	if len(pending) == 0 {
		return
	}
	now := time.Now()
	unsettled := 0
	for path, deadline := range pending {
		delete(pending, path)
		if now.Before(deadline) {
			unsettled++
			continue
		}
		w.process(context.Background(), target, path, opts, logger)
	}
	if unsettled > 0 {
		logger.Info("leaving unsettled files for the next session", logging.Int("unsettled", unsettled))
	}
}

func (w *Watcher) process(ctx context.Context, target, path string, opts organize.Options, logger *slog.Logger) {
	summary, err := w.runner.ProcessFile(ctx, target, path, opts)
	if err != nil {
		logger.Warn("processing failed", logging.String("path", path), logging.Error(err))
		return
	}
	if summary == nil {
		return
	}
	for _, op := range summary.Moves {
		if op.Succeeded() {
			logger.Info("organized",
				logging.String("source", op.Source),
				logging.String("destination", op.Destination),
			)
		} else {
			logger.Warn("skipped",
				logging.String("source", op.Source),
				logging.String("reason", op.Reason.String()),
			)
		}
	}
}
