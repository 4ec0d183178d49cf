package organizer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"stellar/internal/fileutil"
	"stellar/internal/logging"
)

// MoveOperation records the outcome of one attempted move.
type MoveOperation struct {
	Source      string
	Destination string
	Bytes       int64
	Skipped     bool
	Reason      SkipReason
	Detail      string
}

// Succeeded reports whether the file reached its destination.
func (op MoveOperation) Succeeded() bool {
	return !op.Skipped
}

// NewSkipped builds a skipped operation for failures detected before the
// engine runs (e.g. a protected path in watch mode).
func NewSkipped(source string, reason SkipReason, detail string) MoveOperation {
	return MoveOperation{Source: source, Skipped: true, Reason: reason, Detail: detail}
}

// Engine executes moves for a single run. It is not safe for concurrent use;
// the pipeline processes files strictly sequentially.
type Engine struct {
	logger *slog.Logger
	dryRun bool

	// reserved tracks destination paths promised during a dry run so two
	// sources previewing into the same directory get distinct names.
	reserved map[string]struct{}

	// created remembers directories this run brought into existence, ordered
	// parent before child, so undo can remove them bottom-up.
	created    []string
	createdSet map[string]struct{}

	// rename is swappable for tests to simulate cross-device errors.
	rename func(oldpath, newpath string) error
}

// New constructs an engine. A nil logger discards output.
func New(logger *slog.Logger, dryRun bool) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		logger:     logger.With(logging.String(logging.FieldComponent, "organizer")),
		dryRun:     dryRun,
		reserved:   make(map[string]struct{}),
		createdSet: make(map[string]struct{}),
		rename:     os.Rename,
	}
}

// DryRun reports whether the engine mutates the filesystem.
func (e *Engine) DryRun() bool {
	return e.dryRun
}

// CreatedDirs returns every directory created so far this run, parents first.
func (e *Engine) CreatedDirs() []string {
	out := make([]string, len(e.created))
	copy(out, e.created)
	return out
}

// Execute moves source into destDir under candidateName, resolving collisions
// and falling back to copy+verify+delete across filesystem boundaries.
func (e *Engine) Execute(source, destDir, candidateName string) MoveOperation {
	op := MoveOperation{Source: source}

	if err := e.ensureDir(destDir); err != nil {
		op.Skipped = true
		op.Reason = SkipDirectoryCreateFailed
		op.Detail = err.Error()
		return op
	}

	destination := e.resolveConflict(filepath.Join(destDir, candidateName))
	op.Destination = destination

	// Re-check the source right before moving: a previous step or an external
	// actor may have consumed it since scan time.
	info, err := os.Lstat(source)
	if err != nil {
		op.Skipped = true
		op.Reason = classifyError(err)
		if op.Reason == SkipOtherIOError {
			op.Detail = err.Error()
		}
		return op
	}
	op.Bytes = info.Size()

	if e.dryRun {
		e.reserved[destination] = struct{}{}
		return op
	}

	if err := e.move(source, destination); err != nil {
		op.Skipped = true
		var xdevErr *crossDeviceError
		switch {
		case errors.As(err, &xdevErr):
			op.Reason = SkipCrossDeviceCopyFailed
			op.Detail = xdevErr.Error()
		default:
			op.Reason = classifyError(err)
			if op.Reason == SkipOtherIOError {
				op.Detail = err.Error()
			}
		}
		e.logger.Warn("move failed",
			logging.String("source", source),
			logging.String("destination", destination),
			logging.String("reason", op.Reason.String()),
			logging.Error(err),
		)
		return op
	}

	e.logger.Debug("moved file",
		logging.String("source", source),
		logging.String("destination", destination),
		logging.Int64("bytes", op.Bytes),
	)
	return op
}

// Remove deletes a file. Duplicate pruning reuses this path so deletions get
// the same error classification as moves.
func (e *Engine) Remove(path string) error {
	if e.dryRun {
		return nil
	}
	return os.Remove(path)
}

type crossDeviceError struct {
	err error
}

func (c *crossDeviceError) Error() string {
	return fmt.Sprintf("cross-device fallback: %v", c.err)
}

func (c *crossDeviceError) Unwrap() error {
	return c.err
}

func (e *Engine) move(source, destination string) error {
	err := e.rename(source, destination)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	// Source and destination live on different filesystems. Copy with
	// size+hash verification, then delete the source. CopyVerified removes
	// any partial destination on failure, so the source stays authoritative.
	if copyErr := fileutil.CopyVerified(source, destination); copyErr != nil {
		return &crossDeviceError{err: copyErr}
	}
	if rmErr := os.Remove(source); rmErr != nil {
		// The verified copy exists; losing the source removal leaves a
		// duplicate, never data loss.
		return fmt.Errorf("remove source after verified copy: %w", rmErr)
	}
	return nil
}

// resolveConflict appends -1, -2, ... before the extension until the name is
// free. The probe consults live directory state so concurrent watch-mode
// moves stay collision-safe, plus dry-run reservations from this run.
func (e *Engine) resolveConflict(path string) string {
	if !e.taken(path) {
		return path
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if !e.taken(candidate) {
			return candidate
		}
	}
}

func (e *Engine) taken(path string) bool {
	if _, ok := e.reserved[path]; ok {
		return true
	}
	_, err := os.Lstat(path)
	return err == nil
}

func (e *Engine) ensureDir(dir string) error {
	if _, err := os.Lstat(dir); err == nil {
		return nil
	}

	// Note every missing ancestor before creating so undo knows exactly which
	// directories this run introduced.
	missing := []string{}
	for current := dir; ; current = filepath.Dir(current) {
		if _, ok := e.createdSet[current]; ok {
			break
		}
		if _, err := os.Lstat(current); err == nil {
			break
		}
		missing = append([]string{current}, missing...)
		if parent := filepath.Dir(current); parent == current {
			break
		}
	}

	if !e.dryRun {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	for _, d := range missing {
		e.created = append(e.created, d)
		e.createdSet[d] = struct{}{}
	}
	return nil
}
