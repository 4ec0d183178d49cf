package organize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"stellar/internal/classify"
	"stellar/internal/config"
	"stellar/internal/journal"
	"stellar/internal/lockfile"
	"stellar/internal/logging"
	"stellar/internal/organizer"
	"stellar/internal/pathguard"
	"stellar/internal/renamer"
	"stellar/internal/scanner"
)

// Options selects the behaviour of a single run.
type Options struct {
	Mode      classify.Mode
	Rename    renamer.Mode
	Recursive bool
	DryRun    bool
}

// FolderRename records one dominant-category subdirectory rename.
type FolderRename struct {
	From    string
	To      string
	Ratio   float64
	Skipped bool
	Detail  string
}

// Summary is the full outcome of one run, for both rendering and journaling.
type Summary struct {
	SessionID     string
	Target        string
	StartedAt     time.Time
	Duration      time.Duration
	DryRun        bool
	Moves         []organizer.MoveOperation
	FolderRenames []FolderRename
	FilesMoved    int
	FilesRenamed  int
	FilesSkipped  int
	BytesMoved    int64
}

// HasSkips reports whether any file failed to reach its destination.
func (s *Summary) HasSkips() bool {
	return s.FilesSkipped > 0
}

// Runner owns the collaborators shared across runs for one configuration.
type Runner struct {
	cfg     *config.Config
	guard   *pathguard.Guard
	scanner *scanner.Scanner
	store   *journal.Store
	locks   *lockfile.Manager
	logger  *slog.Logger
}

// NewRunner wires a runner from configuration. store may be nil when no
// journal is wanted (previews never journal regardless).
func NewRunner(cfg *config.Config, store *journal.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	guard := pathguard.New(cfg.ProtectedPaths())
	return &Runner{
		cfg:     cfg,
		guard:   guard,
		scanner: scanner.New(guard, cfg.Categories, logger),
		store:   store,
		locks:   lockfile.NewManager(cfg.Paths.StateDir),
		logger:  logger.With(logging.String(logging.FieldComponent, "organize")),
	}
}

// Preflight validates a target without mutating anything: it must exist, be a
// directory, and pass the protection rules.
func (r *Runner) Preflight(target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("target: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("target %s is not a directory", abs)
	}
	if d := r.guard.CheckTarget(abs); !d.Allowed {
		return "", fmt.Errorf("refusing to organize: %s", d.Explain(abs))
	}
	return abs, nil
}

// Run executes a complete organization session against target. Mutating runs
// hold the target lock from before the scan until the journal commit, so a
// concurrent invocation fails fast instead of interleaving moves.
func (r *Runner) Run(ctx context.Context, target string, opts Options) (*Summary, error) {
	abs, err := r.Preflight(target)
	if err != nil {
		return nil, err
	}

	if !opts.DryRun {
		lock, err := r.locks.Acquire(abs)
		if err != nil {
			return nil, err
		}
		defer func() { _ = lock.Release() }()
	}

	result, err := r.scanner.Scan(abs, opts.Recursive)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		SessionID: uuid.NewString(),
		Target:    abs,
		StartedAt: time.Now().UTC(),
		DryRun:    opts.DryRun,
	}
	ctx = logging.WithSessionID(logging.WithTarget(ctx, abs), summary.SessionID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("session started",
		logging.Int("files", len(result.Entries)),
		logging.String("mode", opts.Mode.String()),
		logging.String("rename", opts.Rename.String()),
		logging.Bool("dry_run", opts.DryRun),
	)

	engine := organizer.New(logger, opts.DryRun)
	for _, entry := range result.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.processEntry(engine, summary, abs, entry, opts)
	}

	for _, candidate := range result.Folders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary.FolderRenames = append(summary.FolderRenames, r.renameFolder(abs, candidate, opts.DryRun))
	}

	summary.Duration = time.Since(summary.StartedAt)

	if !opts.DryRun && r.store != nil {
		if err := r.store.Commit(ctx, r.session(summary, engine.CreatedDirs())); err != nil {
			return summary, fmt.Errorf("record session: %w", err)
		}
	}

	logger.Info("session finished",
		logging.Int("moved", summary.FilesMoved),
		logging.Int("renamed", summary.FilesRenamed),
		logging.Int("skipped", summary.FilesSkipped),
		logging.Int64("bytes", summary.BytesMoved),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// ProcessFile runs the single-file pipeline used by watch mode. The caller is
// expected to hold the target lock for the whole watch session; no lock is
// taken here. Each processed file is journaled as its own session.
func (r *Runner) ProcessFile(ctx context.Context, target, path string, opts Options) (*Summary, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	entry, ok := r.scanner.ScanFile(path)
	if !ok {
		return nil, nil
	}

	summary := &Summary{
		SessionID: uuid.NewString(),
		Target:    abs,
		StartedAt: time.Now().UTC(),
		DryRun:    opts.DryRun,
	}
	engine := organizer.New(r.logger.With(logging.String(logging.FieldSessionID, summary.SessionID)), opts.DryRun)
	r.processEntry(engine, summary, abs, entry, opts)
	summary.Duration = time.Since(summary.StartedAt)

	if !opts.DryRun && r.store != nil {
		if err := r.store.Commit(ctx, r.session(summary, engine.CreatedDirs())); err != nil {
			return summary, fmt.Errorf("record session: %w", err)
		}
	}
	return summary, nil
}

func (r *Runner) processEntry(engine *organizer.Engine, summary *Summary, target string, entry scanner.FileEntry, opts Options) {
	destDir := filepath.Join(target, classify.Destination(entry.Ext, entry.ModTime, opts.Mode, r.cfg.Categories))
	candidate := renamer.Apply(entry.Name(), entry.ModTime, opts.Rename)

	op := engine.Execute(entry.Path, destDir, candidate)
	summary.Moves = append(summary.Moves, op)
	if !op.Succeeded() {
		summary.FilesSkipped++
		return
	}
	summary.FilesMoved++
	summary.BytesMoved += op.Bytes
	if filepath.Base(op.Destination) != entry.Name() {
		summary.FilesRenamed++
	}
}

// renameFolder renames a dominant-category subdirectory after its category.
// An existing directory of that name blocks the rename; files are never
// merged across folders.
func (r *Runner) renameFolder(target string, candidate scanner.FolderCandidate, dryRun bool) FolderRename {
	rename := FolderRename{
		From:  candidate.Path,
		To:    filepath.Join(target, candidate.Category),
		Ratio: candidate.Ratio,
	}
	if _, err := os.Lstat(rename.To); err == nil {
		rename.Skipped = true
		rename.Detail = "destination already exists"
		return rename
	}
	if dryRun {
		return rename
	}
	if err := os.Rename(rename.From, rename.To); err != nil {
		rename.Skipped = true
		rename.Detail = err.Error()
		r.logger.Warn("folder rename failed",
			logging.String("from", rename.From),
			logging.String("to", rename.To),
			logging.Error(err),
		)
	}
	return rename
}

// session converts a summary into its journal record. Folder renames are
// stored as moves so undo restores the old folder names too.
func (r *Runner) session(summary *Summary, createdDirs []string) *journal.Session {
	session := &journal.Session{
		ID:           summary.SessionID,
		Target:       summary.Target,
		StartedAt:    summary.StartedAt,
		Duration:     summary.Duration,
		FilesMoved:   summary.FilesMoved,
		FilesRenamed: summary.FilesRenamed,
		FilesSkipped: summary.FilesSkipped,
		BytesMoved:   summary.BytesMoved,
		CreatedDirs:  createdDirs,
	}
	for _, op := range summary.Moves {
		if !op.Succeeded() {
			continue
		}
		session.Moves = append(session.Moves, journal.Move{
			Source:      op.Source,
			Destination: op.Destination,
			Bytes:       op.Bytes,
		})
	}
	for _, fr := range summary.FolderRenames {
		if fr.Skipped {
			continue
		}
		session.Moves = append(session.Moves, journal.Move{Source: fr.From, Destination: fr.To})
	}
	return session
}
