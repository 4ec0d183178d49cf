package journal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNothingToUndo reports that no session remains for the target.
var ErrNothingToUndo = errors.New("no session to undo")

// Undo reverses the most recent session for a target: every recorded move is
// undone in reverse chronological order, then directories the session created
// are removed bottom-up when empty. Files missing at their recorded
// destination are reported and skipped, never fatal. The session row is
// deleted afterwards, so invoking Undo again is a no-op until a new session
// is committed.
func (s *Store) Undo(ctx context.Context, target string) (*UndoReport, error) {
	session, err := s.Last(ctx, target)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNothingToUndo
	}

	report := &UndoReport{SessionID: session.ID, StartedAt: session.StartedAt}

	for i := len(session.Moves) - 1; i >= 0; i-- {
		move := session.Moves[i]
		if err := restore(move); err != nil {
			report.Skipped = append(report.Skipped, fmt.Sprintf("%s: %v", move.Destination, err))
			continue
		}
		report.Restored++
	}

	report.RemovedDirs = removeEmptyDirs(session.CreatedDirs, session.Target)

	if err := s.delete(ctx, session.ID); err != nil {
		return report, err
	}
	return report, nil
}

func restore(move Move) error {
	if _, err := os.Lstat(move.Destination); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.New("no longer at recorded destination")
		}
		return err
	}
	if _, err := os.Lstat(move.Source); err == nil {
		return errors.New("original path is occupied")
	}
	if err := os.MkdirAll(filepath.Dir(move.Source), 0o755); err != nil {
		return fmt.Errorf("recreate source directory: %w", err)
	}
	return os.Rename(move.Destination, move.Source)
}

// removeEmptyDirs deletes created directories children-first. Directories
// that still contain files, or the target root itself, are left alone.
func removeEmptyDirs(created []string, target string) []string {
	// Deepest paths first so children go before parents.
	dirs := make([]string, len(created))
	copy(dirs, created)
	depth := func(p string) int { return strings.Count(p, string(filepath.Separator)) }
	sort.Slice(dirs, func(i, j int) bool {
		di, dj := depth(dirs[i]), depth(dirs[j])
		if di != dj {
			return di > dj
		}
		return dirs[i] > dirs[j]
	})

	var removed []string
	cleanTarget := filepath.Clean(target)
	for _, dir := range dirs {
		if filepath.Clean(dir) == cleanTarget {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err == nil {
			removed = append(removed, dir)
		}
	}
	return removed
}
