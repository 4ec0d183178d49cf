package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stellar/internal/classify"
	"stellar/internal/logging"
	"stellar/internal/pathguard"
)

// FileEntry is an immutable snapshot of a file taken at scan time. The file
// may change before the move executes; the engine detects that, the scanner
// does not prevent it.
type FileEntry struct {
	Path    string
	Size    int64
	ModTime time.Time
	Ext     string
}

// Name returns the base filename of the entry.
func (e FileEntry) Name() string {
	return filepath.Base(e.Path)
}

// Result holds everything one scan produced.
type Result struct {
	Entries []FileEntry
	// Folders lists subdirectories whose contents are dominated by a single
	// category; only populated for non-recursive scans.
	Folders []FolderCandidate
}

// FolderCandidate nominates a subdirectory for a bulk rename to its dominant
// category name.
type FolderCandidate struct {
	Path         string
	Category     string
	Ratio        float64
	Classifiable int
}

const (
	// dominantRatio is the fraction of classifiable files that must share one
	// category before a subdirectory is renamed after it.
	dominantRatio = 0.60
	// dominantMinFiles avoids renaming folders on tiny samples.
	dominantMinFiles = 3
)

// Scanner produces FileEntry values for a single run.
type Scanner struct {
	guard      *pathguard.Guard
	categories map[string][]string
	logger     *slog.Logger
}

// New constructs a scanner. A nil logger discards output.
func New(guard *pathguard.Guard, categories map[string][]string, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{
		guard:      guard,
		categories: categories,
		logger:     logger.With(logging.String(logging.FieldComponent, "scanner")),
	}
}

// Scan walks root and returns its organizable files. Recursive scans descend
// into subdirectories; non-recursive scans stay at the top level and instead
// nominate dominant-category subdirectories for renaming.
func (s *Scanner) Scan(root string, recursive bool) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat target: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("target %s is not a directory", root)
	}

	result := &Result{}
	if recursive {
		visited := make(map[string]struct{})
		s.walk(root, root, visited, result)
		return result, nil
	}

	dirs, err := s.scanLevel(root, result)
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if candidate, ok := s.folderCandidate(dir); ok {
			result.Folders = append(result.Folders, candidate)
		}
	}
	return result, nil
}

// ScanFile snapshots a single file, applying the same filters as a directory
// scan. Watch mode uses this for newly appeared files.
func (s *Scanner) ScanFile(path string) (FileEntry, bool) {
	name := filepath.Base(path)
	if skipName(name) {
		return FileEntry{}, false
	}
	ext := extension(name)
	if ext == "" {
		return FileEntry{}, false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return FileEntry{}, false
	}
	return FileEntry{Path: path, Size: info.Size(), ModTime: info.ModTime(), Ext: ext}, true
}

// scanLevel collects the files of a single directory and returns its visible
// subdirectories.
func (s *Scanner) scanLevel(dir string, result *Result) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read target: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			dirs = append(dirs, path)
			continue
		}
		if fileEntry, ok := s.ScanFile(path); ok {
			result.Entries = append(result.Entries, fileEntry)
		}
	}
	return dirs, nil
}

func (s *Scanner) walk(root, dir string, visited map[string]struct{}, result *Result) {
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return
	}
	if _, seen := visited[canonical]; seen {
		return
	}
	visited[canonical] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.logger.Debug("skipping unreadable directory", logging.String("dir", dir), logging.Error(err))
		return
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if d := s.guard.CheckDescendant(path); !d.Allowed {
				s.logger.Debug("pruning subtree", logging.String("dir", path), logging.String("reason", d.Reason.String()))
				continue
			}
			if classify.IsCategoryName(entry.Name(), s.categories) {
				continue
			}
			s.walk(root, path, visited, result)
			continue
		}

		// Symlinked directories are never descended into; a file symlink is
		// snapshotted with its resolved size and mtime.
		if entry.Type()&fs.ModeSymlink != 0 {
			resolved, err := os.Stat(path)
			if err != nil || resolved.IsDir() {
				continue
			}
		}

		if fileEntry, ok := s.ScanFile(path); ok {
			result.Entries = append(result.Entries, fileEntry)
		}
	}
}

// folderCandidate inspects a top-level subdirectory and reports whether its
// immediate contents are dominated by one category.
func (s *Scanner) folderCandidate(dir string) (FolderCandidate, bool) {
	name := filepath.Base(dir)
	if d := s.guard.CheckDescendant(dir); !d.Allowed {
		return FolderCandidate{}, false
	}
	if classify.IsCategoryName(name, s.categories) {
		return FolderCandidate{}, false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return FolderCandidate{}, false
	}

	counts := make(map[string]int)
	classifiable := 0
	for _, entry := range entries {
		if entry.IsDir() || skipName(entry.Name()) {
			continue
		}
		ext := extension(entry.Name())
		if ext == "" {
			continue
		}
		counts[classify.Category(ext, s.categories)]++
		classifiable++
	}
	if classifiable < dominantMinFiles {
		return FolderCandidate{}, false
	}

	best, bestCount := "", 0
	for category, count := range counts {
		if count > bestCount {
			best, bestCount = category, count
		}
	}
	ratio := float64(bestCount) / float64(classifiable)
	if ratio <= dominantRatio {
		return FolderCandidate{}, false
	}
	return FolderCandidate{Path: dir, Category: best, Ratio: ratio, Classifiable: classifiable}, true
}

func skipName(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, ".DS_Store") ||
		strings.HasSuffix(name, ".localized")
}

func extension(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return strings.ToLower(ext)
}
