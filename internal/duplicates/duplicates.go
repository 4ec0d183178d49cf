package duplicates

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"sort"

	"stellar/internal/logging"
	"stellar/internal/scanner"
)

// Group is a set of files sharing identical size and content hash. A group
// always has at least two members.
type Group struct {
	Hash  string
	Size  int64
	Paths []string
}

// SkippedFile records a file that could not be hashed.
type SkippedFile struct {
	Path   string
	Detail string
}

// Report is the outcome of one detection pass.
type Report struct {
	Groups  []Group
	Skipped []SkippedFile
}

// WastedBytes returns the total size of redundant copies (every group member
// beyond the first).
func (r *Report) WastedBytes() int64 {
	var total int64
	for _, g := range r.Groups {
		total += g.Size * int64(len(g.Paths)-1)
	}
	return total
}

// Find groups the given entries by content equality.
func Find(entries []scanner.FileEntry, logger *slog.Logger) *Report {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String(logging.FieldComponent, "duplicates"))

	bySize := make(map[int64][]scanner.FileEntry)
	for _, entry := range entries {
		bySize[entry.Size] = append(bySize[entry.Size], entry)
	}

	report := &Report{}
	for size, bucket := range bySize {
		if len(bucket) < 2 {
			continue
		}

		byHash := make(map[string][]string)
		for _, entry := range bucket {
			hash, err := hashFile(entry.Path)
			if err != nil {
				logger.Warn("cannot hash file", logging.String("path", entry.Path), logging.Error(err))
				report.Skipped = append(report.Skipped, SkippedFile{Path: entry.Path, Detail: err.Error()})
				continue
			}
			byHash[hash] = append(byHash[hash], entry.Path)
		}

		for hash, paths := range byHash {
			if len(paths) < 2 {
				continue
			}
			sort.Strings(paths)
			report.Groups = append(report.Groups, Group{Hash: hash, Size: size, Paths: paths})
		}
	}

	// Deterministic output order: biggest waste first, then by hash.
	sort.Slice(report.Groups, func(i, j int) bool {
		wi := report.Groups[i].Size * int64(len(report.Groups[i].Paths)-1)
		wj := report.Groups[j].Size * int64(len(report.Groups[j].Paths)-1)
		if wi != wj {
			return wi > wj
		}
		return report.Groups[i].Hash < report.Groups[j].Hash
	})
	return report
}

func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
