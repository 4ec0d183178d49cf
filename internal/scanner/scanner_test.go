package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"stellar/internal/pathguard"
	"stellar/internal/scanner"
)

var testCategories = map[string][]string{
	"Documents": {"pdf", "txt"},
	"Images":    {"jpg", "png"},
}

func newScanner() *scanner.Scanner {
	return scanner.New(pathguard.New(nil), testCategories, nil)
}

func write(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func names(entries []scanner.FileEntry) map[string]bool {
	out := make(map[string]bool, len(entries))
	for _, e := range entries {
		out[e.Name()] = true
	}
	return out
}

func TestScanTopLevelSkipsHiddenAndExtensionless(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "report.pdf"))
	write(t, filepath.Join(dir, ".hidden.txt"))
	write(t, filepath.Join(dir, "README"))
	write(t, filepath.Join(dir, "notes.TXT"))

	result, err := newScanner().Scan(dir, false)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	got := names(result.Entries)
	if !got["report.pdf"] || !got["notes.TXT"] {
		t.Fatalf("missing expected entries: %v", got)
	}
	if got[".hidden.txt"] || got["README"] {
		t.Fatalf("unexpected entries: %v", got)
	}
	for _, e := range result.Entries {
		if e.Name() == "notes.TXT" && e.Ext != "txt" {
			t.Fatalf("extension not lowercased: %q", e.Ext)
		}
	}
}

func TestScanRecursiveDescendsAndPrunes(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "top.pdf"))
	write(t, filepath.Join(dir, "sub", "deep.jpg"))
	write(t, filepath.Join(dir, "node_modules", "lib.js"))
	write(t, filepath.Join(dir, "project", "go.mod"))
	write(t, filepath.Join(dir, "project", "code.txt"))
	write(t, filepath.Join(dir, "Documents", "already.pdf"))

	result, err := newScanner().Scan(dir, true)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	got := names(result.Entries)
	if !got["top.pdf"] || !got["deep.jpg"] {
		t.Fatalf("missing expected entries: %v", got)
	}
	if got["lib.js"] {
		t.Fatal("dependency directory was not pruned")
	}
	if got["code.txt"] {
		t.Fatal("project folder was not pruned")
	}
	if got["already.pdf"] {
		t.Fatal("category folder was not excluded")
	}
}

func TestScanRecursiveSurvivesSymlinkCycle(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "sub", "file.txt"))
	if err := os.Symlink(dir, filepath.Join(dir, "sub", "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	result, err := newScanner().Scan(dir, true)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Entries) != 1 || result.Entries[0].Name() != "file.txt" {
		t.Fatalf("unexpected entries: %v", result.Entries)
	}
}

func TestScanFileSymlinkUsesResolvedMetadata(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.txt")
	write(t, target)
	if err := os.Truncate(target, 0); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	if err := os.WriteFile(target, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	link := filepath.Join(dir, "link.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	entry, ok := newScanner().ScanFile(link)
	if !ok {
		t.Fatal("expected symlinked file to scan")
	}
	if entry.Size != int64(len("hello world")) {
		t.Fatalf("expected resolved size, got %d", entry.Size)
	}
}

func TestScanNominatesDominantCategoryFolder(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "vacation", "a.jpg"))
	write(t, filepath.Join(dir, "vacation", "b.jpg"))
	write(t, filepath.Join(dir, "vacation", "c.png"))
	write(t, filepath.Join(dir, "vacation", "notes.txt"))

	result, err := newScanner().Scan(dir, false)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Folders) != 1 {
		t.Fatalf("expected one folder candidate, got %v", result.Folders)
	}
	candidate := result.Folders[0]
	if candidate.Category != "Images" {
		t.Fatalf("expected Images, got %s", candidate.Category)
	}
	if candidate.Ratio <= 0.60 {
		t.Fatalf("ratio %f should exceed threshold", candidate.Ratio)
	}
}

func TestScanIgnoresBalancedFolder(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "mixed", "a.jpg"))
	write(t, filepath.Join(dir, "mixed", "b.pdf"))
	write(t, filepath.Join(dir, "mixed", "c.txt"))
	write(t, filepath.Join(dir, "mixed", "d.png"))

	result, err := newScanner().Scan(dir, false)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Folders) != 0 {
		t.Fatalf("expected no candidates, got %v", result.Folders)
	}
}

func TestScanRejectsMissingTarget(t *testing.T) {
	if _, err := newScanner().Scan(filepath.Join(t.TempDir(), "absent"), false); err == nil {
		t.Fatal("expected error for missing target")
	}
}
