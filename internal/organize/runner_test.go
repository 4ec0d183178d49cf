package organize_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"stellar/internal/classify"
	"stellar/internal/journal"
	"stellar/internal/organize"
	"stellar/internal/renamer"
	"stellar/internal/testsupport"
)

func newTestRunner(t *testing.T, opts ...testsupport.ConfigOption) (*organize.Runner, *journal.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenJournal(t, cfg)
	return organize.NewRunner(cfg, store, nil), store
}

func TestRunMovesByCategoryAndJournals(t *testing.T) {
	runner, store := newTestRunner(t)
	target := t.TempDir()
	testsupport.PopulateDir(t, target, "report.pdf", "photo.jpg", "song.mp3")

	summary, err := runner.Run(context.Background(), target, organize.Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.FilesMoved != 3 || summary.FilesSkipped != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	for path, want := range map[string]string{
		"report.pdf": "Documents",
		"photo.jpg":  "Images",
		"song.mp3":   "Audio",
	} {
		moved := filepath.Join(target, want, path)
		if _, err := os.Stat(moved); err != nil {
			t.Errorf("%s not moved to %s: %v", path, want, err)
		}
	}

	last, err := store.Last(context.Background(), target)
	if err != nil {
		t.Fatalf("Last failed: %v", err)
	}
	if last == nil || last.ID != summary.SessionID || len(last.Moves) != 3 {
		t.Fatalf("session not journaled: %+v", last)
	}
	if len(last.CreatedDirs) != 3 {
		t.Fatalf("created dirs not recorded: %v", last.CreatedDirs)
	}
}

func TestRunDryRunMutatesNothing(t *testing.T) {
	runner, store := newTestRunner(t)
	target := t.TempDir()
	testsupport.PopulateDir(t, target, "report.pdf")

	summary, err := runner.Run(context.Background(), target, organize.Options{DryRun: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.FilesMoved != 1 {
		t.Fatalf("preview should count planned moves: %+v", summary)
	}
	if want := filepath.Join(target, "Documents", "report.pdf"); summary.Moves[0].Destination != want {
		t.Fatalf("planned destination = %s, want %s", summary.Moves[0].Destination, want)
	}

	if _, err := os.Stat(filepath.Join(target, "report.pdf")); err != nil {
		t.Fatal("dry run must leave the source in place")
	}
	if _, err := os.Stat(filepath.Join(target, "Documents")); !os.IsNotExist(err) {
		t.Fatal("dry run must not create directories")
	}
	last, err := store.Last(context.Background(), target)
	if err != nil {
		t.Fatalf("Last failed: %v", err)
	}
	if last != nil {
		t.Fatalf("dry run must not journal: %+v", last)
	}
}

func TestRunCleanRenameCountsRenames(t *testing.T) {
	runner, _ := newTestRunner(t)
	target := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(target, "My Résumé (1).pdf"), 16)

	summary, err := runner.Run(context.Background(), target, organize.Options{Rename: renamer.ModeClean})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.FilesMoved != 1 || summary.FilesRenamed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(target, "Documents", "my-resume.pdf")); err != nil {
		t.Fatalf("cleaned name not found: %v", err)
	}
}

func TestRunResolvesNameConflicts(t *testing.T) {
	runner, _ := newTestRunner(t)
	target := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(target, "report.pdf"), 16)
	testsupport.WriteFile(t, filepath.Join(target, "Documents", "report.pdf"), 16)

	summary, err := runner.Run(context.Background(), target, organize.Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.FilesMoved != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(target, "Documents", "report-1.pdf")); err != nil {
		t.Fatalf("conflict suffix not applied: %v", err)
	}
	if _, err := os.Stat(filepath.Join(target, "Documents", "report.pdf")); err != nil {
		t.Fatal("existing file must be untouched")
	}
}

func TestRunRenamesDominantCategoryFolder(t *testing.T) {
	runner, store := newTestRunner(t)
	target := t.TempDir()
	vacation := filepath.Join(target, "vacation pics")
	testsupport.PopulateDir(t, vacation, "a.jpg", "b.jpg", "c.png", "notes.txt")

	summary, err := runner.Run(context.Background(), target, organize.Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(summary.FolderRenames) != 1 || summary.FolderRenames[0].Skipped {
		t.Fatalf("expected one folder rename: %+v", summary.FolderRenames)
	}
	if _, err := os.Stat(filepath.Join(target, "Images", "a.jpg")); err != nil {
		t.Fatalf("folder not renamed to category: %v", err)
	}
	if _, err := os.Stat(vacation); !os.IsNotExist(err) {
		t.Fatal("old folder name still present")
	}

	last, err := store.Last(context.Background(), target)
	if err != nil || last == nil {
		t.Fatalf("session not journaled: %v", err)
	}
	found := false
	for _, m := range last.Moves {
		if m.Source == vacation {
			found = true
		}
	}
	if !found {
		t.Fatal("folder rename not recorded as a move")
	}
}

func TestRunSkipsFolderRenameWhenDestinationExists(t *testing.T) {
	runner, _ := newTestRunner(t)
	target := t.TempDir()
	testsupport.PopulateDir(t, filepath.Join(target, "shots"), "a.jpg", "b.jpg", "c.jpg")
	if err := os.MkdirAll(filepath.Join(target, "Images"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	summary, err := runner.Run(context.Background(), target, organize.Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(summary.FolderRenames) != 1 || !summary.FolderRenames[0].Skipped {
		t.Fatalf("expected skipped folder rename: %+v", summary.FolderRenames)
	}
	if _, err := os.Stat(filepath.Join(target, "shots")); err != nil {
		t.Fatal("blocked folder must keep its name")
	}
}

func TestRunRecursiveSweepsSubdirectories(t *testing.T) {
	runner, _ := newTestRunner(t)
	target := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(target, "nested", "deep", "old.pdf"), 16)

	summary, err := runner.Run(context.Background(), target, organize.Options{Recursive: true, Mode: classify.ModeCategory})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.FilesMoved != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(target, "Documents", "old.pdf")); err != nil {
		t.Fatalf("nested file not collected: %v", err)
	}
}

func TestRunRefusesProtectedTarget(t *testing.T) {
	protected := t.TempDir()
	runner, _ := newTestRunner(t, testsupport.WithProtected(protected))

	if _, err := runner.Run(context.Background(), protected, organize.Options{}); err == nil {
		t.Fatal("expected protected-target refusal")
	}
}

func TestRunRefusesProjectFolder(t *testing.T) {
	runner, _ := newTestRunner(t)
	target := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(target, "go.mod"), 16)

	if _, err := runner.Run(context.Background(), target, organize.Options{}); err == nil {
		t.Fatal("expected project-folder refusal")
	}
}

func TestProcessFileMovesSingleFile(t *testing.T) {
	runner, store := newTestRunner(t)
	target := t.TempDir()
	path := filepath.Join(target, "incoming.pdf")
	testsupport.WriteFile(t, path, 16)

	summary, err := runner.ProcessFile(context.Background(), target, path, organize.Options{})
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if summary == nil || summary.FilesMoved != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(target, "Documents", "incoming.pdf")); err != nil {
		t.Fatalf("file not moved: %v", err)
	}
	last, err := store.Last(context.Background(), target)
	if err != nil || last == nil || len(last.Moves) != 1 {
		t.Fatalf("single-file session not journaled: %+v (%v)", last, err)
	}
}

func TestProcessFileIgnoresHiddenAndExtensionless(t *testing.T) {
	runner, _ := newTestRunner(t)
	target := t.TempDir()
	testsupport.PopulateDir(t, target, ".hidden.pdf", "README")

	for _, name := range []string{".hidden.pdf", "README"} {
		summary, err := runner.ProcessFile(context.Background(), target, filepath.Join(target, name), organize.Options{})
		if err != nil {
			t.Fatalf("ProcessFile(%s) failed: %v", name, err)
		}
		if summary != nil {
			t.Fatalf("%s should be ignored, got %+v", name, summary)
		}
	}
}
