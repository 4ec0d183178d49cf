package journal_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stellar/internal/journal"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestUndoRestoresFilesAndRemovesCreatedDirs(t *testing.T) {
	store := openStore(t, 50)
	ctx := context.Background()
	target := t.TempDir()

	docs := filepath.Join(target, "Documents")
	images := filepath.Join(target, "Images")
	moves := []journal.Move{
		{Source: filepath.Join(target, "a.pdf"), Destination: filepath.Join(docs, "a.pdf")},
		{Source: filepath.Join(target, "b.pdf"), Destination: filepath.Join(docs, "b.pdf")},
		{Source: filepath.Join(target, "c.jpg"), Destination: filepath.Join(images, "c.jpg")},
	}
	for _, m := range moves {
		mustWrite(t, m.Destination, "content")
	}

	session := sessionFor(target, time.Now(), moves...)
	session.CreatedDirs = []string{docs, images}
	if err := store.Commit(ctx, session); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	report, err := store.Undo(ctx, target)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if report.Restored != 3 || len(report.Skipped) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	for _, m := range moves {
		if _, err := os.Stat(m.Source); err != nil {
			t.Errorf("source not restored: %s", m.Source)
		}
		if _, err := os.Stat(m.Destination); !os.IsNotExist(err) {
			t.Errorf("destination still present: %s", m.Destination)
		}
	}
	for _, dir := range []string{docs, images} {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Errorf("created dir not removed: %s", dir)
		}
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatal("target root must never be removed")
	}
}

func TestUndoSkipsMissingDestinations(t *testing.T) {
	store := openStore(t, 50)
	ctx := context.Background()
	target := t.TempDir()

	present := journal.Move{Source: filepath.Join(target, "kept.txt"), Destination: filepath.Join(target, "Documents", "kept.txt")}
	vanished := journal.Move{Source: filepath.Join(target, "gone.txt"), Destination: filepath.Join(target, "Documents", "gone.txt")}
	mustWrite(t, present.Destination, "kept")

	session := sessionFor(target, time.Now(), present, vanished)
	session.CreatedDirs = []string{filepath.Join(target, "Documents")}
	if err := store.Commit(ctx, session); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	report, err := store.Undo(ctx, target)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if report.Restored != 1 || len(report.Skipped) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if _, err := os.Stat(present.Source); err != nil {
		t.Fatal("present file not restored")
	}
}

func TestUndoTwiceIsNoOp(t *testing.T) {
	store := openStore(t, 50)
	ctx := context.Background()
	target := t.TempDir()

	move := journal.Move{Source: filepath.Join(target, "a.txt"), Destination: filepath.Join(target, "Documents", "a.txt")}
	mustWrite(t, move.Destination, "x")
	session := sessionFor(target, time.Now(), move)
	session.CreatedDirs = []string{filepath.Join(target, "Documents")}
	if err := store.Commit(ctx, session); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if _, err := store.Undo(ctx, target); err != nil {
		t.Fatalf("first Undo failed: %v", err)
	}
	if _, err := store.Undo(ctx, target); !errors.Is(err, journal.ErrNothingToUndo) {
		t.Fatalf("second Undo should report nothing to undo, got %v", err)
	}
}

func TestUndoLeavesNonEmptyDirs(t *testing.T) {
	store := openStore(t, 50)
	ctx := context.Background()
	target := t.TempDir()

	docs := filepath.Join(target, "Documents")
	move := journal.Move{Source: filepath.Join(target, "a.txt"), Destination: filepath.Join(docs, "a.txt")}
	mustWrite(t, move.Destination, "x")
	// A file the session did not create lives in the same directory.
	mustWrite(t, filepath.Join(docs, "unrelated.txt"), "keep me")

	session := sessionFor(target, time.Now(), move)
	session.CreatedDirs = []string{docs}
	if err := store.Commit(ctx, session); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if _, err := store.Undo(ctx, target); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if _, err := os.Stat(docs); err != nil {
		t.Fatal("non-empty directory must not be removed")
	}
	if _, err := os.Stat(filepath.Join(docs, "unrelated.txt")); err != nil {
		t.Fatal("unrelated file must survive undo")
	}
}
