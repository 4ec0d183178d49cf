package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyVerifiedCopiesContent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	payload := []byte("stellar verified copy payload")
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := CopyVerified(src, dst); err != nil {
		t.Fatalf("CopyVerified failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("destination content mismatch: %q", got)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source must be left intact: %v", err)
	}
}

func TestCopyVerifiedRefusesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if err := os.WriteFile(dst, []byte("existing"), 0o644); err != nil {
		t.Fatalf("write destination: %v", err)
	}

	if err := CopyVerified(src, dst); err == nil {
		t.Fatal("expected error for existing destination")
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "existing" {
		t.Fatalf("existing destination must be untouched, got %q, %v", got, err)
	}
}

func TestCopyVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyVerified(filepath.Join(dir, "absent"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
}
