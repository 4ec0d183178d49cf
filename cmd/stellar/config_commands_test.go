package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	output, err := runCommand(t, "config", "init", "--path", path)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, output)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("sample not written: %v", err)
	}
	if !strings.Contains(string(data), "[paths]") {
		t.Fatalf("sample content unexpected:\n%s", data)
	}

	if _, err := runCommand(t, "config", "init", "--path", path); err == nil {
		t.Fatal("second init should refuse to overwrite")
	}
	if output, err := runCommand(t, "config", "init", "--path", path, "--overwrite"); err != nil {
		t.Fatalf("init --overwrite failed: %v\n%s", err, output)
	}
}

func TestConfigValidateWithDefaults(t *testing.T) {
	cfgPath := writeTestConfig(t)

	output, err := runCommand(t, "config", "validate", "--path", cfgPath)
	if err != nil {
		t.Fatalf("config validate failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Configuration valid") {
		t.Fatalf("expected validation notice:\n%s", output)
	}
}

func TestConfigValidateRejectsBadMode(t *testing.T) {
	base := t.TempDir()
	cfgPath := filepath.Join(base, "stellar.toml")
	mustWriteFile(t, cfgPath, "[organize]\nmode = \"alphabetical\"\n")

	if _, err := runCommand(t, "config", "validate", "--path", cfgPath); err == nil {
		t.Fatal("expected validation failure for unknown mode")
	}
}
