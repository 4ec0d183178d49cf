package testsupport

import (
	"path/filepath"
	"testing"

	"stellar/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Watch.DebounceSeconds = 1

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithRetention overrides the journal retention bound.
func WithRetention(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Journal.Retention = n
	}
}

// WithProtected adds extra protected paths to the test config.
func WithProtected(paths ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Protected.User = append(cfg.Protected.User, paths...)
	}
}

// WithCategories replaces the category table.
func WithCategories(categories map[string][]string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Categories = categories
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
