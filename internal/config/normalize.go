package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.StateDir, err = expandPath(valueOr(c.Paths.StateDir, defaultStateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(valueOr(c.Paths.LogDir, defaultLogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	c.Organize.Mode = strings.ToLower(strings.TrimSpace(valueOr(c.Organize.Mode, defaultMode)))
	c.Organize.Rename = strings.ToLower(strings.TrimSpace(valueOr(c.Organize.Rename, defaultRename)))

	if c.Watch.DebounceSeconds <= 0 {
		c.Watch.DebounceSeconds = defaultDebounceSeconds
	}
	if c.Journal.Retention <= 0 {
		c.Journal.Retention = defaultRetention
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(valueOr(c.Logging.Level, defaultLogLevel)))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(valueOr(c.Logging.Format, defaultLogFormat)))

	normalized := make(map[string][]string, len(c.Categories))
	for name, exts := range c.Categories {
		cleaned := make([]string, 0, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
			if ext == "" {
				continue
			}
			cleaned = append(cleaned, ext)
		}
		normalized[strings.TrimSpace(name)] = cleaned
	}
	c.Categories = normalized

	return nil
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
