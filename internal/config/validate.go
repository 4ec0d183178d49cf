package config

import (
	"errors"
	"fmt"
)

var validModes = map[string]struct{}{"category": {}, "date": {}, "hybrid": {}}

var validRenames = map[string]struct{}{"clean": {}, "date-prefix": {}, "skip": {}}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if _, ok := validModes[c.Organize.Mode]; !ok {
		return fmt.Errorf("organize.mode: unsupported value %q (expected category, date, or hybrid)", c.Organize.Mode)
	}
	if _, ok := validRenames[c.Organize.Rename]; !ok {
		return fmt.Errorf("organize.rename: unsupported value %q (expected clean, date-prefix, or skip)", c.Organize.Rename)
	}
	if len(c.Categories) == 0 {
		return errors.New("categories: at least one category must be configured")
	}
	for name, exts := range c.Categories {
		if name == "" {
			return errors.New("categories: category names must not be empty")
		}
		if len(exts) == 0 {
			return fmt.Errorf("categories.%s: at least one extension required", name)
		}
	}
	if c.Journal.Retention < 10 {
		return fmt.Errorf("journal.retention: must be at least 10, got %d", c.Journal.Retention)
	}
	return nil
}
