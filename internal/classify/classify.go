package classify

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Mode selects how files are organized into folders.
type Mode int

const (
	// ModeCategory groups by file type: Documents/, Images/, Videos/.
	ModeCategory Mode = iota
	// ModeDate groups by modification date: 2024/01-january/.
	ModeDate
	// ModeHybrid nests year under category: Documents/2024/.
	ModeHybrid
)

func (m Mode) String() string {
	switch m {
	case ModeDate:
		return "date"
	case ModeHybrid:
		return "hybrid"
	default:
		return "category"
	}
}

// ParseMode converts a config/flag value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "category", "cat", "c", "":
		return ModeCategory, nil
	case "date", "d":
		return ModeDate, nil
	case "hybrid", "h":
		return ModeHybrid, nil
	default:
		return ModeCategory, fmt.Errorf("unknown organization mode %q", s)
	}
}

// FallbackCategory receives files whose extension matches no configured category.
const FallbackCategory = "Others"

// months is a fixed table so date folders never depend on locale.
var months = [12]string{
	"01-january",
	"02-february",
	"03-march",
	"04-april",
	"05-may",
	"06-june",
	"07-july",
	"08-august",
	"09-september",
	"10-october",
	"11-november",
	"12-december",
}

// Category returns the configured category for an extension, or the fallback.
// Matching is case-insensitive; the leading dot is ignored.
func Category(ext string, categories map[string][]string) string {
	normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if normalized == "" {
		return FallbackCategory
	}
	for name, exts := range categories {
		for _, candidate := range exts {
			if strings.ToLower(candidate) == normalized {
				return name
			}
		}
	}
	return FallbackCategory
}

// IsCategoryName reports whether name matches a configured category (or the
// fallback), compared case-insensitively. Scanner uses this to avoid
// descending into folders stellar itself created.
func IsCategoryName(name string, categories map[string][]string) bool {
	lower := strings.ToLower(name)
	if lower == strings.ToLower(FallbackCategory) {
		return true
	}
	for category := range categories {
		if strings.ToLower(category) == lower {
			return true
		}
	}
	return false
}

// Destination computes the relative destination directory for a file with the
// given extension and modification time.
func Destination(ext string, modTime time.Time, mode Mode, categories map[string][]string) string {
	switch mode {
	case ModeDate:
		return filepath.Join(fmt.Sprintf("%04d", modTime.Year()), months[modTime.Month()-1])
	case ModeHybrid:
		return filepath.Join(Category(ext, categories), fmt.Sprintf("%04d", modTime.Year()))
	default:
		return Category(ext, categories)
	}
}
