package renamer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Mode selects the renaming strategy.
type Mode int

const (
	// ModeSkip leaves filenames unchanged.
	ModeSkip Mode = iota
	// ModeClean normalizes to lowercase dash-separated ASCII.
	ModeClean
	// ModeDatePrefix prepends YYYY-MM-DD- to the original name.
	ModeDatePrefix
)

func (m Mode) String() string {
	switch m {
	case ModeClean:
		return "clean"
	case ModeDatePrefix:
		return "date-prefix"
	default:
		return "skip"
	}
}

// ParseMode converts a config/flag value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "skip", "none", "s", "":
		return ModeSkip, nil
	case "clean", "c":
		return ModeClean, nil
	case "date-prefix", "date", "d":
		return ModeDatePrefix, nil
	default:
		return ModeSkip, fmt.Errorf("unknown rename mode %q", s)
	}
}

// copyMarker matches trailing duplicate markers on a raw stem: " (1)", "(copy)", "(copie)".
var copyMarker = regexp.MustCompile(`(?i)\s*\((?:\d+|copy|copie)\)\s*$`)

// slugSuffix matches duplicate markers that survive slugification: -1 .. -9, -copy, -copie.
var slugSuffix = regexp.MustCompile(`(?:-[1-9]|-copy|-copie)$`)

// stripMarks removes combining marks after NFD decomposition, turning
// accented letters into their base forms (é -> e).
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Apply produces the candidate filename for the given original name and
// modification time. The extension is preserved with its original case.
func Apply(name string, modTime time.Time, mode Mode) string {
	switch mode {
	case ModeClean:
		return clean(name)
	case ModeDatePrefix:
		return modTime.Format("2006-01-02") + "-" + name
	default:
		return name
	}
}

func clean(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	stem = copyMarker.ReplaceAllString(stem, "")
	stem = slugify(stem)
	for {
		trimmed := slugSuffix.ReplaceAllString(stem, "")
		if trimmed == stem {
			break
		}
		stem = trimmed
	}
	stem = strings.Trim(stem, "-")

	if stem == "" {
		stem = strings.Trim(slugify(strings.TrimSuffix(name, ext)), "-")
	}
	return stem + ext
}

// slugify lowercases, drops diacritics, and converts separator runs into
// single dashes.
func slugify(text string) string {
	decomposed, _, err := transform.String(stripMarks, text)
	if err != nil {
		decomposed = text
	}

	var b strings.Builder
	b.Grow(len(decomposed))
	prevDash := true // suppress leading dash
	for _, r := range decomposed {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
