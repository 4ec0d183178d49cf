package pathguard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Reason classifies why a path was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonProtected marks configured system/user/dev paths and their ancestors.
	ReasonProtected
	// ReasonProjectFolder marks directories containing project marker files.
	ReasonProjectFolder
	// ReasonDependencyDir marks well-known dependency/build directories.
	ReasonDependencyDir
	// ReasonHidden marks dot-directories.
	ReasonHidden
)

func (r Reason) String() string {
	switch r {
	case ReasonProtected:
		return "protected path"
	case ReasonProjectFolder:
		return "project folder"
	case ReasonDependencyDir:
		return "dependency directory"
	case ReasonHidden:
		return "hidden directory"
	default:
		return "allowed"
	}
}

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed bool
	Reason  Reason
	// Rule names the specific protected path or marker that matched.
	Rule string
}

// Explain renders a user-facing description of a rejection.
func (d Decision) Explain(path string) string {
	if d.Allowed {
		return fmt.Sprintf("%s is allowed", path)
	}
	if d.Rule != "" {
		return fmt.Sprintf("%s is a %s (%s)", path, d.Reason, d.Rule)
	}
	return fmt.Sprintf("%s is a %s", path, d.Reason)
}

var projectMarkers = []string{
	".git",
	".svn",
	".hg",
	"package.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"Cargo.toml",
	"Cargo.lock",
	"pyproject.toml",
	"setup.py",
	"requirements.txt",
	"Pipfile",
	"Gemfile",
	"go.mod",
	"pom.xml",
	"build.gradle",
	"composer.json",
	"Dockerfile",
}

var dependencyDirs = map[string]struct{}{
	"node_modules": {},
	"target":       {},
	"build":        {},
	"dist":         {},
	"venv":         {},
	"__pycache__":  {},
	".cargo":       {},
	".next":        {},
	".nuxt":        {},
	"vendor":       {},
	"bin":          {},
	"obj":          {},
}

// Guard evaluates paths against the configured protection rules.
type Guard struct {
	protected []string
}

// New builds a Guard from the configured protected path list. Paths are
// cleaned; relative entries are ignored.
func New(protected []string) *Guard {
	cleaned := make([]string, 0, len(protected))
	for _, p := range protected {
		p = filepath.Clean(strings.TrimSpace(p))
		if !filepath.IsAbs(p) {
			continue
		}
		cleaned = append(cleaned, p)
	}
	return &Guard{protected: cleaned}
}

// CheckTarget validates a directory the user asked to organize. Unlike
// CheckDescendant it does not reject hidden directories, so users can
// explicitly organize dot-folders they own.
func (g *Guard) CheckTarget(path string) Decision {
	if d := g.checkProtected(path); !d.Allowed {
		return d
	}
	if marker := projectMarker(path); marker != "" {
		return Decision{Reason: ReasonProjectFolder, Rule: marker}
	}
	return Decision{Allowed: true}
}

// CheckDescendant validates a directory encountered during a recursive walk.
func (g *Guard) CheckDescendant(path string) Decision {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return Decision{Reason: ReasonHidden, Rule: name}
	}
	if _, ok := dependencyDirs[strings.ToLower(name)]; ok {
		return Decision{Reason: ReasonDependencyDir, Rule: name}
	}
	if d := g.checkProtected(path); !d.Allowed {
		return d
	}
	if marker := projectMarker(path); marker != "" {
		return Decision{Reason: ReasonProjectFolder, Rule: marker}
	}
	return Decision{Allowed: true}
}

func (g *Guard) checkProtected(path string) Decision {
	cleaned := filepath.Clean(path)
	for _, p := range g.protected {
		if cleaned == p || isAncestor(cleaned, p) {
			return Decision{Reason: ReasonProtected, Rule: p}
		}
	}
	return Decision{Allowed: true}
}

// isAncestor reports whether path is an ancestor directory of protected.
// Organizing an ancestor would let a recursive run reach the protected tree.
func isAncestor(path, protected string) bool {
	if path == string(filepath.Separator) {
		return protected != path
	}
	return strings.HasPrefix(protected, path+string(filepath.Separator))
}

func projectMarker(dir string) string {
	for _, marker := range projectMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return marker
		}
	}
	return ""
}
