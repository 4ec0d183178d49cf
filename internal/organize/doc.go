// Package organize drives a full organization run: preflight checks, target
// locking, scanning, per-file classification and renaming, move execution,
// dominant-category folder renames, and journal commit.
//
// Files are processed strictly sequentially. A failed file becomes a skip in
// the summary and never aborts the run; only preflight failures (missing
// target, protected path, busy lock) are fatal.
package organize
