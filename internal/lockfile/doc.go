// Package lockfile guards a target directory against concurrent mutating
// sessions.
//
// Locks are advisory and path-scoped: each target maps to a flock-backed
// lock file in the shared state directory, plus a JSON marker naming the
// holder (pid, hostname, acquisition time) so a busy report can say who owns
// the directory. A marker whose recorded process is gone is reclaimed
// silently; the kernel already released the flock when that process died.
package lockfile
