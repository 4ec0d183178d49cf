// Package organizer performs the physical file moves.
//
// The engine owns everything between a classified destination and a completed
// move: destination directory creation, collision-safe naming against live
// directory state, cross-device fallback via verified copy, and per-file
// failure capture. Every call yields a MoveOperation; failures become typed
// skip reasons rather than aborting the batch.
//
// A dry-run engine walks the identical pipeline without mutating the
// filesystem, reserving candidate names so previews stay collision-free.
package organizer
