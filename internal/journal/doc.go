// Package journal persists organization sessions in SQLite and replays them
// for undo.
//
// Each session records the ordered moves of one batch or watch-triggered run
// together with the directories that run created. Sessions are immutable once
// committed; the store retains a bounded number per target for history and at
// least the most recent one for undo. Undo reverses the latest session's
// moves in reverse order, prunes now-empty created directories bottom-up, and
// deletes the session row so a second undo is a no-op.
//
// Treat this package as the single source of truth for session semantics;
// schema changes bump schemaVersion in schema.go.
package journal
