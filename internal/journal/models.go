package journal

import "time"

// Move is one recorded source-to-destination file move.
type Move struct {
	Source      string
	Destination string
	Bytes       int64
}

// Session is the record of one run's successful moves plus summary counts.
type Session struct {
	ID           string
	Target       string
	StartedAt    time.Time
	Duration     time.Duration
	FilesMoved   int
	FilesRenamed int
	FilesSkipped int
	BytesMoved   int64
	Moves        []Move
	// CreatedDirs lists directories the run created, parents before children.
	CreatedDirs []string
}

// UndoReport summarizes one undo invocation.
type UndoReport struct {
	SessionID   string
	StartedAt   time.Time
	Restored    int
	Skipped     []string
	RemovedDirs []string
}
