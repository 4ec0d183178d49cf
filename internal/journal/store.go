package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages session persistence backed by SQLite.
type Store struct {
	db        *sql.DB
	path      string
	retention int
}

// Open initializes or connects to the journal database in the given state
// directory. Retention bounds how many sessions are kept per target.
func Open(stateDir string, retention int) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}
	if retention < 1 {
		retention = 1
	}

	dbPath := filepath.Join(stateDir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, retention: retention}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the on-disk location of the journal database.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Commit persists a finished session and prunes sessions beyond the retention
// bound for its target. Sessions without successful moves are not recorded.
func (s *Store) Commit(ctx context.Context, session *Session) error {
	if session == nil || len(session.Moves) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (
            id, target, started_at, duration_ms,
            files_moved, files_renamed, files_skipped, bytes_moved
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.Target,
		session.StartedAt.UTC().Format(time.RFC3339Nano),
		session.Duration.Milliseconds(),
		session.FilesMoved,
		session.FilesRenamed,
		session.FilesSkipped,
		session.BytesMoved,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for i, move := range session.Moves {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO session_moves (session_id, seq, source, destination, bytes) VALUES (?, ?, ?, ?, ?)",
			session.ID, i, move.Source, move.Destination, move.Bytes,
		); err != nil {
			return fmt.Errorf("insert move %d: %w", i, err)
		}
	}
	for i, dir := range session.CreatedDirs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO session_dirs (session_id, seq, path) VALUES (?, ?, ?)",
			session.ID, i, dir,
		); err != nil {
			return fmt.Errorf("insert created dir %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sessions WHERE target = ? AND id NOT IN (
            SELECT id FROM sessions WHERE target = ?
            ORDER BY started_at DESC LIMIT ?
        )`,
		session.Target, session.Target, s.retention,
	); err != nil {
		return fmt.Errorf("prune sessions: %w", err)
	}

	return tx.Commit()
}

// Last returns the most recent session for a target, with moves and created
// directories loaded, or nil when none exists.
func (s *Store) Last(ctx context.Context, target string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, target, started_at, duration_ms,
            files_moved, files_renamed, files_skipped, bytes_moved
        FROM sessions WHERE target = ?
        ORDER BY started_at DESC LIMIT 1`,
		target,
	)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := s.loadDetails(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// History returns up to n session summaries for a target, most recent first.
// Moves are not loaded.
func (s *Store) History(ctx context.Context, target string, n int) ([]*Session, error) {
	if n < 1 {
		n = s.retention
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, target, started_at, duration_ms,
            files_moved, files_renamed, files_skipped, bytes_moved
        FROM sessions WHERE target = ?
        ORDER BY started_at DESC LIMIT ?`,
		target, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (s *Store) delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var session Session
	var startedAt string
	var durationMS int64
	if err := row.Scan(
		&session.ID,
		&session.Target,
		&startedAt,
		&durationMS,
		&session.FilesMoved,
		&session.FilesRenamed,
		&session.FilesSkipped,
		&session.BytesMoved,
	); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse session timestamp: %w", err)
	}
	session.StartedAt = parsed
	session.Duration = time.Duration(durationMS) * time.Millisecond
	return &session, nil
}

func (s *Store) loadDetails(ctx context.Context, session *Session) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT source, destination, bytes FROM session_moves WHERE session_id = ? ORDER BY seq",
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("query moves: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var move Move
		if err := rows.Scan(&move.Source, &move.Destination, &move.Bytes); err != nil {
			return err
		}
		session.Moves = append(session.Moves, move)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	dirRows, err := s.db.QueryContext(ctx,
		"SELECT path FROM session_dirs WHERE session_id = ? ORDER BY seq",
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("query created dirs: %w", err)
	}
	defer dirRows.Close()
	for dirRows.Next() {
		var dir string
		if err := dirRows.Scan(&dir); err != nil {
			return err
		}
		session.CreatedDirs = append(session.CreatedDirs, dir)
	}
	return dirRows.Err()
}
