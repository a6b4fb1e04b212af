// Package storage provides SQLite-based persistence for the run journal.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for the run journal.
type Store struct {
	db *sql.DB
}

// Session is one recorded play session: the simulation parameters needed to
// rebuild it plus a summary of how it went.
type Session struct {
	ID         string
	Seed       int64
	TickRate   int
	ConfigYAML string
	Player     string
	Ticks      int64 // Ticks simulated when the session finished
	Runs       int   // Runs started during the session
	LastScore  int   // Score when the session finished
	CreatedAt  time.Time
	FinishedAt time.Time // Zero while the session is still open
}

// Finished reports whether the session was closed cleanly.
func (s Session) Finished() bool {
	return !s.FinishedAt.IsZero()
}

// EventRecord is one journal entry as stored.
type EventRecord struct {
	Seq    int
	Tick   int64
	Kind   string
	Action string
	Score  int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// SSH sessions write concurrently; one connection serializes them
	// instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			tick_rate INTEGER NOT NULL,
			config_yaml TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			ticks INTEGER NOT NULL DEFAULT 0,
			runs INTEGER NOT NULL DEFAULT 0,
			last_score INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			finished_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at DESC);

		CREATE TABLE IF NOT EXISTS session_events (
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			tick INTEGER NOT NULL,
			kind TEXT NOT NULL,
			action TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (session_id, seq)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateSession inserts a new open session.
func (s *Store) CreateSession(sess Session) error {
	if sess.ID == "" {
		return errors.New("storage: session id is empty")
	}
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, seed, tick_rate, config_yaml, player)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.Seed, sess.TickRate, sess.ConfigYAML, sess.Player,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot create session %s: %w", sess.ID, err)
	}
	return nil
}

// AppendEvents stores a batch of journal entries in one transaction.
func (s *Store) AppendEvents(sessionID string, events []EventRecord) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO session_events (session_id, seq, tick, kind, action, score)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(sessionID, e.Seq, e.Tick, e.Kind, e.Action, e.Score); err != nil {
			return fmt.Errorf("storage: cannot append event %d: %w", e.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit events: %w", err)
	}
	return nil
}

// FinishSession records the session summary and marks it closed.
func (s *Store) FinishSession(id string, ticks int64, runs, lastScore int) error {
	res, err := s.db.Exec(
		`UPDATE sessions
		 SET ticks = ?, runs = ?, last_score = ?, finished_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		ticks, runs, lastScore, id,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish session %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("storage: session %s not found", id)
	}
	return nil
}

const sessionColumns = `id, seed, tick_rate, config_yaml, player, ticks, runs, last_score, created_at, finished_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (Session, error) {
	var sess Session
	var createdAt, finishedAt any
	err := row.Scan(
		&sess.ID,
		&sess.Seed,
		&sess.TickRate,
		&sess.ConfigYAML,
		&sess.Player,
		&sess.Ticks,
		&sess.Runs,
		&sess.LastScore,
		&createdAt,
		&finishedAt,
	)
	if err != nil {
		return Session{}, err
	}
	sess.CreatedAt = parseTimestamp(createdAt)
	sess.FinishedAt = parseTimestamp(finishedAt)
	return sess, nil
}

// Session retrieves a session by ID. Returns nil without error if it does
// not exist.
func (s *Store) Session(id string) (*Session, error) {
	row := s.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`,
		id,
	)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return &sess, nil
}

// RecentSessions retrieves the most recent sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+sessionColumns+`
		 FROM sessions
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// Events retrieves the journal of a session in recording order.
func (s *Store) Events(sessionID string) ([]EventRecord, error) {
	rows, err := s.db.Query(
		`SELECT seq, tick, kind, action, score
		 FROM session_events
		 WHERE session_id = ?
		 ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query events: %w", err)
	}
	defer rows.Close()

	var events []EventRecord
	for rows.Next() {
		var e EventRecord
		if err := rows.Scan(&e.Seq, &e.Tick, &e.Kind, &e.Action, &e.Score); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return events, nil
}

// DeleteSession removes a session and its journal.
func (s *Store) DeleteSession(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM session_events WHERE session_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete events: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

// parseTimestamp handles both time.Time and string datetime columns.
// NULL and unparseable values map to the zero time.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
