// Package history keeps every balance observation in a SQLite database.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/banktotal-dev/banktotal/internal/model"
)

// Schema creates the observations table. A message re-read on a later run
// has the same (source, sender, raw) and is stored once.
const Schema = `
CREATE TABLE IF NOT EXISTS observations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    observed_at TIMESTAMP NOT NULL,
    source TEXT NOT NULL,              -- 'sms', 'captured' or 'notification'
    sender TEXT NOT NULL,              -- phone number or package name
    institution TEXT NOT NULL,
    balance INTEGER NOT NULL,
    kind TEXT NOT NULL DEFAULT '',     -- '입금', '출금' or ''
    amount INTEGER NOT NULL DEFAULT 0,
    account TEXT NOT NULL DEFAULT '',
    raw TEXT NOT NULL,
    UNIQUE(source, sender, raw)
);

CREATE INDEX IF NOT EXISTS idx_observations_observed_at
    ON observations(observed_at);
`

// Entry is a stored observation.
type Entry struct {
	ID         int64
	RunID      string
	ObservedAt time.Time
	model.Observation
}

// DB is the observation history database.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening history: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &DB{db: db, path: path}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Record stores observations from one run and returns how many were new.
func (d *DB) Record(runID string, at time.Time, obs []model.Observation) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning history transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.Prepare(`
		INSERT INTO observations
			(run_id, observed_at, source, sender, institution, balance, kind, amount, account, raw)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source, sender, raw) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing history insert: %w", err)
	}
	defer stmt.Close()

	added := 0
	for i, o := range obs {
		res, err := stmt.Exec(runID, at.UTC(), string(o.Source), o.Sender, string(o.Institution),
			o.Balance, string(o.Kind), o.Amount, o.Account, o.Raw)
		if err != nil {
			return 0, fmt.Errorf("recording observation %d: %w", i, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("recording observation %d: %w", i, err)
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing history: %w", err)
	}
	return added, nil
}

// Recent returns up to limit observations, newest first.
func (d *DB) Recent(limit int) ([]Entry, error) {
	rows, err := d.db.Query(`
		SELECT id, run_id, observed_at, source, sender, institution, balance, kind, amount, account, raw
		FROM observations
		ORDER BY observed_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var source, institution, kind string
		if err := rows.Scan(&e.ID, &e.RunID, &e.ObservedAt, &source, &e.Sender, &institution,
			&e.Balance, &kind, &e.Amount, &e.Account, &e.Raw); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Source = model.Source(source)
		e.Institution = model.Institution(institution)
		e.Kind = model.TxnKind(kind)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return entries, nil
}
