// Package history keeps an append-only SQLite journal of sync attempts.
//
// The journal is for reporting only (CLI `history` command, control API).
// Reconciliation decisions never read it; the sole source of truth for
// create-vs-update is the remote_id embedded in the note itself.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sync_log (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	path       TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	action     TEXT NOT NULL,
	remote_id  TEXT NOT NULL DEFAULT '',
	error      TEXT NOT NULL DEFAULT '',
	synced_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sync_log_path ON sync_log(path);
CREATE INDEX IF NOT EXISTS idx_sync_log_synced_at ON sync_log(synced_at);
`

// Entry is one row of the journal. Action is "created", "updated", or
// "failed"; Error is empty on success.
type Entry struct {
	ID       int64     `json:"id"`
	Path     string    `json:"path"`
	Title    string    `json:"title"`
	Action   string    `json:"action"`
	RemoteID string    `json:"remote_id,omitempty"`
	Error    string    `json:"error,omitempty"`
	SyncedAt time.Time `json:"synced_at"`
}

// Journal wraps the SQLite connection.
type Journal struct {
	conn *sql.DB
}

// Open opens (or creates) the journal database and applies the schema.
func Open(dsn string) (*Journal, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: apply schema: %w", err)
	}
	return &Journal{conn: conn}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	return j.conn.Close()
}

// Record appends one sync outcome. A nil Journal is a no-op so callers can
// run without a journal configured.
func (j *Journal) Record(e Entry) error {
	if j == nil {
		return nil
	}
	_, err := j.conn.Exec(
		`INSERT INTO sync_log (path, title, action, remote_id, error, synced_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.Path, e.Title, e.Action, e.RemoteID, e.Error, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("history: record: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.conn.Query(
		`SELECT id, path, title, action, remote_id, error, synced_at FROM sync_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Path, &e.Title, &e.Action, &e.RemoteID, &e.Error, &e.SyncedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Counts returns the total number of successful and failed entries.
func (j *Journal) Counts() (succeeded, failed int, err error) {
	err = j.conn.QueryRow(
		`SELECT
			COUNT(CASE WHEN error = '' THEN 1 END),
			COUNT(CASE WHEN error != '' THEN 1 END)
		FROM sync_log`).Scan(&succeeded, &failed)
	if err != nil {
		return 0, 0, fmt.Errorf("history: counts: %w", err)
	}
	return succeeded, failed, nil
}
