// Package sqlite provides a local SQLite-backed point store with the
// same capabilities as the remote backend, for offline and development
// use. Resume state still lives in the store, never in the tool.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/jera/internal/apperr"
	"github.com/starford/jera/internal/models"
	"github.com/starford/jera/internal/store"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS points (
	day     TEXT NOT NULL,
	tag     TEXT NOT NULL DEFAULT '',
	weekday TEXT NOT NULL,
	value   INTEGER NOT NULL,
	UNIQUE(day, tag)
);

CREATE INDEX IF NOT EXISTS idx_points_day ON points(day);
`

// DB wraps a sql.DB with point-store operations.
type DB struct {
	conn *sql.DB
}

// Verify *DB satisfies the store capabilities at compile time.
var _ store.Store = (*DB)(nil)

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// LatestTimestamp returns the newest day present in the points table.
func (db *DB) LatestTimestamp(ctx context.Context) (time.Time, bool, error) {
	var day sql.NullString
	err := db.conn.QueryRowContext(ctx, `SELECT MAX(day) FROM points`).Scan(&day)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("sqlite: latest timestamp: %v: %w", err, apperr.ErrQueryRejected)
	}
	if !day.Valid {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(models.DateLayout, day.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("sqlite: stored day %q: %w", day.String, apperr.ErrQueryRejected)
	}
	return models.Day(t), true, nil
}

// WriteBatch writes each record in its own transaction so one bad
// record never takes its neighbours down with it.
func (db *DB) WriteBatch(ctx context.Context, records []models.IngestionRecord) ([]store.WriteStatus, error) {
	statuses := make([]store.WriteStatus, 0, len(records))
	for _, rec := range records {
		statuses = append(statuses, store.WriteStatus{Record: rec, Err: db.writeRecord(ctx, rec)})
	}
	return statuses, nil
}

func (db *DB) writeRecord(ctx context.Context, rec models.IngestionRecord) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %v: %w", err, apperr.ErrWriteRejected)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	day := rec.Date.Format(models.DateLayout)
	weekday := rec.Date.Format("Mon")

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO points (day, tag, weekday, value)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare insert: %v: %w", err, apperr.ErrWriteRejected)
	}
	defer stmt.Close()

	if len(rec.Tags) == 0 {
		// The date must advance the cursor even when nothing was tagged.
		if _, err := stmt.ExecContext(ctx, day, "", weekday, 0); err != nil {
			return fmt.Errorf("sqlite: write %s: %v: %w", day, err, apperr.ErrWriteRejected)
		}
	}
	for _, tag := range rec.Tags {
		if _, err := stmt.ExecContext(ctx, day, tag, weekday, 1); err != nil {
			return fmt.Errorf("sqlite: write %s: %v: %w", day, err, apperr.ErrWriteRejected)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit %s: %v: %w", day, err, apperr.ErrWriteRejected)
	}
	return nil
}
