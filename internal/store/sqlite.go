package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/lead-cli/internal/model"
)

// SQLiteStore implements LeadRepository using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	place_id   TEXT UNIQUE,
	data       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// Migrate creates the leads table.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close implements LeadRepository.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Add implements LeadRepository.
func (s *SQLiteStore) Add(ctx context.Context, leads ...model.Lead) (int, error) {
	leads = append([]model.Lead(nil), leads...)
	prepare(leads)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	added := 0
	for _, l := range leads {
		data, err := json.Marshal(l)
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: marshal lead")
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO leads (id, place_id, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			l.ID, nullable(l.PlaceID), string(data), now, now,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert lead %s", l.ID)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: rows affected")
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return added, nil
}

// List implements LeadRepository.
func (s *SQLiteStore) List(ctx context.Context) ([]model.Lead, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM leads ORDER BY seq`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close() //nolint:errcheck

	leads := []model.Lead{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		var l model.Lead
		if err := json.Unmarshal([]byte(data), &l); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal lead")
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: iterate leads")
}

// Get implements LeadRepository.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Lead, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM leads WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get lead %s", id)
	}

	var l model.Lead
	if err := json.Unmarshal([]byte(data), &l); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal lead")
	}
	return &l, nil
}

// Replace implements LeadRepository.
func (s *SQLiteStore) Replace(ctx context.Context, lead model.Lead) error {
	data, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal lead")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET place_id = ?, data = ?, updated_at = ? WHERE id = ?`,
		nullable(lead.PlaceID), string(data), time.Now().UTC(), lead.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update lead %s", lead.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return notFound(lead.ID)
	}
	return nil
}

// Clear implements LeadRepository.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM leads`)
	return eris.Wrap(err, "sqlite: clear leads")
}
