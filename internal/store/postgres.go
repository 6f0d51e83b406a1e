package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-cli/internal/model"
)

// Pool is the subset of *pgxpool.Pool the repository uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore implements LeadRepository using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = min(minConns, maxConns)
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	seq        BIGSERIAL PRIMARY KEY,
	id         TEXT NOT NULL UNIQUE,
	place_id   TEXT UNIQUE,
	data       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate creates the leads table.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Close implements LeadRepository.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// Add implements LeadRepository.
func (s *PostgresStore) Add(ctx context.Context, leads ...model.Lead) (int, error) {
	leads = append([]model.Lead(nil), leads...)
	prepare(leads)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	now := time.Now().UTC()
	added := 0
	for _, l := range leads {
		data, err := json.Marshal(l)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: marshal lead")
		}
		tag, err := tx.Exec(ctx,
			`INSERT INTO leads (id, place_id, data, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`,
			l.ID, nullable(l.PlaceID), data, now, now,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: insert lead %s", l.ID)
		}
		added += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: commit")
	}
	return added, nil
}

// List implements LeadRepository.
func (s *PostgresStore) List(ctx context.Context) ([]model.Lead, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM leads ORDER BY seq`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	leads := []model.Lead{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		var l model.Lead
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal lead")
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: iterate leads")
}

// Get implements LeadRepository.
func (s *PostgresStore) Get(ctx context.Context, id string) (*model.Lead, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM leads WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get lead %s", id)
	}

	var l model.Lead
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal lead")
	}
	return &l, nil
}

// Replace implements LeadRepository.
func (s *PostgresStore) Replace(ctx context.Context, lead model.Lead) error {
	data, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal lead")
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET place_id = $1, data = $2, updated_at = $3 WHERE id = $4`,
		nullable(lead.PlaceID), data, time.Now().UTC(), lead.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update lead %s", lead.ID)
	}
	if tag.RowsAffected() == 0 {
		return notFound(lead.ID)
	}
	return nil
}

// Clear implements LeadRepository.
func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM leads`)
	return eris.Wrap(err, "postgres: clear leads")
}
