// Package store persists the leads the HTTP server has discovered or
// enriched. The pipeline packages never touch it.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-cli/internal/config"
	"github.com/sells-group/lead-cli/internal/model"
)

// LeadRepository holds leads in insertion order. Implementations are safe
// for concurrent use.
type LeadRepository interface {
	// Add stores leads, assigning IDs where missing and skipping any whose
	// ID or non-empty place ID is already stored. It returns how many were
	// stored.
	Add(ctx context.Context, leads ...model.Lead) (int, error)
	List(ctx context.Context) ([]model.Lead, error)
	// Get returns an error wrapping model.ErrNotFound for an unknown ID.
	Get(ctx context.Context, id string) (*model.Lead, error)
	// Replace overwrites the stored lead with the same ID.
	Replace(ctx context.Context, lead model.Lead) error
	Clear(ctx context.Context) error
	Close() error
}

// Open creates the repository selected by cfg.Driver and applies its schema.
func Open(ctx context.Context, cfg config.StoreConfig) (LeadRepository, error) {
	switch cfg.Driver {
	case "", config.StoreMemory:
		return NewMemory(), nil

	case config.StoreSQLite:
		s, err := NewSQLite(cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close() //nolint:errcheck
			return nil, err
		}
		return s, nil

	case config.StorePostgres:
		s, err := NewPostgres(ctx, cfg.DSN, &PoolConfig{MaxConns: cfg.MaxConns, MinConns: cfg.MinConns})
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close() //nolint:errcheck
			return nil, err
		}
		return s, nil
	}
	return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
}

func notFound(id string) error {
	return eris.Wrapf(model.ErrNotFound, "store: lead %s", id)
}

// prepare assigns missing IDs in place.
func prepare(leads []model.Lead) {
	for i := range leads {
		leads[i].EnsureID()
	}
}

// nullable maps an empty place ID to SQL NULL so the unique constraint
// only covers real identifiers.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
