package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func leadJSON(t *testing.T, l model.Lead) []byte {
	t.Helper()
	b, err := json.Marshal(l)
	require.NoError(t, err)
	return b
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS leads`).WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Add(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO leads .* ON CONFLICT DO NOTHING`).
		WithArgs("lead-1", "p1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO leads .* ON CONFLICT DO NOTHING`).
		WithArgs("lead-2", "p1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectExec(`INSERT INTO leads .* ON CONFLICT DO NOTHING`).
		WithArgs(pgxmock.AnyArg(), nil, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	n, err := s.Add(context.Background(),
		model.Lead{ID: "lead-1", PlaceID: "p1"},
		model.Lead{ID: "lead-2", PlaceID: "p1"},
		model.Lead{CompanyName: "Manual"},
	)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AddRollsBackOnError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO leads`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := s.Add(context.Background(), model.Lead{ID: "lead-1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: insert lead lead-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_List(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT data FROM leads ORDER BY seq`).
		WillReturnRows(pgxmock.NewRows([]string{"data"}).
			AddRow(leadJSON(t, model.Lead{ID: "a", CompanyName: "Alpha"})).
			AddRow(leadJSON(t, model.Lead{ID: "b", CompanyName: "Bravo"})))

	leads, err := s.List(context.Background())

	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "Alpha", leads[0].CompanyName)
	assert.Equal(t, "b", leads[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT data FROM leads WHERE id = \$1`).
		WithArgs("lead-1").
		WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(leadJSON(t, model.Lead{ID: "lead-1", OwnerName: "Jane Doe"})))

	got, err := s.Get(context.Background(), "lead-1")

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.OwnerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT data FROM leads WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Replace(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE leads SET place_id = \$1, data = \$2, updated_at = \$3 WHERE id = \$4`).
		WithArgs("p1", pgxmock.AnyArg(), pgxmock.AnyArg(), "lead-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE leads`).
		WithArgs(nil, pgxmock.AnyArg(), pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, s.Replace(context.Background(), model.Lead{ID: "lead-1", PlaceID: "p1"}))
	assert.ErrorIs(t, s.Replace(context.Background(), model.Lead{ID: "missing"}), model.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Clear(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM leads`).WillReturnResult(pgxmock.NewResult("DELETE", 3))

	require.NoError(t, s.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, s.Close())
}
