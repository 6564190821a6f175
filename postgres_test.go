package kvstore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestIsPostgresUniqueViolation(t *testing.T) {
	pgxErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	pqErr := &pq.Error{Code: pq.ErrorCode(pgerrcode.UniqueViolation)}

	require.True(t, isPostgresUniqueViolation(pgxErr))
	require.True(t, isPostgresUniqueViolation(fmt.Errorf("exec: %w", pgxErr)))
	require.True(t, isPostgresUniqueViolation(pqErr))

	require.False(t, isPostgresUniqueViolation(&pgconn.PgError{Code: pgerrcode.NotNullViolation}))
	require.False(t, isPostgresUniqueViolation(&pq.Error{Code: pq.ErrorCode(pgerrcode.UndefinedTable)}))
	require.False(t, isPostgresUniqueViolation(errors.New("connection refused")))
}

func TestSQLStore_WrapErrorKeepsDriverError(t *testing.T) {
	s := &SQLStore{dialect: postgresDialect}
	pgxErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation}

	err := s.wrapError(pgxErr)
	require.ErrorIs(t, err, ErrKeyAlreadyExists)

	var got *pgconn.PgError
	require.True(t, errors.As(err, &got))

	other := errors.New("timeout")
	require.Same(t, other, s.wrapError(other))
	require.NoError(t, s.wrapError(nil))
}

// newPostgresRepository connects to the database described by the
// KVSTORE_TEST_PG_* variables (or a .env file) and skips when none is set.
func newPostgresRepository(t *testing.T, driver string) *Collection[testDoc] {
	t.Helper()

	require.NoError(t, LoadEnv(".env"))
	cfg := PGConfigFromEnv("KVSTORE_TEST_PG_")
	if cfg.Host == "" {
		t.Skip("KVSTORE_TEST_PG_HOST not set, skipping postgres integration test")
	}
	cfg.Driver = driver

	db, err := ConnectPostgresql(cfg)
	require.NoError(t, err)

	store, err := NewSQLStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	table := "public.kvstore_test_docs"
	_, err = db.ExecContext(t.Context(), "DROP TABLE IF EXISTS "+table)
	require.NoError(t, err)
	require.NoError(t, store.CreateTable(t.Context(), table))

	mappings, err := NewMappingsBuilder().Map(testDocType.Name, table).Build()
	require.NoError(t, err)

	return For(NewRepository(store, mappings), testDocType)
}

func TestPostgresIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	for _, driver := range []string{"pgx", "postgres"} {
		t.Run(driver, func(t *testing.T) {
			coll := newPostgresRepository(t, driver)
			seedTen(t, coll)

			err := coll.Insert(t.Context(), "00001", testDoc{A: "dup"})
			require.ErrorIs(t, err, ErrKeyAlreadyExists)

			require.NoError(t, coll.InsertOrReplace(t.Context(), "00001", testDoc{A: "replaced"}))
			require.NoError(t, coll.InsertOrIgnore(t.Context(), "00001", testDoc{A: "ignored"}))
			got, err := coll.GetOr(t.Context(), "00001")
			require.NoError(t, err)
			require.Equal(t, "replaced", got.A)

			require.ErrorIs(t, coll.Update(t.Context(), "missing", testDoc{}), ErrKeyNotFound)
			require.NoError(t, coll.Delete(t.Context(), "missing"))

			page, err := coll.Query(t.Context(), Cursor{StartingAfter: Bound("00003"), EndingBefore: Bound("00008"), Limit: 5, Ascending: true})
			require.NoError(t, err)
			require.Len(t, page, 4)

			page, err = coll.Query(t.Context(), Cursor{Limit: 5})
			require.NoError(t, err)
			require.Equal(t, keyRange(6, 10), docKeys(Reverse(page)))
		})
	}
}
