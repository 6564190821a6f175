package kvstore

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

var postgresDialect = dialect{
	name:            "postgres",
	uniqueViolation: isPostgresUniqueViolation,
}

// isPostgresUniqueViolation recognises unique violations from both the pgx
// and the lib/pq driver.
func isPostgresUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgerrcode.UniqueViolation
	}

	return false
}
