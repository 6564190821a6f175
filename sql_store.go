package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type dialect struct {
	name            string
	uniqueViolation func(err error) bool
}

// SQLStore runs the key-value statements through a sqlx connection pool.
type SQLStore struct {
	db      *sqlx.DB
	dialect dialect
}

// NewSQLStore picks the dialect from the driver the pool was opened with.
func NewSQLStore(db *sqlx.DB) (*SQLStore, error) {
	var d dialect
	switch db.DriverName() {
	case "pgx", "postgres":
		d = postgresDialect
	case "sqlite", "sqlite3":
		d = sqliteDialect
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", db.DriverName())
	}

	return &SQLStore{db: db, dialect: d}, nil
}

func (s *SQLStore) Dialect() string {
	return s.dialect.name
}

func (s *SQLStore) DB() *sqlx.DB {
	return s.db
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// CreateTable creates the two-column table when it does not exist yet.
func (s *SQLStore) CreateTable(ctx context.Context, table string) error {
	_, err := s.db.ExecContext(ctx, createTableSQL(table))
	return err
}

func (s *SQLStore) Insert(ctx context.Context, table, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(insertSQL(table)), key, value)
	return s.wrapError(err)
}

func (s *SQLStore) InsertOrReplace(ctx context.Context, table, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(insertOrReplaceSQL(table)), key, value)
	return s.wrapError(err)
}

func (s *SQLStore) InsertOrIgnore(ctx context.Context, table, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(insertOrIgnoreSQL(table)), key, value)
	return s.wrapError(err)
}

func (s *SQLStore) Update(ctx context.Context, table, key, value string) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(updateSQL(table)), value, key)
	if err != nil {
		return 0, s.wrapError(err)
	}
	return res.RowsAffected()
}

func (s *SQLStore) Delete(ctx context.Context, table, key string) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(deleteSQL(table)), key)
	if err != nil {
		return 0, s.wrapError(err)
	}
	return res.RowsAffected()
}

func (s *SQLStore) Get(ctx context.Context, table, key string) (Record, bool, error) {
	var rec Record
	err := s.db.GetContext(ctx, &rec, s.db.Rebind(getSQL(table)), key)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, err
	}
	return rec, true, nil
}

func (s *SQLStore) Scan(ctx context.Context, table string) ([]Record, error) {
	var recs []Record
	if err := s.db.SelectContext(ctx, &recs, scanSQL(table)); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *SQLStore) Range(ctx context.Context, table string, cursor Cursor) ([]Record, error) {
	if err := cursor.validate(); err != nil {
		return nil, err
	}

	qry, args := rangeSQL(table, cursor)

	var recs []Record
	if err := s.db.SelectContext(ctx, &recs, s.db.Rebind(qry), args...); err != nil {
		return nil, err
	}
	return recs, nil
}

// wrapError marks uniqueness violations with ErrKeyAlreadyExists and keeps
// every other error as the driver reported it.
func (s *SQLStore) wrapError(err error) error {
	if err == nil {
		return nil
	}

	if s.dialect.uniqueViolation(err) {
		return fmt.Errorf("%w: %w", ErrKeyAlreadyExists, err)
	}

	return err
}
