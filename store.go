package kvstore

import (
	"context"
)

const (
	MinQueryLimit = 1
	MaxQueryLimit = 1000
)

// Record is one row of a key-value table.
type Record struct {
	Key   string `db:"key" bson:"_id"`
	Value string `db:"value" bson:"value"`
}

// Cursor selects an open key interval, a direction and a row cap.
// A nil bound is absent; both bounds are exclusive, "" included.
type Cursor struct {
	StartingAfter *string
	EndingBefore  *string
	Limit         int
	Ascending     bool
}

// Bound returns key as a cursor bound.
func Bound(key string) *string {
	return &key
}

func (c Cursor) validate() error {
	if c.Limit < MinQueryLimit || c.Limit > MaxQueryLimit {
		return &InvalidArgumentError{Name: "limit", Value: c.Limit, Reason: "should be in range 1..1000"}
	}
	return nil
}

// Store executes single statements against one backend. Every method uses
// one pooled connection and releases it before returning.
type Store interface {
	// Insert fails with an error matching ErrKeyAlreadyExists when key exists.
	Insert(ctx context.Context, table, key, value string) error
	InsertOrReplace(ctx context.Context, table, key, value string) error
	InsertOrIgnore(ctx context.Context, table, key, value string) error
	// Update and Delete report the number of affected rows.
	Update(ctx context.Context, table, key, value string) (int64, error)
	Delete(ctx context.Context, table, key string) (int64, error)
	Get(ctx context.Context, table, key string) (Record, bool, error)
	Scan(ctx context.Context, table string) ([]Record, error)
	Range(ctx context.Context, table string, cursor Cursor) ([]Record, error)
	Close() error
}
