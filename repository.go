package kvstore

import (
	"context"
	"errors"
	"log/slog"
)

// Repository resolves document types to tables and runs the key-value
// operations against a Store. It holds no mutable state.
type Repository struct {
	store    Store
	mappings Mappings
	logger   *slog.Logger
}

// NewRepository returns a Repository over store. Without WithLogger it logs
// nowhere.
func NewRepository(store Store, mappings Mappings, options ...RepositoryOption) *Repository {
	opt := &option{}
	for _, op := range options {
		op(opt)
	}

	logger := opt.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Repository{
		store:    store,
		mappings: mappings,
		logger:   logger,
	}
}

// Mappings returns the registry the repository resolves tables with.
func (r *Repository) Mappings() Mappings {
	return r.mappings
}

// Collection is the typed view of a Repository for one document type.
type Collection[T any] struct {
	repo *Repository
	doc  DocumentType[T]
}

// Entry is a decoded row together with its key.
type Entry[T any] struct {
	Key   string
	Value T
}

// For returns the typed collection for doc. A nil codec defaults to JSON.
// The table is resolved on every call, so an unmapped type fails at the first
// operation with a ConfigurationError.
func For[T any](repo *Repository, doc DocumentType[T]) *Collection[T] {
	if doc.Codec == nil {
		doc.Codec = JSONCodec[T]{}
	}
	return &Collection[T]{repo: repo, doc: doc}
}

func (c *Collection[T]) tableName() (string, error) {
	return c.repo.mappings.TableName(c.doc.Name)
}

func (c *Collection[T]) log(ctx context.Context, op, table, key string, attrs ...any) {
	c.repo.logger.DebugContext(ctx, "kvstore "+op,
		append([]any{"op", op, "type", c.doc.Name, "table", table, "key", key}, attrs...)...)
}

func (c *Collection[T]) Insert(ctx context.Context, key string, value T) error {
	table, err := c.tableName()
	if err != nil {
		return err
	}

	data, err := c.doc.Codec.Marshal(value)
	if err != nil {
		return err
	}

	c.log(ctx, "insert", table, key)
	err = c.repo.store.Insert(ctx, table, key, data)
	if errors.Is(err, ErrKeyAlreadyExists) {
		return &DuplicateKeyError{DocumentType: c.doc.Name, Table: table, Key: key, Err: err}
	}
	return err
}

func (c *Collection[T]) InsertOrReplace(ctx context.Context, key string, value T) error {
	table, err := c.tableName()
	if err != nil {
		return err
	}

	data, err := c.doc.Codec.Marshal(value)
	if err != nil {
		return err
	}

	c.log(ctx, "insert_or_replace", table, key)
	return c.repo.store.InsertOrReplace(ctx, table, key, data)
}

func (c *Collection[T]) InsertOrIgnore(ctx context.Context, key string, value T) error {
	table, err := c.tableName()
	if err != nil {
		return err
	}

	data, err := c.doc.Codec.Marshal(value)
	if err != nil {
		return err
	}

	c.log(ctx, "insert_or_ignore", table, key)
	return c.repo.store.InsertOrIgnore(ctx, table, key, data)
}

// Update overwrites the value of an existing key. It fails with
// UpdateNotFoundError when the key is absent unless ThrowOnNotFound(false)
// is given.
func (c *Collection[T]) Update(ctx context.Context, key string, value T, options ...MutationOption) error {
	opt := applyMutationOptions(true, options)

	table, err := c.tableName()
	if err != nil {
		return err
	}

	data, err := c.doc.Codec.Marshal(value)
	if err != nil {
		return err
	}

	c.log(ctx, "update", table, key)
	n, err := c.repo.store.Update(ctx, table, key, data)
	if err != nil {
		return err
	}

	if n != 1 && opt.throwOnNotFound {
		return c.notFound(table, key, "Record with specified key was not found to update")
	}
	return nil
}

// Delete removes key. A missing key is not an error unless
// ThrowOnNotFound(true) is given.
func (c *Collection[T]) Delete(ctx context.Context, key string, options ...MutationOption) error {
	opt := applyMutationOptions(false, options)

	table, err := c.tableName()
	if err != nil {
		return err
	}

	c.log(ctx, "delete", table, key)
	n, err := c.repo.store.Delete(ctx, table, key)
	if err != nil {
		return err
	}

	if n != 1 && opt.throwOnNotFound {
		return c.notFound(table, key, "Record with specified key was not found to delete")
	}
	return nil
}

// GetOrDefault returns nil when no row has key.
func (c *Collection[T]) GetOrDefault(ctx context.Context, key string) (*T, error) {
	table, err := c.tableName()
	if err != nil {
		return nil, err
	}

	c.log(ctx, "get", table, key)
	rec, found, err := c.repo.store.Get(ctx, table, key)
	if err != nil || !found {
		return nil, err
	}

	value, err := c.doc.Codec.Unmarshal(rec.Value)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (c *Collection[T]) GetOr(ctx context.Context, key string) (T, error) {
	var zero T

	value, err := c.GetOrDefault(ctx, key)
	if err != nil {
		return zero, err
	}

	if value == nil {
		table, err := c.tableName()
		if err != nil {
			return zero, err
		}
		return zero, c.notFound(table, key, "Record with specified key was not found")
	}

	return *value, nil
}

// QueryAll returns every document of the table in no particular order.
func (c *Collection[T]) QueryAll(ctx context.Context) ([]T, error) {
	table, err := c.tableName()
	if err != nil {
		return nil, err
	}

	c.log(ctx, "query_all", table, "")
	recs, err := c.repo.store.Scan(ctx, table)
	if err != nil {
		return nil, err
	}

	return decodeValues(recs, c.doc.Codec)
}

// Query returns up to cursor.Limit documents with keys strictly between
// the cursor bounds, ordered by key in the cursor direction. Descending
// pages are returned largest key first.
func (c *Collection[T]) Query(ctx context.Context, cursor Cursor) ([]T, error) {
	recs, err := c.rangeRecords(ctx, cursor)
	if err != nil {
		return nil, err
	}

	return decodeValues(recs, c.doc.Codec)
}

// QueryEntries is Query keeping the key of every document, so the last key
// can seed the next cursor.
func (c *Collection[T]) QueryEntries(ctx context.Context, cursor Cursor) ([]Entry[T], error) {
	recs, err := c.rangeRecords(ctx, cursor)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry[T], 0, len(recs))
	for _, rec := range recs {
		value, err := c.doc.Codec.Unmarshal(rec.Value)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry[T]{Key: rec.Key, Value: value})
	}
	return entries, nil
}

func (c *Collection[T]) rangeRecords(ctx context.Context, cursor Cursor) ([]Record, error) {
	if err := cursor.validate(); err != nil {
		return nil, err
	}

	table, err := c.tableName()
	if err != nil {
		return nil, err
	}

	c.log(ctx, "query", table, "",
		"starting_after", boundAttr(cursor.StartingAfter),
		"ending_before", boundAttr(cursor.EndingBefore),
		"limit", cursor.Limit,
		"ascending", cursor.Ascending)

	return c.repo.store.Range(ctx, table, cursor)
}

// boundAttr logs an absent bound as null rather than a pointer address.
func boundAttr(b *string) any {
	if b == nil {
		return nil
	}
	return *b
}

func (c *Collection[T]) notFound(table, key, msg string) error {
	return &UpdateNotFoundError{DocumentType: c.doc.Name, Table: table, Key: key, Message: msg}
}

func decodeValues[T any](recs []Record, codec Codec[T]) ([]T, error) {
	values := make([]T, 0, len(recs))
	for _, rec := range recs {
		value, err := codec.Unmarshal(rec.Value)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}
