package kvstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newMongoCollection(t *testing.T) *Collection[testDoc] {
	t.Helper()

	require.NoError(t, LoadEnv(".env"))
	uri := os.Getenv("KVSTORE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("KVSTORE_TEST_MONGO_URI not set, skipping mongo integration test")
	}

	db, err := ConnectMongo(t.Context(), uri, "kvstore_test_"+uuid.NewString()[:8])
	require.NoError(t, err)

	store := NewMongoStore(db)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = store.Close()
	})

	mappings, err := NewMappingsBuilder().Map(testDocType.Name, "brokerage.docs").Build()
	require.NoError(t, err)

	return For(NewRepository(store, mappings), testDocType)
}

func TestMongoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	coll := newMongoCollection(t)
	seedTen(t, coll)

	err := coll.Insert(t.Context(), "00001", testDoc{A: "dup"})
	require.ErrorIs(t, err, ErrKeyAlreadyExists)

	require.NoError(t, coll.InsertOrIgnore(t.Context(), "00001", testDoc{A: "ignored"}))
	got, err := coll.GetOr(t.Context(), "00001")
	require.NoError(t, err)
	require.Equal(t, "00001", got.A)

	require.NoError(t, coll.InsertOrReplace(t.Context(), "00001", testDoc{A: "replaced"}))
	got, err = coll.GetOr(t.Context(), "00001")
	require.NoError(t, err)
	require.Equal(t, "replaced", got.A)

	require.ErrorIs(t, coll.Update(t.Context(), "missing", testDoc{}), ErrKeyNotFound)
	require.NoError(t, coll.Delete(t.Context(), "missing"))
	require.ErrorIs(t, coll.Delete(t.Context(), "missing", ThrowOnNotFound(true)), ErrKeyNotFound)

	all, err := coll.QueryAll(t.Context())
	require.NoError(t, err)
	require.Len(t, all, 10)

	page, err := coll.Query(t.Context(), Cursor{StartingAfter: Bound("00003"), Limit: 5, Ascending: true})
	require.NoError(t, err)
	require.Equal(t, keyRange(4, 8), docKeys(page))

	page, err = coll.Query(t.Context(), Cursor{EndingBefore: Bound("00008"), Limit: 10})
	require.NoError(t, err)
	require.Equal(t, keyRange(1, 7), docKeys(Reverse(page)))
}
