/*
Package kvstore stores typed documents in two-column key-value tables.

Every document type is mapped to one table with a text key column (the
primary key) and a text value column holding the encoded document:

	CREATE TABLE brokerage.docs (key TEXT PRIMARY KEY, value TEXT NOT NULL)

Mappings are built once and never change afterwards:

	docs := kvstore.NewDocumentType[Doc]("doc")
	mappings, err := kvstore.NewMappingsBuilder().
	    Map(docs.Name, "brokerage.docs").
	    Build()

	repo := kvstore.NewRepository(store, mappings)
	coll := kvstore.For(repo, docs)
	err = coll.Insert(ctx, "00001", Doc{A: "x"})

Range queries page over keys with exclusive bounds. A descending page holds
the largest keys first; use Reverse to present it in key order:

	page, err := coll.Query(ctx, kvstore.Cursor{EndingBefore: kvstore.Bound("00008"), Limit: 5})
	page = kvstore.Reverse(page)

Update fails on a missing key by default while Delete does not; both accept
ThrowOnNotFound to change that.
*/
package kvstore
