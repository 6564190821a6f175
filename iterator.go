package kvstore

import (
	"context"
	"errors"
)

// ErrIteratorDone is returned by Next once every entry has been read.
var ErrIteratorDone = errors.New("no more entries in iterator")

type RowIterator[T any] interface {
	Next() (*Entry[T], error)
	Close() error
}

// EntryIterator walks a whole table page by page, using the last key of
// each page as the exclusive bound of the next one. The first page is
// unbounded, so a stored empty key is still visited.
type EntryIterator[T any] struct {
	ctx       context.Context
	coll      *Collection[T]
	pageSize  int
	ascending bool

	page   []Entry[T]
	pos    int
	last   *string
	done   bool
	closed bool
}

// Iterator pages through the whole table pageSize rows at a time. pageSize
// follows the query limit range.
func (c *Collection[T]) Iterator(ctx context.Context, pageSize int, ascending bool) (*EntryIterator[T], error) {
	if err := (Cursor{Limit: pageSize}).validate(); err != nil {
		return nil, err
	}

	return &EntryIterator[T]{
		ctx:       ctx,
		coll:      c,
		pageSize:  pageSize,
		ascending: ascending,
	}, nil
}

func (it *EntryIterator[T]) Next() (*Entry[T], error) {
	if it.closed {
		return nil, ErrIteratorDone
	}

	if it.pos >= len(it.page) {
		if it.done {
			return nil, ErrIteratorDone
		}
		if err := it.fetch(); err != nil {
			return nil, err
		}
		if len(it.page) == 0 {
			return nil, ErrIteratorDone
		}
	}

	e := it.page[it.pos]
	it.pos++
	return &e, nil
}

func (it *EntryIterator[T]) fetch() error {
	cursor := Cursor{Limit: it.pageSize, Ascending: it.ascending}
	if it.ascending {
		cursor.StartingAfter = it.last
	} else {
		cursor.EndingBefore = it.last
	}

	page, err := it.coll.QueryEntries(it.ctx, cursor)
	if err != nil {
		return err
	}

	it.page = page
	it.pos = 0
	if len(page) < it.pageSize {
		it.done = true
	}
	if len(page) > 0 {
		it.last = Bound(page[len(page)-1].Key)
	}
	return nil
}

func (it *EntryIterator[T]) Close() error {
	it.closed = true
	it.page = nil
	return nil
}
