package pagination

import (
	"context"
	"fmt"
)

// Fetcher returns up to n rows strictly after the given position, ordered by
// (sort value DESC, id DESC). A nil position means the start of the feed.
type Fetcher[R any] func(ctx context.Context, after *Key, n int) ([]R, error)

// OffsetFetcher returns up to n rows starting at offset.
type OffsetFetcher[R any] func(ctx context.Context, offset, n int) ([]R, error)

// Enricher turns a page of raw rows into response items. It must return one
// item per row, in order.
type Enricher[R, T any] func(ctx context.Context, rows []R) ([]T, error)

// Identity is the Enricher for feeds whose rows are already response items.
func Identity[R any]() Enricher[R, R] {
	return func(_ context.Context, rows []R) ([]R, error) {
		return rows, nil
	}
}

// Feed is everything a keyset-paginated feed has to provide.
type Feed[R, T any] struct {
	Fetch  Fetcher[R]
	Key    func(R) Key
	Enrich Enricher[R, T]
}

// OffsetFeed is a feed whose order key mutates over time and therefore
// cannot use a key cursor. Items can be skipped or repeated at page
// boundaries when the order changes between requests.
type OffsetFeed[R, T any] struct {
	Fetch  OffsetFetcher[R]
	Enrich Enricher[R, T]
}

// Assemble fetches one page of a keyset feed. It asks the fetcher for
// limit+1 rows; the extra row only signals that more data exists. The next
// cursor is the key of the last returned item, and the following page starts
// strictly after it.
func Assemble[R, T any](ctx context.Context, req Request, f Feed[R, T]) (Page[T], error) {
	if req.Limit <= 0 {
		return Page[T]{}, fmt.Errorf("%w: %d", ErrInvalidLimit, req.Limit)
	}

	var after *Key
	if req.Cursor != nil {
		k, err := DecodeKey(*req.Cursor)
		if err != nil {
			return Page[T]{}, err
		}
		after = &k
	}

	rows, err := f.Fetch(ctx, after, req.Limit+1)
	if err != nil {
		return Page[T]{}, fmt.Errorf("fetch page: %w", err)
	}

	rows, hasMore := trim(rows, req.Limit)
	if len(rows) == 0 {
		return Terminal[T](), nil
	}

	items, err := enrich(ctx, f.Enrich, rows)
	if err != nil {
		return Page[T]{}, err
	}

	page := Page[T]{Items: items}
	if hasMore {
		next := f.Key(rows[len(rows)-1]).Encode()
		page.NextCursor = &next
		page.HasMore = true
	}
	return page, nil
}

// AssembleOffset fetches one page of an offset feed.
func AssembleOffset[R, T any](ctx context.Context, req Request, f OffsetFeed[R, T]) (Page[T], error) {
	if req.Limit <= 0 {
		return Page[T]{}, fmt.Errorf("%w: %d", ErrInvalidLimit, req.Limit)
	}

	offset := 0
	if req.Cursor != nil {
		o, err := DecodeOffset(*req.Cursor)
		if err != nil {
			return Page[T]{}, err
		}
		offset = o
	}

	rows, err := f.Fetch(ctx, offset, req.Limit+1)
	if err != nil {
		return Page[T]{}, fmt.Errorf("fetch page: %w", err)
	}

	rows, hasMore := trim(rows, req.Limit)
	if len(rows) == 0 {
		return Terminal[T](), nil
	}

	items, err := enrich(ctx, f.Enrich, rows)
	if err != nil {
		return Page[T]{}, err
	}

	page := Page[T]{Items: items}
	if hasMore {
		next := EncodeOffset(offset + len(rows))
		page.NextCursor = &next
		page.HasMore = true
	}
	return page, nil
}

// trim drops the look-ahead row.
func trim[R any](rows []R, limit int) ([]R, bool) {
	if len(rows) > limit {
		return rows[:limit], true
	}
	return rows, false
}

func enrich[R, T any](ctx context.Context, fn Enricher[R, T], rows []R) ([]T, error) {
	items, err := fn(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("enrich page: %w", err)
	}
	if len(items) != len(rows) {
		return nil, fmt.Errorf("enrich page: got %d items for %d rows", len(items), len(rows))
	}
	return items, nil
}
