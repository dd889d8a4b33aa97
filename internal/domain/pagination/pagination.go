package pagination

import (
	"errors"
	"strconv"
)

const (
	ListPageSize = 20
	PageSize     = 10
	// SearchPagesLimit bounds how far the aggregated search walks.
	SearchPagesLimit = 20
)

var ErrInvalidCursor = errors.New("nextResult must be a non-negative integer")

// Page is one window over an ordered collection. Next is nil on the last page.
type Page[T any] struct {
	Items []T  `json:"items"`
	Next  *int `json:"nextResult"`
}

// ParseCursor reads a cursor value from a query string. Empty means the start.
func ParseCursor(raw string) (int, error) {
	if raw == "" || raw == "null" {
		return 0, nil
	}
	cursor, err := strconv.Atoi(raw)
	if err != nil || cursor < 0 {
		return 0, ErrInvalidCursor
	}
	return cursor, nil
}

// Next returns the cursor of the following page or nil when cursor+size
// reaches the end of a collection of length total.
func Next(cursor, size, total int) *int {
	if cursor+size < total {
		next := cursor + size
		return &next
	}
	return nil
}

// Trim is used for collections whose length is unknown: the caller fetches
// size+1 rows at offset cursor, and Trim drops the extra row.
func Trim[T any](rows []T, cursor, size int) Page[T] {
	if len(rows) > size {
		next := cursor + size
		return Page[T]{Items: rows[:size], Next: &next}
	}
	return Page[T]{Items: rows}
}

// Slice pages an in-memory collection.
func Slice[T any](items []T, cursor, size int) Page[T] {
	if cursor >= len(items) {
		return Page[T]{Items: []T{}}
	}
	end := min(cursor+size, len(items))
	return Page[T]{Items: items[cursor:end], Next: Next(cursor, size, len(items))}
}

// Window returns the bounds Slice would use, for callers that resolve the
// page items themselves.
func Window(cursor, size, total int) (start, end int) {
	if cursor >= total {
		return total, total
	}
	return cursor, min(cursor+size, total)
}
