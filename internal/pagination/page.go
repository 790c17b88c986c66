package pagination

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidLimit is returned when a page size is not a positive integer.
var ErrInvalidLimit = fmt.Errorf("invalid limit: %w", domain.ErrValidation)

// Request is one page request. A nil Cursor means the start of the feed.
type Request struct {
	Cursor *string
	Limit  int
}

// Limits bounds the page size a client may ask for.
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits are used by ParseRequest.
var DefaultLimits = Limits{Default: DefaultLimit, Max: MaxLimit}

// ParseRequest builds a Request from raw query parameters using
// DefaultLimits.
func ParseRequest(cursor, limit string) (Request, error) {
	return DefaultLimits.Parse(cursor, limit)
}

// Parse builds a Request from raw query parameters. An empty limit means
// l.Default; limits above l.Max are clamped.
func (l Limits) Parse(cursor, limit string) (Request, error) {
	req := Request{Limit: l.Default}

	if c := strings.TrimSpace(cursor); c != "" {
		req.Cursor = &c
	}

	if s := strings.TrimSpace(limit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return Request{}, fmt.Errorf("%w: %q", ErrInvalidLimit, limit)
		}
		req.Limit = min(n, l.Max)
	}

	return req, nil
}

// Page is one bounded slice of a feed. HasMore is true exactly when
// NextCursor is set.
type Page[T any] struct {
	Items      []T
	NextCursor *string
	HasMore    bool
}

// Terminal returns the canonical empty last page.
func Terminal[T any]() Page[T] {
	return Page[T]{Items: []T{}}
}

// Map converts the items of a page, keeping its cursor.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := Page[U]{
		Items:      make([]U, len(p.Items)),
		NextCursor: p.NextCursor,
		HasMore:    p.HasMore,
	}
	for i, item := range p.Items {
		out.Items[i] = fn(item)
	}
	return out
}
