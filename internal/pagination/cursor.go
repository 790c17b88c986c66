// Package pagination implements the cursor contract shared by every list
// endpoint: opaque cursors, the Page shape and the assembler that turns a
// row source into a page using the fetch-one-extra policy.
package pagination

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
)

// ErrInvalidCursor is returned for a cursor that cannot be decoded. It wraps
// domain.ErrValidation so transports answer 4xx.
var ErrInvalidCursor = fmt.Errorf("invalid cursor: %w", domain.ErrValidation)

const (
	keyPrefix    = "k"
	offsetPrefix = "o"
	sep          = "|"
)

var cursorEncoding = base64.RawURLEncoding

// Key is a position in a feed ordered by (SortValue DESC, ID DESC). It names
// a row by primary key, so inserts and deletes of other rows never shift it.
// The row itself does not have to exist anymore.
type Key struct {
	SortValue time.Time
	ID        uuid.UUID
}

// KeyOf builds a Key.
func KeyOf(sortValue time.Time, id uuid.UUID) Key {
	return Key{SortValue: sortValue, ID: id}
}

// Compare orders keys by (SortValue, ID) ascending. A row comes strictly
// after cursor c in a feed when Compare(row, c) < 0.
func Compare(a, b Key) int {
	switch {
	case a.SortValue.Before(b.SortValue):
		return -1
	case a.SortValue.After(b.SortValue):
		return 1
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}

// Encode returns the opaque cursor string for the key.
// Format: base64url("k|" + RFC3339Nano(sort_value) + "|" + id).
func (k Key) Encode() string {
	raw := keyPrefix + sep + k.SortValue.UTC().Format(time.RFC3339Nano) + sep + k.ID.String()
	return cursorEncoding.EncodeToString([]byte(raw))
}

// DecodeKey parses a cursor produced by Key.Encode.
func DecodeKey(cursor string) (Key, error) {
	parts, err := decodeParts(cursor, keyPrefix, 3)
	if err != nil {
		return Key{}, err
	}

	ts, err := time.Parse(time.RFC3339Nano, parts[1])
	if err != nil {
		return Key{}, fmt.Errorf("%w: bad sort value", ErrInvalidCursor)
	}
	id, err := uuid.Parse(parts[2])
	if err != nil {
		return Key{}, fmt.Errorf("%w: bad id", ErrInvalidCursor)
	}

	return Key{SortValue: ts, ID: id}, nil
}

// EncodeOffset returns the cursor for an offset-paginated feed.
func EncodeOffset(offset int) string {
	raw := offsetPrefix + sep + strconv.Itoa(offset)
	return cursorEncoding.EncodeToString([]byte(raw))
}

// DecodeOffset parses a cursor produced by EncodeOffset.
func DecodeOffset(cursor string) (int, error) {
	parts, err := decodeParts(cursor, offsetPrefix, 2)
	if err != nil {
		return 0, err
	}

	offset, err := strconv.Atoi(parts[1])
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("%w: bad offset", ErrInvalidCursor)
	}
	return offset, nil
}

func decodeParts(cursor, prefix string, n int) ([]string, error) {
	if cursor == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidCursor)
	}

	data, err := cursorEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: not base64", ErrInvalidCursor)
	}

	parts := strings.Split(string(data), sep)
	if len(parts) != n || parts[0] != prefix {
		return nil, fmt.Errorf("%w: unexpected format", ErrInvalidCursor)
	}
	return parts, nil
}

// IsInvalidCursor reports whether err was caused by a bad cursor.
func IsInvalidCursor(err error) bool {
	return errors.Is(err, ErrInvalidCursor)
}
