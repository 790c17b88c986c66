// Package readmarker stores per-room read markers in Redis hashes.
package readmarker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
)

const (
	fieldMessageID = "message_id"
	fieldReadAt    = "read_at"
)

// Store keeps one hash per (room, user): pocamarket:readmarker:<room>:<user>.
type Store struct {
	rdb    redis.UniversalClient
	prefix string
}

// New creates a Store. An empty prefix defaults to "pocamarket".
func New(rdb redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "pocamarket"
	}
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) key(roomID, userID uuid.UUID) string {
	return s.prefix + ":readmarker:" + roomID.String() + ":" + userID.String()
}

// Get returns the marker of userID in roomID. A user who never read the room
// gets a zero marker, not an error.
func (s *Store) Get(ctx context.Context, roomID, userID uuid.UUID) (domain.ReadMarker, error) {
	marker := domain.ReadMarker{UserID: userID, RoomID: roomID}

	fields, err := s.rdb.HGetAll(ctx, s.key(roomID, userID)).Result()
	if err != nil {
		return marker, fmt.Errorf("get read marker: %w", err)
	}

	if v, ok := fields[fieldMessageID]; ok {
		id, err := uuid.Parse(v)
		if err != nil {
			return marker, fmt.Errorf("read marker %s: bad message id: %w", s.key(roomID, userID), err)
		}
		marker.LastReadMessageID = &id
	}
	if v, ok := fields[fieldReadAt]; ok {
		at, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return marker, fmt.Errorf("read marker %s: bad timestamp: %w", s.key(roomID, userID), err)
		}
		marker.LastReadAt = &at
	}
	return marker, nil
}

// Put replaces the marker. Fields that are nil in m are cleared; a zero
// marker deletes the key.
func (s *Store) Put(ctx context.Context, m domain.ReadMarker) error {
	key := s.key(m.RoomID, m.UserID)

	values := make(map[string]any, 2)
	if m.LastReadMessageID != nil {
		values[fieldMessageID] = m.LastReadMessageID.String()
	}
	if m.LastReadAt != nil {
		values[fieldReadAt] = m.LastReadAt.UTC().Format(time.RFC3339Nano)
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.HSet(ctx, key, values)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("put read marker: %w", err)
	}
	return nil
}
