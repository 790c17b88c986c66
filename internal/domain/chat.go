package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is a persisted chat message. Only the delivery metadata
// changes after creation.
type ChatMessage struct {
	ID          uuid.UUID
	RoomID      uuid.UUID
	SenderID    uuid.UUID
	Content     string
	CreatedAt   time.Time
	DeliveredAt *time.Time
	UpdatedAt   time.Time
}

// ReadMarker is how far a user has read in a room. LastReadMessageID takes
// precedence over LastReadAt when both are set.
type ReadMarker struct {
	UserID            uuid.UUID
	RoomID            uuid.UUID
	LastReadMessageID *uuid.UUID
	LastReadAt        *time.Time
}

// IsZero reports whether neither marker is set.
func (m ReadMarker) IsZero() bool {
	return m.LastReadMessageID == nil && m.LastReadAt == nil
}
