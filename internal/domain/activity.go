package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityEntry is one row of the activity feed. It is written by the
// originating domain action and never mutated afterwards.
type ActivityEntry struct {
	ID         uuid.UUID
	ActorID    uuid.UUID
	Action     ActivityAction
	TargetType TargetType
	TargetID   uuid.UUID
	CreatedAt  time.Time
}

// TargetSnapshot is a read-only copy of the display fields of an activity
// target, taken at request time.
type TargetSnapshot struct {
	Type    TargetType
	ID      uuid.UUID
	Title   string
	Excerpt string
	Href    string
}

// ResolvedFeedItem is an ActivityEntry joined with its target. Target and
// TargetHref are nil when the target no longer exists.
type ResolvedFeedItem struct {
	ActivityEntry
	Target     *TargetSnapshot
	TargetHref *string
}
