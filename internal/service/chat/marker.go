package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/pkg/ctxutil"
)

// ReadMarker returns how far the caller has read in a room. A room never
// read returns a zero marker.
func (s *Service) ReadMarker(ctx context.Context, roomID uuid.UUID) (domain.ReadMarker, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ReadMarker{}, domain.ErrUnauthorized
	}

	m, err := s.markers.Get(ctx, roomID, userID)
	if err != nil {
		return domain.ReadMarker{}, fmt.Errorf("get read marker: %w", err)
	}
	return m, nil
}

// MarkerInput moves the caller's read marker. At least one field is set.
type MarkerInput struct {
	RoomID        uuid.UUID
	LastMessageID *uuid.UUID
	LastReadAt    *time.Time
}

// PutReadMarker replaces the caller's read marker for a room.
func (s *Service) PutReadMarker(ctx context.Context, in MarkerInput) (domain.ReadMarker, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ReadMarker{}, domain.ErrUnauthorized
	}
	if in.RoomID == uuid.Nil {
		return domain.ReadMarker{}, domain.NewValidationError("room_id", "required")
	}

	m := domain.ReadMarker{
		UserID:            userID,
		RoomID:            in.RoomID,
		LastReadMessageID: in.LastMessageID,
	}
	if in.LastReadAt != nil {
		at := in.LastReadAt.UTC()
		m.LastReadAt = &at
	}
	if m.IsZero() {
		return domain.ReadMarker{}, domain.NewValidationError("marker", "lastReadMessageId or lastReadAt required")
	}

	if err := s.markers.Put(ctx, m); err != nil {
		return domain.ReadMarker{}, fmt.Errorf("put read marker: %w", err)
	}
	return m, nil
}
