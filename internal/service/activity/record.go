package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
)

// RecordInput describes one domain action to append to the feed.
type RecordInput struct {
	ActorID  uuid.UUID
	Action   domain.ActivityAction
	TargetID uuid.UUID
	// At defaults to the current time.
	At time.Time
}

// Validate checks all fields and collects all errors.
func (i RecordInput) Validate() error {
	var errs []domain.FieldError

	if i.ActorID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "actor_id", Message: "required"})
	}
	if !i.Action.IsValid() {
		errs = append(errs, domain.FieldError{Field: "action", Message: "unknown action"})
	}
	if i.TargetID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "target_id", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Record appends an activity entry and announces it. A failed announcement
// is logged; the entry stays recorded.
func (s *Service) Record(ctx context.Context, in RecordInput) (*domain.ActivityEntry, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	at := in.At
	if at.IsZero() {
		at = s.now()
	}

	entry := domain.ActivityEntry{
		ID:         uuid.New(),
		ActorID:    in.ActorID,
		Action:     in.Action,
		TargetType: in.Action.TargetType(),
		TargetID:   in.TargetID,
		CreatedAt:  at.UTC(),
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create activity entry: %w", err)
	}

	if err := s.events.ActivityRecorded(ctx, entry); err != nil {
		s.log.WarnContext(ctx, "publish activity event",
			slog.String("entry_id", entry.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	return &entry, nil
}
