package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/pkg/ctxutil"
)

// SendInput holds the parameters for sending a message.
type SendInput struct {
	RoomID  uuid.UUID
	Content string
}

// Validate checks all fields and collects all errors.
func (i SendInput) Validate() error {
	var errs []domain.FieldError

	if i.RoomID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "room_id", Message: "required"})
	}
	content := strings.TrimSpace(i.Content)
	if content == "" {
		errs = append(errs, domain.FieldError{Field: "content", Message: "required"})
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		errs = append(errs, domain.FieldError{Field: "content", Message: fmt.Sprintf("max %d characters", MaxContentLength)})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Send stores a message from the caller and announces it.
func (s *Service) Send(ctx context.Context, in SendInput) (*domain.ChatMessage, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	msg, err := s.messages.Create(ctx, domain.ChatMessage{
		ID:        uuid.New(),
		RoomID:    in.RoomID,
		SenderID:  userID,
		Content:   strings.TrimSpace(in.Content),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	if err := s.events.MessageCreated(ctx, *msg); err != nil {
		s.logPublishError(ctx, "message.created", msg, err)
	}
	return msg, nil
}

// MarkDelivered records that a message reached the caller's device and
// announces the update. Only delivery metadata changes.
func (s *Service) MarkDelivered(ctx context.Context, roomID, messageID uuid.UUID) (*domain.ChatMessage, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	msg, err := s.messages.MarkDelivered(ctx, roomID, messageID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("mark delivered: %w", err)
	}

	if err := s.events.MessageUpdated(ctx, *msg); err != nil {
		s.logPublishError(ctx, "message.updated", msg, err)
	}
	return msg, nil
}

func (s *Service) logPublishError(ctx context.Context, event string, m *domain.ChatMessage, err error) {
	s.log.WarnContext(ctx, "publish chat event",
		slog.String("event", event),
		slog.String("room_id", m.RoomID.String()),
		slog.String("message_id", m.ID.String()),
		slog.String("error", err.Error()),
	)
}
