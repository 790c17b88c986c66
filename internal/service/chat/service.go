// Package chat implements chat history, message send and delivery updates,
// and read markers.
package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
)

type messageRepo interface {
	Create(ctx context.Context, m domain.ChatMessage) (*domain.ChatMessage, error)
	MarkDelivered(ctx context.Context, roomID, messageID uuid.UUID, at time.Time) (*domain.ChatMessage, error)
	ListAfter(ctx context.Context, roomID uuid.UUID, after *pagination.Key, n int) ([]domain.ChatMessage, error)
}

type userRepo interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

type markerStore interface {
	Get(ctx context.Context, roomID, userID uuid.UUID) (domain.ReadMarker, error)
	Put(ctx context.Context, m domain.ReadMarker) error
}

type eventPublisher interface {
	MessageCreated(ctx context.Context, m domain.ChatMessage) error
	MessageUpdated(ctx context.Context, m domain.ChatMessage) error
}

// MaxContentLength is the longest message body accepted, in characters.
const MaxContentLength = 2000

// Service provides chat operations.
type Service struct {
	messages messageRepo
	users    userRepo
	markers  markerStore
	events   eventPublisher
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new chat service.
func NewService(
	log *slog.Logger,
	messages messageRepo,
	users userRepo,
	markers markerStore,
	events eventPublisher,
) *Service {
	return &Service{
		messages: messages,
		users:    users,
		markers:  markers,
		events:   events,
		log:      log.With("service", "chat"),
		now:      time.Now,
	}
}
