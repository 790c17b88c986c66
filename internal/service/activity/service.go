// Package activity records domain actions and serves the activity feed.
package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
)

type entryRepo interface {
	Create(ctx context.Context, e domain.ActivityEntry) error
	ListAfter(ctx context.Context, actorID *uuid.UUID, after *pagination.Key, n int) ([]domain.ActivityEntry, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type targetResolver interface {
	Resolve(ctx context.Context, entries []domain.ActivityEntry) ([]domain.ResolvedFeedItem, error)
}

type eventPublisher interface {
	ActivityRecorded(ctx context.Context, e domain.ActivityEntry) error
}

// Service provides activity recording and the resolved activity feed.
type Service struct {
	entries  entryRepo
	resolver targetResolver
	events   eventPublisher
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new activity service.
func NewService(
	log *slog.Logger,
	entries entryRepo,
	resolver targetResolver,
	events eventPublisher,
) *Service {
	return &Service{
		entries:  entries,
		resolver: resolver,
		events:   events,
		log:      log.With("service", "activity"),
		now:      time.Now,
	}
}
