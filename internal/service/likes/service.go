// Package likes implements the like toggle and the liked-posts feeds.
package likes

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
	"github.com/heartmarshall/pocamarket-backend/internal/service/activity"
)

type likeRepo interface {
	Create(ctx context.Context, userID, postID uuid.UUID, at time.Time) (bool, error)
	Delete(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	ListByLikedAt(ctx context.Context, userID uuid.UUID, after *pagination.Key, n int) ([]domain.LikedPost, error)
	ListByRecent(ctx context.Context, userID uuid.UUID, after *pagination.Key, n int) ([]domain.LikedPost, error)
	ListByPopular(ctx context.Context, userID uuid.UUID, offset, n int) ([]domain.LikedPost, error)
}

type postRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	AddLikes(ctx context.Context, id uuid.UUID, delta int) (int, error)
}

type activityRecorder interface {
	Record(ctx context.Context, in activity.RecordInput) (*domain.ActivityEntry, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides like operations for the authenticated user.
type Service struct {
	likes    likeRepo
	posts    postRepo
	activity activityRecorder
	tx       txManager
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new likes service.
func NewService(
	log *slog.Logger,
	likes likeRepo,
	posts postRepo,
	activity activityRecorder,
	tx txManager,
) *Service {
	return &Service{
		likes:    likes,
		posts:    posts,
		activity: activity,
		tx:       tx,
		log:      log.With("service", "likes"),
		now:      time.Now,
	}
}
