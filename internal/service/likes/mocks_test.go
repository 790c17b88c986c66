package likes

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
	"github.com/heartmarshall/pocamarket-backend/internal/service/activity"
)

var (
	_ likeRepo         = &likeRepoMock{}
	_ postRepo         = &postRepoMock{}
	_ activityRecorder = &activityRecorderMock{}
	_ txManager        = &txManagerMock{}
)

type likeRepoMock struct {
	CreateFunc        func(ctx context.Context, userID, postID uuid.UUID, at time.Time) (bool, error)
	DeleteFunc        func(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	ListByLikedAtFunc func(ctx context.Context, userID uuid.UUID, after *pagination.Key, n int) ([]domain.LikedPost, error)
	ListByRecentFunc  func(ctx context.Context, userID uuid.UUID, after *pagination.Key, n int) ([]domain.LikedPost, error)
	ListByPopularFunc func(ctx context.Context, userID uuid.UUID, offset, n int) ([]domain.LikedPost, error)
}

func (m *likeRepoMock) Create(ctx context.Context, userID, postID uuid.UUID, at time.Time) (bool, error) {
	if m.CreateFunc == nil {
		panic("likeRepoMock.CreateFunc: method is nil but likeRepo.Create was just called")
	}
	return m.CreateFunc(ctx, userID, postID, at)
}

func (m *likeRepoMock) Delete(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	if m.DeleteFunc == nil {
		panic("likeRepoMock.DeleteFunc: method is nil but likeRepo.Delete was just called")
	}
	return m.DeleteFunc(ctx, userID, postID)
}

func (m *likeRepoMock) ListByLikedAt(ctx context.Context, userID uuid.UUID, after *pagination.Key, n int) ([]domain.LikedPost, error) {
	if m.ListByLikedAtFunc == nil {
		panic("likeRepoMock.ListByLikedAtFunc: method is nil but likeRepo.ListByLikedAt was just called")
	}
	return m.ListByLikedAtFunc(ctx, userID, after, n)
}

func (m *likeRepoMock) ListByRecent(ctx context.Context, userID uuid.UUID, after *pagination.Key, n int) ([]domain.LikedPost, error) {
	if m.ListByRecentFunc == nil {
		panic("likeRepoMock.ListByRecentFunc: method is nil but likeRepo.ListByRecent was just called")
	}
	return m.ListByRecentFunc(ctx, userID, after, n)
}

func (m *likeRepoMock) ListByPopular(ctx context.Context, userID uuid.UUID, offset, n int) ([]domain.LikedPost, error) {
	if m.ListByPopularFunc == nil {
		panic("likeRepoMock.ListByPopularFunc: method is nil but likeRepo.ListByPopular was just called")
	}
	return m.ListByPopularFunc(ctx, userID, offset, n)
}

type postRepoMock struct {
	GetByIDFunc  func(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	AddLikesFunc func(ctx context.Context, id uuid.UUID, delta int) (int, error)

	mu         sync.Mutex
	deltaCalls []int
}

func (m *postRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	if m.GetByIDFunc == nil {
		panic("postRepoMock.GetByIDFunc: method is nil but postRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *postRepoMock) AddLikes(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	if m.AddLikesFunc == nil {
		panic("postRepoMock.AddLikesFunc: method is nil but postRepo.AddLikes was just called")
	}
	m.mu.Lock()
	m.deltaCalls = append(m.deltaCalls, delta)
	m.mu.Unlock()
	return m.AddLikesFunc(ctx, id, delta)
}

func (m *postRepoMock) AddLikesCalls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deltaCalls
}

type activityRecorderMock struct {
	RecordFunc func(ctx context.Context, in activity.RecordInput) (*domain.ActivityEntry, error)

	mu    sync.Mutex
	calls []activity.RecordInput
}

func (m *activityRecorderMock) Record(ctx context.Context, in activity.RecordInput) (*domain.ActivityEntry, error) {
	m.mu.Lock()
	m.calls = append(m.calls, in)
	m.mu.Unlock()
	if m.RecordFunc == nil {
		return &domain.ActivityEntry{ID: uuid.New()}, nil
	}
	return m.RecordFunc(ctx, in)
}

func (m *activityRecorderMock) RecordCalls() []activity.RecordInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc == nil {
		return fn(ctx)
	}
	return m.RunInTxFunc(ctx, fn)
}
