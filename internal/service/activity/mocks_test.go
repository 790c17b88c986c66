package activity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
)

var (
	_ entryRepo      = &entryRepoMock{}
	_ targetResolver = &targetResolverMock{}
	_ eventPublisher = &eventPublisherMock{}
)

type entryRepoMock struct {
	CreateFunc          func(ctx context.Context, e domain.ActivityEntry) error
	ListAfterFunc       func(ctx context.Context, actorID *uuid.UUID, after *pagination.Key, n int) ([]domain.ActivityEntry, error)
	DeleteOlderThanFunc func(ctx context.Context, cutoff time.Time) (int64, error)

	mu          sync.Mutex
	createCalls []domain.ActivityEntry
	listCalls   []listAfterCall
}

type listAfterCall struct {
	ActorID *uuid.UUID
	After   *pagination.Key
	N       int
}

func (m *entryRepoMock) Create(ctx context.Context, e domain.ActivityEntry) error {
	if m.CreateFunc == nil {
		panic("entryRepoMock.CreateFunc: method is nil but entryRepo.Create was just called")
	}
	m.mu.Lock()
	m.createCalls = append(m.createCalls, e)
	m.mu.Unlock()
	return m.CreateFunc(ctx, e)
}

func (m *entryRepoMock) ListAfter(ctx context.Context, actorID *uuid.UUID, after *pagination.Key, n int) ([]domain.ActivityEntry, error) {
	if m.ListAfterFunc == nil {
		panic("entryRepoMock.ListAfterFunc: method is nil but entryRepo.ListAfter was just called")
	}
	m.mu.Lock()
	m.listCalls = append(m.listCalls, listAfterCall{ActorID: actorID, After: after, N: n})
	m.mu.Unlock()
	return m.ListAfterFunc(ctx, actorID, after, n)
}

func (m *entryRepoMock) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteOlderThanFunc == nil {
		panic("entryRepoMock.DeleteOlderThanFunc: method is nil but entryRepo.DeleteOlderThan was just called")
	}
	return m.DeleteOlderThanFunc(ctx, cutoff)
}

func (m *entryRepoMock) CreateCalls() []domain.ActivityEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

func (m *entryRepoMock) ListAfterCalls() []listAfterCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

type targetResolverMock struct {
	ResolveFunc func(ctx context.Context, entries []domain.ActivityEntry) ([]domain.ResolvedFeedItem, error)
}

func (m *targetResolverMock) Resolve(ctx context.Context, entries []domain.ActivityEntry) ([]domain.ResolvedFeedItem, error) {
	if m.ResolveFunc == nil {
		panic("targetResolverMock.ResolveFunc: method is nil but targetResolver.Resolve was just called")
	}
	return m.ResolveFunc(ctx, entries)
}

type eventPublisherMock struct {
	ActivityRecordedFunc func(ctx context.Context, e domain.ActivityEntry) error

	mu    sync.Mutex
	calls []domain.ActivityEntry
}

func (m *eventPublisherMock) ActivityRecorded(ctx context.Context, e domain.ActivityEntry) error {
	m.mu.Lock()
	m.calls = append(m.calls, e)
	m.mu.Unlock()
	if m.ActivityRecordedFunc == nil {
		return nil
	}
	return m.ActivityRecordedFunc(ctx, e)
}

func (m *eventPublisherMock) ActivityRecordedCalls() []domain.ActivityEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
