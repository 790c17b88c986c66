package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
)

var (
	_ messageRepo    = &messageRepoMock{}
	_ userRepo       = &userRepoMock{}
	_ markerStore    = &markerStoreMock{}
	_ eventPublisher = &eventPublisherMock{}
)

type messageRepoMock struct {
	CreateFunc        func(ctx context.Context, m domain.ChatMessage) (*domain.ChatMessage, error)
	MarkDeliveredFunc func(ctx context.Context, roomID, messageID uuid.UUID, at time.Time) (*domain.ChatMessage, error)
	ListAfterFunc     func(ctx context.Context, roomID uuid.UUID, after *pagination.Key, n int) ([]domain.ChatMessage, error)
}

func (m *messageRepoMock) Create(ctx context.Context, msg domain.ChatMessage) (*domain.ChatMessage, error) {
	if m.CreateFunc == nil {
		panic("messageRepoMock.CreateFunc: method is nil but messageRepo.Create was just called")
	}
	return m.CreateFunc(ctx, msg)
}

func (m *messageRepoMock) MarkDelivered(ctx context.Context, roomID, messageID uuid.UUID, at time.Time) (*domain.ChatMessage, error) {
	if m.MarkDeliveredFunc == nil {
		panic("messageRepoMock.MarkDeliveredFunc: method is nil but messageRepo.MarkDelivered was just called")
	}
	return m.MarkDeliveredFunc(ctx, roomID, messageID, at)
}

func (m *messageRepoMock) ListAfter(ctx context.Context, roomID uuid.UUID, after *pagination.Key, n int) ([]domain.ChatMessage, error) {
	if m.ListAfterFunc == nil {
		panic("messageRepoMock.ListAfterFunc: method is nil but messageRepo.ListAfter was just called")
	}
	return m.ListAfterFunc(ctx, roomID, after, n)
}

type userRepoMock struct {
	GetByIDsFunc func(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)

	mu    sync.Mutex
	calls [][]uuid.UUID
}

func (m *userRepoMock) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if m.GetByIDsFunc == nil {
		panic("userRepoMock.GetByIDsFunc: method is nil but userRepo.GetByIDs was just called")
	}
	m.mu.Lock()
	m.calls = append(m.calls, ids)
	m.mu.Unlock()
	return m.GetByIDsFunc(ctx, ids)
}

func (m *userRepoMock) GetByIDsCalls() [][]uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type markerStoreMock struct {
	GetFunc func(ctx context.Context, roomID, userID uuid.UUID) (domain.ReadMarker, error)
	PutFunc func(ctx context.Context, m domain.ReadMarker) error
}

func (m *markerStoreMock) Get(ctx context.Context, roomID, userID uuid.UUID) (domain.ReadMarker, error) {
	if m.GetFunc == nil {
		panic("markerStoreMock.GetFunc: method is nil but markerStore.Get was just called")
	}
	return m.GetFunc(ctx, roomID, userID)
}

func (m *markerStoreMock) Put(ctx context.Context, marker domain.ReadMarker) error {
	if m.PutFunc == nil {
		panic("markerStoreMock.PutFunc: method is nil but markerStore.Put was just called")
	}
	return m.PutFunc(ctx, marker)
}

type eventPublisherMock struct {
	MessageCreatedFunc func(ctx context.Context, m domain.ChatMessage) error
	MessageUpdatedFunc func(ctx context.Context, m domain.ChatMessage) error

	mu      sync.Mutex
	created []domain.ChatMessage
	updated []domain.ChatMessage
}

func (m *eventPublisherMock) MessageCreated(ctx context.Context, msg domain.ChatMessage) error {
	m.mu.Lock()
	m.created = append(m.created, msg)
	m.mu.Unlock()
	if m.MessageCreatedFunc == nil {
		return nil
	}
	return m.MessageCreatedFunc(ctx, msg)
}

func (m *eventPublisherMock) MessageUpdated(ctx context.Context, msg domain.ChatMessage) error {
	m.mu.Lock()
	m.updated = append(m.updated, msg)
	m.mu.Unlock()
	if m.MessageUpdatedFunc == nil {
		return nil
	}
	return m.MessageUpdatedFunc(ctx, msg)
}

func (m *eventPublisherMock) Created() []domain.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created
}

func (m *eventPublisherMock) Updated() []domain.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updated
}
