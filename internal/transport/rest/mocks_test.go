package rest

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
	"github.com/heartmarshall/pocamarket-backend/internal/service/chat"
	"github.com/heartmarshall/pocamarket-backend/internal/service/likes"
)

var (
	_ activityService  = &activityServiceMock{}
	_ likesService     = &likesServiceMock{}
	_ photocardService = &photocardServiceMock{}
	_ chatService      = &chatServiceMock{}
)

type activityServiceMock struct {
	ListFunc func(ctx context.Context, actorID *uuid.UUID, req pagination.Request) (pagination.Page[domain.ResolvedFeedItem], error)
}

func (m *activityServiceMock) List(ctx context.Context, actorID *uuid.UUID, req pagination.Request) (pagination.Page[domain.ResolvedFeedItem], error) {
	if m.ListFunc == nil {
		panic("activityServiceMock.ListFunc: method is nil but activityService.List was just called")
	}
	return m.ListFunc(ctx, actorID, req)
}

type likesServiceMock struct {
	LikeFunc   func(ctx context.Context, postID uuid.UUID) (likes.ToggleResult, error)
	UnlikeFunc func(ctx context.Context, postID uuid.UUID) (likes.ToggleResult, error)
	FeedFunc   func(ctx context.Context, sort domain.LikeSort, req pagination.Request) (pagination.Page[domain.LikedPost], error)
}

func (m *likesServiceMock) Like(ctx context.Context, postID uuid.UUID) (likes.ToggleResult, error) {
	if m.LikeFunc == nil {
		panic("likesServiceMock.LikeFunc: method is nil but likesService.Like was just called")
	}
	return m.LikeFunc(ctx, postID)
}

func (m *likesServiceMock) Unlike(ctx context.Context, postID uuid.UUID) (likes.ToggleResult, error) {
	if m.UnlikeFunc == nil {
		panic("likesServiceMock.UnlikeFunc: method is nil but likesService.Unlike was just called")
	}
	return m.UnlikeFunc(ctx, postID)
}

func (m *likesServiceMock) Feed(ctx context.Context, sort domain.LikeSort, req pagination.Request) (pagination.Page[domain.LikedPost], error) {
	if m.FeedFunc == nil {
		panic("likesServiceMock.FeedFunc: method is nil but likesService.Feed was just called")
	}
	return m.FeedFunc(ctx, sort, req)
}

type photocardServiceMock struct {
	CatalogFunc   func(ctx context.Context, filter domain.PhotocardFilter, req pagination.Request) (pagination.Page[domain.Photocard], error)
	GalmangFunc   func(ctx context.Context, userID *uuid.UUID, req pagination.Request) (pagination.Page[domain.GalmangPoca], error)
	AddWantedFunc func(ctx context.Context, photocardID uuid.UUID, note *string) (*domain.GalmangPoca, error)
}

func (m *photocardServiceMock) Catalog(ctx context.Context, filter domain.PhotocardFilter, req pagination.Request) (pagination.Page[domain.Photocard], error) {
	if m.CatalogFunc == nil {
		panic("photocardServiceMock.CatalogFunc: method is nil but photocardService.Catalog was just called")
	}
	return m.CatalogFunc(ctx, filter, req)
}

func (m *photocardServiceMock) Galmang(ctx context.Context, userID *uuid.UUID, req pagination.Request) (pagination.Page[domain.GalmangPoca], error) {
	if m.GalmangFunc == nil {
		panic("photocardServiceMock.GalmangFunc: method is nil but photocardService.Galmang was just called")
	}
	return m.GalmangFunc(ctx, userID, req)
}

func (m *photocardServiceMock) AddWanted(ctx context.Context, photocardID uuid.UUID, note *string) (*domain.GalmangPoca, error) {
	if m.AddWantedFunc == nil {
		panic("photocardServiceMock.AddWantedFunc: method is nil but photocardService.AddWanted was just called")
	}
	return m.AddWantedFunc(ctx, photocardID, note)
}

type chatServiceMock struct {
	HistoryFunc       func(ctx context.Context, roomID uuid.UUID, req pagination.Request) (chat.HistoryPage, error)
	SendFunc          func(ctx context.Context, in chat.SendInput) (*domain.ChatMessage, error)
	MarkDeliveredFunc func(ctx context.Context, roomID, messageID uuid.UUID) (*domain.ChatMessage, error)
	ReadMarkerFunc    func(ctx context.Context, roomID uuid.UUID) (domain.ReadMarker, error)
	PutReadMarkerFunc func(ctx context.Context, in chat.MarkerInput) (domain.ReadMarker, error)
}

func (m *chatServiceMock) History(ctx context.Context, roomID uuid.UUID, req pagination.Request) (chat.HistoryPage, error) {
	if m.HistoryFunc == nil {
		panic("chatServiceMock.HistoryFunc: method is nil but chatService.History was just called")
	}
	return m.HistoryFunc(ctx, roomID, req)
}

func (m *chatServiceMock) Send(ctx context.Context, in chat.SendInput) (*domain.ChatMessage, error) {
	if m.SendFunc == nil {
		panic("chatServiceMock.SendFunc: method is nil but chatService.Send was just called")
	}
	return m.SendFunc(ctx, in)
}

func (m *chatServiceMock) MarkDelivered(ctx context.Context, roomID, messageID uuid.UUID) (*domain.ChatMessage, error) {
	if m.MarkDeliveredFunc == nil {
		panic("chatServiceMock.MarkDeliveredFunc: method is nil but chatService.MarkDelivered was just called")
	}
	return m.MarkDeliveredFunc(ctx, roomID, messageID)
}

func (m *chatServiceMock) ReadMarker(ctx context.Context, roomID uuid.UUID) (domain.ReadMarker, error) {
	if m.ReadMarkerFunc == nil {
		panic("chatServiceMock.ReadMarkerFunc: method is nil but chatService.ReadMarker was just called")
	}
	return m.ReadMarkerFunc(ctx, roomID)
}

func (m *chatServiceMock) PutReadMarker(ctx context.Context, in chat.MarkerInput) (domain.ReadMarker, error) {
	if m.PutReadMarkerFunc == nil {
		panic("chatServiceMock.PutReadMarkerFunc: method is nil but chatService.PutReadMarker was just called")
	}
	return m.PutReadMarkerFunc(ctx, in)
}
