package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
	"github.com/heartmarshall/pocamarket-backend/internal/service/chat"
	"github.com/heartmarshall/pocamarket-backend/internal/service/likes"
	"github.com/heartmarshall/pocamarket-backend/internal/transport/middleware"
	"github.com/heartmarshall/pocamarket-backend/pkg/ctxutil"
)

type testServer struct {
	activity   *activityServiceMock
	likes      *likesServiceMock
	photocards *photocardServiceMock
	chat       *chatServiceMock
	handler    http.Handler
}

func newTestServer() *testServer {
	s := &testServer{
		activity:   &activityServiceMock{},
		likes:      &likesServiceMock{},
		photocards: &photocardServiceMock{},
		chat:       &chatServiceMock{},
	}
	limits := pagination.Limits{Default: 20, Max: 100}
	s.handler = NewRouter(Handlers{
		Health: NewHealthHandler("test", &pingerMock{}, &pingerMock{}),
		Feed:   NewFeedHandler(s.activity, s.likes, s.photocards, limits, slog.Default()),
		Chat:   NewChatHandler(s.chat, limits, slog.Default()),
	}, middleware.RequireUser)
	return s
}

// do sends a request, authenticated as userID unless it is uuid.Nil.
func (s *testServer) do(t *testing.T, method, target string, body string, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if userID != uuid.Nil {
		req = req.WithContext(ctxutil.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type rawPage struct {
	Items      []map[string]any `json:"items"`
	NextCursor *string          `json:"nextCursor"`
	HasMore    bool             `json:"hasMore"`
}

// ---------------------------------------------------------------------------
// Activity
// ---------------------------------------------------------------------------

func TestActivity_PageShape(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	actorID := uuid.New()
	href := "/posts/x"
	next := "bmV4dA"
	s.activity.ListFunc = func(_ context.Context, aid *uuid.UUID, req pagination.Request) (pagination.Page[domain.ResolvedFeedItem], error) {
		require.NotNil(t, aid)
		assert.Equal(t, actorID, *aid)
		assert.Equal(t, 2, req.Limit)
		return pagination.Page[domain.ResolvedFeedItem]{
			Items: []domain.ResolvedFeedItem{
				{
					ActivityEntry: domain.ActivityEntry{ID: uuid.New(), Action: domain.ActivityPostLiked, TargetType: domain.TargetTypePost},
					Target:        &domain.TargetSnapshot{Type: domain.TargetTypePost, Title: "WTS Minji pc", Href: href},
					TargetHref:    &href,
				},
				{
					ActivityEntry: domain.ActivityEntry{ID: uuid.New(), Action: domain.ActivityMarketOpened, TargetType: domain.TargetTypeMarket},
				},
			},
			NextCursor: &next,
			HasMore:    true,
		}, nil
	}

	rec := s.do(t, http.MethodGet, "/api/activity?limit=2&actorId="+actorID.String(), "", uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[rawPage](t, rec)
	require.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, next, *page.NextCursor)
	assert.Equal(t, "WTS Minji pc", page.Items[0]["target"].(map[string]any)["title"])
	assert.Nil(t, page.Items[1]["target"], "missing target is null")
	assert.Nil(t, page.Items[1]["targetHref"])
	assert.Contains(t, page.Items[1], "targetHref")
}

func TestActivity_TerminalPage(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	s.activity.ListFunc = func(context.Context, *uuid.UUID, pagination.Request) (pagination.Page[domain.ResolvedFeedItem], error) {
		return pagination.Terminal[domain.ResolvedFeedItem](), nil
	}

	rec := s.do(t, http.MethodGet, "/api/activity", "", uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"nextCursor":null,"hasMore":false}`, rec.Body.String())
}

func TestActivity_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"invalid cursor", fmt.Errorf("activity feed: %w", pagination.ErrInvalidCursor), http.StatusBadRequest, "invalid cursor"},
		{"invalid limit", pagination.ErrInvalidLimit, http.StatusBadRequest, "invalid limit"},
		{"loader failure", errors.New("resolve market targets: timeout"), http.StatusServiceUnavailable, "feed unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestServer()
			s.activity.ListFunc = func(context.Context, *uuid.UUID, pagination.Request) (pagination.Page[domain.ResolvedFeedItem], error) {
				return pagination.Page[domain.ResolvedFeedItem]{}, tt.err
			}

			rec := s.do(t, http.MethodGet, "/api/activity?cursor=abc", "", uuid.Nil)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, decode[errorResponse](t, rec).Error)
		})
	}
}

func TestActivity_BadQueryRejectedBeforeService(t *testing.T) {
	t.Parallel()

	for _, target := range []string{
		"/api/activity?limit=0",
		"/api/activity?limit=abc",
		"/api/activity?actorId=not-a-uuid",
	} {
		s := newTestServer()
		rec := s.do(t, http.MethodGet, target, "", uuid.Nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestActivity_LimitClamped(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	s.activity.ListFunc = func(_ context.Context, _ *uuid.UUID, req pagination.Request) (pagination.Page[domain.ResolvedFeedItem], error) {
		assert.Equal(t, 100, req.Limit)
		return pagination.Terminal[domain.ResolvedFeedItem](), nil
	}

	rec := s.do(t, http.MethodGet, "/api/activity?limit=5000", "", uuid.Nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ---------------------------------------------------------------------------
// Likes
// ---------------------------------------------------------------------------

func TestLikes_RequiresUser(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/api/likes"},
		{http.MethodPost, "/api/posts/" + uuid.NewString() + "/like"},
		{http.MethodDelete, "/api/posts/" + uuid.NewString() + "/like"},
	} {
		rec := s.do(t, tc.method, tc.target, "", uuid.Nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.target)
	}
}

func TestLikes_SortParam(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	var gotSort domain.LikeSort
	s.likes.FeedFunc = func(_ context.Context, sort domain.LikeSort, _ pagination.Request) (pagination.Page[domain.LikedPost], error) {
		gotSort = sort
		return pagination.Page[domain.LikedPost]{Items: []domain.LikedPost{{
			Post:    domain.Post{ID: uuid.New(), Title: "IVE pc", Content: "mint condition", LikeCount: 3},
			LikedAt: time.Now(),
		}}}, nil
	}

	rec := s.do(t, http.MethodGet, "/api/likes?sort=popular", "", uuid.New())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.LikeSortPopular, gotSort)
	page := decode[rawPage](t, rec)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "mint condition", page.Items[0]["excerpt"])

	rec = s.do(t, http.MethodGet, "/api/likes?sort=random", "", uuid.New())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLike_Toggle(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	postID := uuid.New()
	s.likes.LikeFunc = func(_ context.Context, pid uuid.UUID) (likes.ToggleResult, error) {
		return likes.ToggleResult{PostID: pid, Liked: true, LikeCount: 8}, nil
	}
	s.likes.UnlikeFunc = func(_ context.Context, pid uuid.UUID) (likes.ToggleResult, error) {
		return likes.ToggleResult{}, domain.ErrNotFound
	}

	rec := s.do(t, http.MethodPost, "/api/posts/"+postID.String()+"/like", "", uuid.New())
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[toggleResponse](t, rec)
	assert.Equal(t, toggleResponse{PostID: postID, Liked: true, LikeCount: 8}, got)

	rec = s.do(t, http.MethodDelete, "/api/posts/"+postID.String()+"/like", "", uuid.New())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/posts/nope/like", "", uuid.New())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---------------------------------------------------------------------------
// Photocards
// ---------------------------------------------------------------------------

func TestPhotocards_Filter(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	var got domain.PhotocardFilter
	s.photocards.CatalogFunc = func(_ context.Context, f domain.PhotocardFilter, _ pagination.Request) (pagination.Page[domain.Photocard], error) {
		got = f
		return pagination.Terminal[domain.Photocard](), nil
	}

	rec := s.do(t, http.MethodGet, "/api/photocards?group=NewJeans", "", uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.GroupName)
	assert.Equal(t, "NewJeans", *got.GroupName)
	assert.Nil(t, got.Member)
}

func TestGalmang_AddRequiresUser(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	body := `{"photocardId":"` + uuid.NewString() + `"}`

	rec := s.do(t, http.MethodPost, "/api/galmang-poca", body, uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	s.photocards.AddWantedFunc = func(_ context.Context, pid uuid.UUID, _ *string) (*domain.GalmangPoca, error) {
		return nil, domain.ErrAlreadyExists
	}
	rec = s.do(t, http.MethodPost, "/api/galmang-poca", body, uuid.New())
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/galmang-poca", `{"photocardId":1,"extra":true}`, uuid.New())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---------------------------------------------------------------------------
// Chat
// ---------------------------------------------------------------------------

func TestHistory_IncludesUnreadIndex(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	roomID := uuid.New()
	idx := 1
	s.chat.HistoryFunc = func(_ context.Context, rid uuid.UUID, _ pagination.Request) (chat.HistoryPage, error) {
		assert.Equal(t, roomID, rid)
		return chat.HistoryPage{
			Page: pagination.Page[chat.HistoryMessage]{Items: []chat.HistoryMessage{
				{ChatMessage: domain.ChatMessage{ID: uuid.New(), Content: "a"}},
				{ChatMessage: domain.ChatMessage{ID: uuid.New(), Content: "b"}, Sender: &domain.User{Username: "haerin"}},
			}},
			UnreadIndex: &idx,
		}, nil
	}

	rec := s.do(t, http.MethodGet, "/api/rooms/"+roomID.String()+"/messages", "", uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items       []messageResponse `json:"items"`
		HasMore     bool              `json:"hasMore"`
		UnreadIndex *int              `json:"unreadIndex"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	require.NotNil(t, resp.UnreadIndex)
	assert.Equal(t, 1, *resp.UnreadIndex)
	assert.Nil(t, resp.Items[0].Sender)
	assert.Equal(t, "haerin", resp.Items[1].Sender.Username)
}

func TestSend_Created(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	roomID := uuid.New()
	s.chat.SendFunc = func(_ context.Context, in chat.SendInput) (*domain.ChatMessage, error) {
		return &domain.ChatMessage{ID: uuid.New(), RoomID: in.RoomID, Content: in.Content}, nil
	}

	rec := s.do(t, http.MethodPost, "/api/rooms/"+roomID.String()+"/messages", `{"content":"hello"}`, uuid.New())
	require.Equal(t, http.StatusCreated, rec.Code)
	got := decode[messageResponse](t, rec)
	assert.Equal(t, roomID, got.RoomID)
	assert.Equal(t, "hello", got.Content)
}

func TestSend_ValidationFields(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	s.chat.SendFunc = func(context.Context, chat.SendInput) (*domain.ChatMessage, error) {
		return nil, domain.NewValidationError("content", "required")
	}

	rec := s.do(t, http.MethodPost, "/api/rooms/"+uuid.NewString()+"/messages", `{"content":""}`, uuid.New())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[errorResponse](t, rec)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "content", resp.Fields[0].Field)
}

func TestMarkDelivered_Route(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	roomID, msgID := uuid.New(), uuid.New()
	s.chat.MarkDeliveredFunc = func(_ context.Context, rid, mid uuid.UUID) (*domain.ChatMessage, error) {
		now := time.Now()
		return &domain.ChatMessage{ID: mid, RoomID: rid, DeliveredAt: &now}, nil
	}

	rec := s.do(t, http.MethodPatch, "/api/rooms/"+roomID.String()+"/messages/"+msgID.String()+"/delivery", "", uuid.New())
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[messageResponse](t, rec)
	assert.Equal(t, msgID, got.ID)
	assert.NotNil(t, got.DeliveredAt)
}

func TestReadMarker_PutAndGet(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	roomID, msgID := uuid.New(), uuid.New()
	var stored chat.MarkerInput
	s.chat.PutReadMarkerFunc = func(_ context.Context, in chat.MarkerInput) (domain.ReadMarker, error) {
		stored = in
		return domain.ReadMarker{RoomID: in.RoomID, LastReadMessageID: in.LastMessageID}, nil
	}
	s.chat.ReadMarkerFunc = func(context.Context, uuid.UUID) (domain.ReadMarker, error) {
		return domain.ReadMarker{}, nil
	}

	target := "/api/rooms/" + roomID.String() + "/read-marker"
	rec := s.do(t, http.MethodPut, target, `{"lastReadMessageId":"`+msgID.String()+`"}`, uuid.New())
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stored.LastMessageID)
	assert.Equal(t, msgID, *stored.LastMessageID)

	rec = s.do(t, http.MethodGet, target, "", uuid.New())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"roomId":"`+roomID.String()+`","lastReadMessageId":null,"lastReadAt":null}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, target, "", uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
