package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
	"github.com/heartmarshall/pocamarket-backend/internal/service/chat"
)

type chatService interface {
	History(ctx context.Context, roomID uuid.UUID, req pagination.Request) (chat.HistoryPage, error)
	Send(ctx context.Context, in chat.SendInput) (*domain.ChatMessage, error)
	MarkDelivered(ctx context.Context, roomID, messageID uuid.UUID) (*domain.ChatMessage, error)
	ReadMarker(ctx context.Context, roomID uuid.UUID) (domain.ReadMarker, error)
	PutReadMarker(ctx context.Context, in chat.MarkerInput) (domain.ReadMarker, error)
}

// ChatHandler serves room history, message writes and read markers.
type ChatHandler struct {
	svc    chatService
	limits pagination.Limits
	log    *slog.Logger
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(svc chatService, limits pagination.Limits, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, limits: limits, log: logger.With("handler", "chat")}
}

// History handles GET /api/rooms/{roomID}/messages.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathUUID(r, "roomID")
	if err != nil {
		handleError(h.log, w, r, err, msgFeedUnavailable)
		return
	}
	q := r.URL.Query()
	req, err := h.limits.Parse(q.Get("cursor"), q.Get("limit"))
	if err != nil {
		handleError(h.log, w, r, err, msgFeedUnavailable)
		return
	}

	page, err := h.svc.History(r.Context(), roomID, req)
	if err != nil {
		handleError(h.log, w, r, err, msgFeedUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{
		pageResponse: toPage(page.Page, toHistoryMessage),
		UnreadIndex:  page.UnreadIndex,
	})
}

type sendRequest struct {
	Content string `json:"content"`
}

// Send handles POST /api/rooms/{roomID}/messages.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathUUID(r, "roomID")
	if err != nil {
		handleError(h.log, w, r, err, msgInternal)
		return
	}
	var body sendRequest
	if err := decodeBody(w, r, &body); err != nil {
		handleError(h.log, w, r, err, msgInternal)
		return
	}

	msg, err := h.svc.Send(r.Context(), chat.SendInput{RoomID: roomID, Content: body.Content})
	if err != nil {
		handleError(h.log, w, r, err, msgInternal)
		return
	}
	writeJSON(w, http.StatusCreated, toMessage(*msg))
}

// MarkDelivered handles PATCH /api/rooms/{roomID}/messages/{messageID}/delivery.
func (h *ChatHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathUUID(r, "roomID")
	if err != nil {
		handleError(h.log, w, r, err, msgInternal)
		return
	}
	messageID, err := pathUUID(r, "messageID")
	if err != nil {
		handleError(h.log, w, r, err, msgInternal)
		return
	}

	msg, err := h.svc.MarkDelivered(r.Context(), roomID, messageID)
	if err != nil {
		handleError(h.log, w, r, err, msgInternal)
		return
	}
	writeJSON(w, http.StatusOK, toMessage(*msg))
}

// ReadMarker handles GET /api/rooms/{roomID}/read-marker.
func (h *ChatHandler) ReadMarker(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathUUID(r, "roomID")
	if err != nil {
		handleError(h.log, w, r, err, msgInternal)
		return
	}

	m, err := h.svc.ReadMarker(r.Context(), roomID)
	if err != nil {
		handleError(h.log, w, r, err, msgInternal)
		return
	}
	writeJSON(w, http.StatusOK, toMarker(roomID, m))
}

type markerRequest struct {
	LastReadMessageID *uuid.UUID `json:"lastReadMessageId"`
	LastReadAt        *time.Time `json:"lastReadAt"`
}

// PutReadMarker handles PUT /api/rooms/{roomID}/read-marker.
func (h *ChatHandler) PutReadMarker(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathUUID(r, "roomID")
	if err != nil {
		handleError(h.log, w, r, err, msgInternal)
		return
	}
	var body markerRequest
	if err := decodeBody(w, r, &body); err != nil {
		handleError(h.log, w, r, err, msgInternal)
		return
	}

	m, err := h.svc.PutReadMarker(r.Context(), chat.MarkerInput{
		RoomID:        roomID,
		LastMessageID: body.LastReadMessageID,
		LastReadAt:    body.LastReadAt,
	})
	if err != nil {
		handleError(h.log, w, r, err, msgInternal)
		return
	}
	writeJSON(w, http.StatusOK, toMarker(roomID, m))
}
