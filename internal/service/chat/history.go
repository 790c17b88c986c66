package chat

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/chatwindow"
	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
	"github.com/heartmarshall/pocamarket-backend/pkg/ctxutil"
)

// HistoryMessage is a message with its sender's profile. Sender is nil when
// the profile could not be loaded.
type HistoryMessage struct {
	domain.ChatMessage
	Sender *domain.User
}

// HistoryPage is one page of room history in chronological order. The
// cursor points at older messages. UnreadIndex is the position of the
// caller's "read up to here" divider within Items, when it falls on this
// page.
type HistoryPage struct {
	pagination.Page[HistoryMessage]
	UnreadIndex *int
}

// History returns the newest messages of a room older than the cursor.
// Items come oldest first so a page can be prepended to a chat window as is.
func (s *Service) History(ctx context.Context, roomID uuid.UUID, req pagination.Request) (HistoryPage, error) {
	if roomID == uuid.Nil {
		return HistoryPage{}, domain.NewValidationError("room_id", "required")
	}

	page, err := pagination.Assemble(ctx, req, pagination.Feed[domain.ChatMessage, HistoryMessage]{
		Fetch: func(ctx context.Context, after *pagination.Key, n int) ([]domain.ChatMessage, error) {
			return s.messages.ListAfter(ctx, roomID, after, n)
		},
		Key:    messageKey,
		Enrich: s.withSenders,
	})
	if err != nil {
		return HistoryPage{}, fmt.Errorf("chat history: %w", err)
	}

	slices.Reverse(page.Items)

	out := HistoryPage{Page: page}
	if userID, ok := ctxutil.UserIDFromCtx(ctx); ok && len(page.Items) > 0 {
		out.UnreadIndex = s.unreadIndex(ctx, roomID, userID, page.Items)
	}
	return out, nil
}

func (s *Service) withSenders(ctx context.Context, msgs []domain.ChatMessage) ([]HistoryMessage, error) {
	ids := make([]uuid.UUID, len(msgs))
	for i, m := range msgs {
		ids[i] = m.SenderID
	}

	senders, errs := newSenderLoader(s.users).LoadMany(ctx, ids)()

	out := make([]HistoryMessage, len(msgs))
	failed := 0
	for i, m := range msgs {
		out[i] = HistoryMessage{ChatMessage: m}
		if i < len(errs) && errs[i] != nil {
			failed++
			continue
		}
		if i < len(senders) {
			out[i].Sender = senders[i]
		}
	}

	if failed > 0 {
		s.log.WarnContext(ctx, "sender profiles unavailable",
			slog.Int("messages", len(msgs)),
			slog.Int("failed", failed),
		)
	}
	return out, nil
}

func (s *Service) unreadIndex(ctx context.Context, roomID, userID uuid.UUID, items []HistoryMessage) *int {
	marker, err := s.markers.Get(ctx, roomID, userID)
	if err != nil {
		s.log.WarnContext(ctx, "read marker unavailable",
			slog.String("room_id", roomID.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if marker.IsZero() {
		return nil
	}

	views := make([]chatwindow.MessageView, len(items))
	for i, m := range items {
		views[i] = chatwindow.ViewOf(m.ChatMessage)
	}
	idx, ok := chatwindow.UnreadBoundary(views, marker)
	if !ok {
		return nil
	}
	return &idx
}

func messageKey(m domain.ChatMessage) pagination.Key {
	return pagination.KeyOf(m.CreatedAt, m.ID)
}
