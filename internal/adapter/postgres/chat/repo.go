// Package chat implements the chat message repository using PostgreSQL.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres"
	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
)

const messageColumns = "id, room_id, sender_id, content, created_at, delivered_at, updated_at"

// Repo provides chat message persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new chat repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create stores a message.
func (r *Repo) Create(ctx context.Context, m domain.ChatMessage) (*domain.ChatMessage, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx,
		`INSERT INTO chat_messages (id, room_id, sender_id, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+messageColumns,
		m.ID, m.RoomID, m.SenderID, m.Content, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "chat_message", m.ID)
	}

	got, err := pgx.CollectExactlyOneRow(rows, scanMessage)
	if err != nil {
		return nil, postgres.MapError(err, "chat_message", m.ID)
	}
	return &got, nil
}

// MarkDelivered sets the delivery time of a message in roomID. It is the
// only mutation a stored message gets.
func (r *Repo) MarkDelivered(ctx context.Context, roomID, messageID uuid.UUID, at time.Time) (*domain.ChatMessage, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx,
		`UPDATE chat_messages SET delivered_at = $3, updated_at = $3
		 WHERE room_id = $1 AND id = $2
		 RETURNING `+messageColumns,
		roomID, messageID, at,
	)
	if err != nil {
		return nil, postgres.MapError(err, "chat_message", messageID)
	}

	got, err := pgx.CollectExactlyOneRow(rows, scanMessage)
	if err != nil {
		return nil, postgres.MapError(err, "chat_message", messageID)
	}
	return &got, nil
}

// ListAfter returns up to n messages of roomID strictly older than the
// cursor position, newest first.
func (r *Repo) ListAfter(ctx context.Context, roomID uuid.UUID, after *pagination.Key, n int) ([]domain.ChatMessage, error) {
	b := postgres.Builder.Select(messageColumns).From("chat_messages").Where("room_id = ?", roomID)
	b = postgres.Keyset(b, "created_at", "id", after, n)

	msgs, err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), b, scanMessage)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	return msgs, nil
}

func scanMessage(row pgx.CollectableRow) (domain.ChatMessage, error) {
	var m domain.ChatMessage
	err := row.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.Content, &m.CreatedAt, &m.DeliveredAt, &m.UpdatedAt)
	return m, err
}
