// Package natsevents publishes feed and chat change events to NATS. Consumers
// use them to refresh feeds; delivery is best effort.
package natsevents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/heartmarshall/pocamarket-backend/internal/config"
	"github.com/heartmarshall/pocamarket-backend/internal/domain"
)

// Subjects, relative to the configured prefix.
const (
	subjectMessageCreated = "chat.room.%s.message.created"
	subjectMessageUpdated = "chat.room.%s.message.updated"
	subjectActivity       = "activity.recorded"
)

// Connect dials NATS with reconnects enabled.
func Connect(cfg config.NATSConfig, log *slog.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(cfg.ClientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.ReconnectJitter(100*time.Millisecond, 500*time.Millisecond),
		nats.Timeout(cfg.Timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	}
	if cfg.User != "" {
		opts = append(opts, nats.UserInfo(cfg.User, cfg.Password))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}

// conn is the part of *nats.Conn the publisher needs.
type conn interface {
	Publish(subj string, data []byte) error
}

// Publisher publishes domain events as JSON.
type Publisher struct {
	nc     conn
	prefix string
	log    *slog.Logger
}

// NewPublisher creates a Publisher. Subjects are prefixed with prefix and a
// dot when prefix is not empty.
func NewPublisher(nc conn, prefix string, log *slog.Logger) *Publisher {
	return &Publisher{nc: nc, prefix: prefix, log: log.With("component", "natsevents")}
}

// MessageEvent is the payload of chat message events.
type MessageEvent struct {
	ID          uuid.UUID  `json:"id"`
	RoomID      uuid.UUID  `json:"roomId"`
	SenderID    uuid.UUID  `json:"senderId"`
	Content     string     `json:"content"`
	CreatedAt   time.Time  `json:"createdAt"`
	DeliveredAt *time.Time `json:"deliveredAt"`
}

// ActivityEvent is the payload of activity.recorded.
type ActivityEvent struct {
	ID         uuid.UUID `json:"id"`
	ActorID    uuid.UUID `json:"actorId"`
	Action     string    `json:"action"`
	TargetType string    `json:"targetType"`
	TargetID   uuid.UUID `json:"targetId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MessageCreated announces a new chat message.
func (p *Publisher) MessageCreated(ctx context.Context, m domain.ChatMessage) error {
	return p.publish(ctx, fmt.Sprintf(subjectMessageCreated, m.RoomID), messageEvent(m))
}

// MessageUpdated announces changed delivery metadata.
func (p *Publisher) MessageUpdated(ctx context.Context, m domain.ChatMessage) error {
	return p.publish(ctx, fmt.Sprintf(subjectMessageUpdated, m.RoomID), messageEvent(m))
}

// ActivityRecorded announces a new activity entry.
func (p *Publisher) ActivityRecorded(ctx context.Context, e domain.ActivityEntry) error {
	return p.publish(ctx, subjectActivity, ActivityEvent{
		ID:         e.ID,
		ActorID:    e.ActorID,
		Action:     e.Action.String(),
		TargetType: e.TargetType.String(),
		TargetID:   e.TargetID,
		CreatedAt:  e.CreatedAt,
	})
}

// Subject returns the full subject for a relative one.
func (p *Publisher) Subject(rel string) string {
	if p.prefix == "" {
		return rel
	}
	return p.prefix + "." + rel
}

func (p *Publisher) publish(ctx context.Context, rel string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	subject := p.Subject(rel)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.log.DebugContext(ctx, "event published", slog.String("subject", subject))
	return nil
}

func messageEvent(m domain.ChatMessage) MessageEvent {
	return MessageEvent{
		ID:          m.ID,
		RoomID:      m.RoomID,
		SenderID:    m.SenderID,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
		DeliveredAt: m.DeliveredAt,
	}
}

// Nop discards every event. It is used when NATS is not configured.
type Nop struct{}

func (Nop) MessageCreated(context.Context, domain.ChatMessage) error     { return nil }
func (Nop) MessageUpdated(context.Context, domain.ChatMessage) error     { return nil }
func (Nop) ActivityRecorded(context.Context, domain.ActivityEntry) error { return nil }
