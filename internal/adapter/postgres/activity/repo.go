// Package activity implements the activity feed repository using PostgreSQL.
package activity

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

const entryColumns = "id, actor_id, action, target_type, target_id, created_at"

// Repo provides activity entry persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new activity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create appends an entry. Entries are never updated.
func (r *Repo) Create(ctx context.Context, e domain.ActivityEntry) error {
	_, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`INSERT INTO activity_entries (id, actor_id, action, target_type, target_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.ActorID, string(e.Action), string(e.TargetType), e.TargetID, e.CreatedAt,
	)
	return postgres.MapError(err, "activity_entry", e.ID)
}

// ListAfter returns up to n entries strictly after the cursor position,
// newest first. A nil actorID lists every actor.
func (r *Repo) ListAfter(ctx context.Context, actorID *uuid.UUID, after *pagination.Key, n int) ([]domain.ActivityEntry, error) {
	b := postgres.Builder.Select(entryColumns).From("activity_entries")
	if actorID != nil {
		b = b.Where("actor_id = ?", *actorID)
	}
	b = postgres.Keyset(b, "created_at", "id", after, n)

	entries, err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), b, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("list activity entries: %w", err)
	}
	return entries, nil
}

// DeleteOlderThan removes entries created before cutoff and returns how many
// were removed.
func (r *Repo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`DELETE FROM activity_entries WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete activity entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanEntry(row pgx.CollectableRow) (domain.ActivityEntry, error) {
	var (
		e              domain.ActivityEntry
		action, target string
	)
	err := row.Scan(&e.ID, &e.ActorID, &action, &target, &e.TargetID, &e.CreatedAt)
	e.Action = domain.ActivityAction(action)
	e.TargetType = domain.TargetType(target)
	return e, err
}
