// Package user implements the User repository using PostgreSQL.
// Accounts are owned by the auth service; this repository keeps the
// display profile used by feeds and chat.
package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres"
	"github.com/heartmarshall/pocamarket-backend/internal/domain"
)

const userColumns = "id, username, display_name, avatar_url, created_at, updated_at"

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return &u, nil
}

// GetByIDs returns the users that exist among ids, in no particular order.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	b := postgres.Builder.Select(userColumns).From("users").Where("id = ANY(?)", ids)
	users, err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), b, scanUser)
	if err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}
	return users, nil
}

// Upsert stores the profile, replacing display fields of an existing user.
func (r *Repo) Upsert(ctx context.Context, u domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`INSERT INTO users (id, username, display_name, avatar_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE
		 SET username = EXCLUDED.username,
		     display_name = EXCLUDED.display_name,
		     avatar_url = EXCLUDED.avatar_url,
		     updated_at = EXCLUDED.updated_at
		 RETURNING `+userColumns,
		u.ID, u.Username, u.DisplayName, u.AvatarURL, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "user", u.ID)
	}

	got, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		return nil, postgres.MapError(err, "user", u.ID)
	}
	return &got, nil
}

func scanUser(row pgx.CollectableRow) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
