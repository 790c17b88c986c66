// Package post implements the Post repository using PostgreSQL.
package post

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres"
	"github.com/heartmarshall/pocamarket-backend/internal/domain"
)

const postColumns = "id, author_id, title, content, like_count, created_at, updated_at"

// Repo provides post persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new post repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a post by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id = $1", id)
	if err != nil {
		return nil, postgres.MapError(err, "post", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, ScanPost)
	if err != nil {
		return nil, postgres.MapError(err, "post", id)
	}
	return &p, nil
}

// GetByIDs returns the posts that still exist among ids, in one query.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Post, error) {
	if len(ids) == 0 {
		return []domain.Post{}, nil
	}

	b := postgres.Builder.Select(postColumns).From("posts").Where("id = ANY(?)", ids)
	posts, err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), b, ScanPost)
	if err != nil {
		return nil, fmt.Errorf("get posts by ids: %w", err)
	}
	return posts, nil
}

// Create inserts a post.
func (r *Repo) Create(ctx context.Context, p domain.Post) (*domain.Post, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx,
		`INSERT INTO posts (id, author_id, title, content, like_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 0, $5, $6)
		 RETURNING `+postColumns,
		p.ID, p.AuthorID, p.Title, p.Content, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "post", p.ID)
	}

	got, err := pgx.CollectExactlyOneRow(rows, ScanPost)
	if err != nil {
		return nil, postgres.MapError(err, "post", p.ID)
	}
	return &got, nil
}

// AddLikes changes like_count by delta and returns the new count.
// The count never drops below zero.
func (r *Repo) AddLikes(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var count int
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`UPDATE posts SET like_count = GREATEST(like_count + $2, 0)
		 WHERE id = $1
		 RETURNING like_count`,
		id, delta,
	).Scan(&count)
	if err != nil {
		return 0, postgres.MapError(err, "post", id)
	}
	return count, nil
}

// ScanPost scans the postColumns projection. Other repositories joining
// posts select the same columns with a table prefix.
func ScanPost(row pgx.CollectableRow) (domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.LikeCount, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
