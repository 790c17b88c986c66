// Package like implements the Like repository and the liked-posts feed
// queries using PostgreSQL.
package like

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres"
	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
)

const likedPostColumns = "p.id, p.author_id, p.title, p.content, p.like_count, p.created_at, p.updated_at, l.created_at"

// Repo provides like persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new like repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create records that userID likes postID. It reports false when the like
// already existed.
func (r *Repo) Create(ctx context.Context, userID, postID uuid.UUID, at time.Time) (bool, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`INSERT INTO likes (user_id, post_id, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID, at,
	)
	if err != nil {
		return false, postgres.MapError(err, "like", postID)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes a like. It reports false when there was nothing to remove.
func (r *Repo) Delete(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND post_id = $2`,
		userID, postID,
	)
	if err != nil {
		return false, postgres.MapError(err, "like", postID)
	}
	return tag.RowsAffected() == 1, nil
}

// ---------------------------------------------------------------------------
// Feeds
// ---------------------------------------------------------------------------

// ListByLikedAt pages the posts userID liked, most recently liked first.
// The cursor key is (liked_at, post id).
func (r *Repo) ListByLikedAt(ctx context.Context, userID uuid.UUID, after *pagination.Key, n int) ([]domain.LikedPost, error) {
	b := postgres.Keyset(likedBy(userID), "l.created_at", "l.post_id", after, n)
	return r.list(ctx, b)
}

// ListByRecent pages the posts userID liked, newest post first. The cursor
// key is (post created_at, post id).
func (r *Repo) ListByRecent(ctx context.Context, userID uuid.UUID, after *pagination.Key, n int) ([]domain.LikedPost, error) {
	b := postgres.Keyset(likedBy(userID), "p.created_at", "p.id", after, n)
	return r.list(ctx, b)
}

// ListByPopular pages the posts userID liked by like count. like_count
// changes between requests, so this feed is offset-paginated and may skip
// or repeat posts at page boundaries.
func (r *Repo) ListByPopular(ctx context.Context, userID uuid.UUID, offset, n int) ([]domain.LikedPost, error) {
	b := postgres.OffsetPage(likedBy(userID).OrderBy("p.like_count DESC", "p.id DESC"), offset, n)
	return r.list(ctx, b)
}

func likedBy(userID uuid.UUID) sq.SelectBuilder {
	return postgres.Builder.
		Select(likedPostColumns).
		From("likes l").
		Join("posts p ON p.id = l.post_id").
		Where("l.user_id = ?", userID)
}

func (r *Repo) list(ctx context.Context, b sq.SelectBuilder) ([]domain.LikedPost, error) {
	posts, err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), b, scanLikedPost)
	if err != nil {
		return nil, fmt.Errorf("list liked posts: %w", err)
	}
	return posts, nil
}

func scanLikedPost(row pgx.CollectableRow) (domain.LikedPost, error) {
	var lp domain.LikedPost
	p := &lp.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.LikeCount, &p.CreatedAt, &p.UpdatedAt, &lp.LikedAt)
	return lp, err
}
