package likes

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
	"github.com/heartmarshall/pocamarket-backend/pkg/ctxutil"
)

// ParseSort maps the sort query parameter. Empty means likedAt.
func ParseSort(raw string) (domain.LikeSort, error) {
	if raw == "" {
		return domain.LikeSortLikedAt, nil
	}
	sort := domain.LikeSort(raw)
	if !sort.IsValid() {
		return "", domain.NewValidationError("sort", "must be one of likedAt, recent, popular")
	}
	return sort, nil
}

// Feed returns one page of the caller's liked posts.
//
// likedAt and recent use key cursors over (liked_at, post_id) and
// (created_at, post_id). popular orders by like count, which changes while a
// client pages, so it uses an offset cursor: a post whose count moves across
// a page boundary between requests can be skipped or shown twice.
func (s *Service) Feed(ctx context.Context, sort domain.LikeSort, req pagination.Request) (pagination.Page[domain.LikedPost], error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return pagination.Page[domain.LikedPost]{}, domain.ErrUnauthorized
	}

	var (
		page pagination.Page[domain.LikedPost]
		err  error
	)

	switch sort {
	case domain.LikeSortLikedAt:
		page, err = pagination.Assemble(ctx, req, keysetFeed(userID, s.likes.ListByLikedAt, likedAtKey))
	case domain.LikeSortRecent:
		page, err = pagination.Assemble(ctx, req, keysetFeed(userID, s.likes.ListByRecent, createdAtKey))
	case domain.LikeSortPopular:
		page, err = pagination.AssembleOffset(ctx, req, pagination.OffsetFeed[domain.LikedPost, domain.LikedPost]{
			Fetch: func(ctx context.Context, offset, n int) ([]domain.LikedPost, error) {
				return s.likes.ListByPopular(ctx, userID, offset, n)
			},
			Enrich: pagination.Identity[domain.LikedPost](),
		})
	default:
		return pagination.Page[domain.LikedPost]{}, domain.NewValidationError("sort", "unknown sort")
	}
	if err != nil {
		return pagination.Page[domain.LikedPost]{}, fmt.Errorf("liked posts by %s: %w", sort, err)
	}
	return page, nil
}

type listFunc func(ctx context.Context, userID uuid.UUID, after *pagination.Key, n int) ([]domain.LikedPost, error)

func keysetFeed(userID uuid.UUID, list listFunc, key func(domain.LikedPost) pagination.Key) pagination.Feed[domain.LikedPost, domain.LikedPost] {
	return pagination.Feed[domain.LikedPost, domain.LikedPost]{
		Fetch: func(ctx context.Context, after *pagination.Key, n int) ([]domain.LikedPost, error) {
			return list(ctx, userID, after, n)
		},
		Key:    key,
		Enrich: pagination.Identity[domain.LikedPost](),
	}
}

func likedAtKey(p domain.LikedPost) pagination.Key   { return pagination.KeyOf(p.LikedAt, p.ID) }
func createdAtKey(p domain.LikedPost) pagination.Key { return pagination.KeyOf(p.CreatedAt, p.ID) }
