package likes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/service/activity"
	"github.com/heartmarshall/pocamarket-backend/pkg/ctxutil"
)

// ToggleResult is the post's like state after a toggle.
type ToggleResult struct {
	PostID    uuid.UUID
	Liked     bool
	LikeCount int
}

// Like marks the post as liked by the caller. Liking twice is a no-op.
// A new like is recorded in the activity feed after the like commits.
func (s *Service) Like(ctx context.Context, postID uuid.UUID) (ToggleResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return ToggleResult{}, domain.ErrUnauthorized
	}

	res := ToggleResult{PostID: postID, Liked: true}
	var created bool

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		post, err := s.posts.GetByID(ctx, postID)
		if err != nil {
			return fmt.Errorf("get post: %w", err)
		}
		res.LikeCount = post.LikeCount

		created, err = s.likes.Create(ctx, userID, postID, s.now().UTC())
		if err != nil {
			return fmt.Errorf("create like: %w", err)
		}
		if !created {
			return nil
		}

		res.LikeCount, err = s.posts.AddLikes(ctx, postID, 1)
		if err != nil {
			return fmt.Errorf("increment likes: %w", err)
		}
		return nil
	})
	if err != nil {
		return ToggleResult{}, err
	}

	if created {
		s.recordLike(ctx, userID, postID)
	}
	return res, nil
}

// Unlike removes the caller's like. Unliking a post that is not liked is a
// no-op.
func (s *Service) Unlike(ctx context.Context, postID uuid.UUID) (ToggleResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return ToggleResult{}, domain.ErrUnauthorized
	}

	res := ToggleResult{PostID: postID}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		post, err := s.posts.GetByID(ctx, postID)
		if err != nil {
			return fmt.Errorf("get post: %w", err)
		}
		res.LikeCount = post.LikeCount

		deleted, err := s.likes.Delete(ctx, userID, postID)
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}
		if !deleted {
			return nil
		}

		res.LikeCount, err = s.posts.AddLikes(ctx, postID, -1)
		if err != nil {
			return fmt.Errorf("decrement likes: %w", err)
		}
		return nil
	})
	if err != nil {
		return ToggleResult{}, err
	}

	return res, nil
}

func (s *Service) recordLike(ctx context.Context, userID, postID uuid.UUID) {
	_, err := s.activity.Record(ctx, activity.RecordInput{
		ActorID:  userID,
		Action:   domain.ActivityPostLiked,
		TargetID: postID,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "record like activity",
			slog.String("post_id", postID.String()),
			slog.String("error", err.Error()),
		)
	}
}
