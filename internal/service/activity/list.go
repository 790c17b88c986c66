package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
)

// List returns one page of the activity feed, newest first, with every
// entry joined to its target. A nil actorID lists every actor.
func (s *Service) List(ctx context.Context, actorID *uuid.UUID, req pagination.Request) (pagination.Page[domain.ResolvedFeedItem], error) {
	page, err := pagination.Assemble(ctx, req, pagination.Feed[domain.ActivityEntry, domain.ResolvedFeedItem]{
		Fetch: func(ctx context.Context, after *pagination.Key, n int) ([]domain.ActivityEntry, error) {
			return s.entries.ListAfter(ctx, actorID, after, n)
		},
		Key:    entryKey,
		Enrich: s.resolver.Resolve,
	})
	if err != nil {
		return pagination.Page[domain.ResolvedFeedItem]{}, fmt.Errorf("activity feed: %w", err)
	}

	if missing := countMissing(page.Items); missing > 0 {
		s.log.DebugContext(ctx, "activity page has missing targets",
			slog.Int("items", len(page.Items)),
			slog.Int("missing", missing),
		)
	}

	return page, nil
}

func entryKey(e domain.ActivityEntry) pagination.Key {
	return pagination.KeyOf(e.CreatedAt, e.ID)
}

func countMissing(items []domain.ResolvedFeedItem) int {
	n := 0
	for _, it := range items {
		if it.Target == nil {
			n++
		}
	}
	return n
}
