package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
)

const (
	senderBatch = 100
	senderWait  = 2 * time.Millisecond
)

// newSenderLoader returns a loader scoped to one request. Its cache
// collapses repeated senders on a page into one key.
func newSenderLoader(users userRepo) *dataloader.Loader[uuid.UUID, *domain.User] {
	return dataloader.NewBatchedLoader(
		senderBatchFn(users),
		dataloader.WithWait[uuid.UUID, *domain.User](senderWait),
		dataloader.WithBatchCapacity[uuid.UUID, *domain.User](senderBatch),
	)
}

func senderBatchFn(users userRepo) dataloader.BatchFunc[uuid.UUID, *domain.User] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*domain.User] {
		found, err := users.GetByIDs(ctx, keys)
		if err != nil {
			results := make([]*dataloader.Result[*domain.User], len(keys))
			for i := range results {
				results[i] = &dataloader.Result[*domain.User]{Error: fmt.Errorf("load senders: %w", err)}
			}
			return results
		}

		byID := make(map[uuid.UUID]*domain.User, len(found))
		for i := range found {
			byID[found[i].ID] = &found[i]
		}

		results := make([]*dataloader.Result[*domain.User], len(keys))
		for i, k := range keys {
			results[i] = &dataloader.Result[*domain.User]{Data: byID[k]}
		}
		return results
	}
}
