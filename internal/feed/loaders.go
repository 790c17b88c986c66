package feed

import (
	"context"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
)

const excerptRunes = 140

// ---------------------------------------------------------------------------
// Repository interfaces (consumer-defined)
// ---------------------------------------------------------------------------

type postRepo interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Post, error)
}

type marketRepo interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Market, error)
}

type transactionRepo interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Transaction, error)
}

// ---------------------------------------------------------------------------
// Loaders
// ---------------------------------------------------------------------------

// PostLoader resolves post targets.
func PostLoader(repo postRepo) TargetLoader {
	return batchBy(repo.GetByIDs, func(p domain.Post) (uuid.UUID, *domain.TargetSnapshot) {
		return p.ID, &domain.TargetSnapshot{
			Type:    domain.TargetTypePost,
			ID:      p.ID,
			Title:   p.Title,
			Excerpt: domain.Excerpt(p.Content, excerptRunes),
			Href:    p.Href(),
		}
	})
}

// MarketLoader resolves market listing targets.
func MarketLoader(repo marketRepo) TargetLoader {
	return batchBy(repo.GetByIDs, func(m domain.Market) (uuid.UUID, *domain.TargetSnapshot) {
		return m.ID, &domain.TargetSnapshot{
			Type:    domain.TargetTypeMarket,
			ID:      m.ID,
			Title:   m.Title,
			Excerpt: domain.Excerpt(m.Description, excerptRunes),
			Href:    m.Href(),
		}
	})
}

// TransactionLoader resolves transaction targets. A transaction has no
// title of its own; its status is used instead.
func TransactionLoader(repo transactionRepo) TargetLoader {
	return batchBy(repo.GetByIDs, func(t domain.Transaction) (uuid.UUID, *domain.TargetSnapshot) {
		return t.ID, &domain.TargetSnapshot{
			Type:  domain.TargetTypeTransaction,
			ID:    t.ID,
			Title: "Transaction " + t.Status.String(),
			Href:  t.Href(),
		}
	})
}

// RegisterDefaults registers the post, market and transaction loaders.
func RegisterDefaults(r *Resolver, posts postRepo, markets marketRepo, txs transactionRepo) {
	r.Register(domain.TargetTypePost, PostLoader(posts))
	r.Register(domain.TargetTypeMarket, MarketLoader(markets))
	r.Register(domain.TargetTypeTransaction, TransactionLoader(txs))
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func batchBy[E any](
	get func(context.Context, []uuid.UUID) ([]E, error),
	snapshot func(E) (uuid.UUID, *domain.TargetSnapshot),
) TargetLoader {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*domain.TargetSnapshot] {
		rows, err := get(ctx, keys)
		if err != nil {
			return errorResults[*domain.TargetSnapshot](len(keys), err)
		}

		byID := make(map[uuid.UUID]*domain.TargetSnapshot, len(rows))
		for _, row := range rows {
			id, snap := snapshot(row)
			byID[id] = snap
		}
		return mapResults(keys, byID)
	}
}

// errorResults returns n results all carrying err.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps found values back to key order; missing keys get the zero value.
func mapResults[V any](keys []uuid.UUID, found map[uuid.UUID]V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		results[i] = &dataloader.Result[V]{Data: found[key]}
	}
	return results
}
