// Package feed resolves the polymorphic targets of activity entries. Each
// target kind registers one batch loader; a page of entries costs one lookup
// per kind present on the page, never one per entry.
package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
)

// TargetLoader loads snapshots for a batch of target ids. It returns one
// result per key, in key order; a nil Data means the target does not exist.
type TargetLoader = dataloader.BatchFunc[uuid.UUID, *domain.TargetSnapshot]

// Resolver joins activity entries with their targets.
// Register every kind before the first Resolve; Resolve itself is safe for
// concurrent use.
type Resolver struct {
	loaders map[domain.TargetType]TargetLoader
	log     *slog.Logger
}

// NewResolver creates a Resolver with no registered kinds.
func NewResolver(log *slog.Logger) *Resolver {
	return &Resolver{
		loaders: make(map[domain.TargetType]TargetLoader),
		log:     log.With("component", "feed_resolver"),
	}
}

// Register binds a loader to a target kind, replacing any previous one.
func (r *Resolver) Register(kind domain.TargetType, loader TargetLoader) {
	r.loaders[kind] = loader
}

// Kinds reports the registered target kinds.
func (r *Resolver) Kinds() []domain.TargetType {
	kinds := make([]domain.TargetType, 0, len(r.loaders))
	for k := range r.loaders {
		kinds = append(kinds, k)
	}
	return kinds
}

// Resolve enriches a page of entries. Entries whose target is missing, or
// whose kind has no loader, resolve with a nil Target and TargetHref. Any
// loader error fails the whole page.
func (r *Resolver) Resolve(ctx context.Context, entries []domain.ActivityEntry) ([]domain.ResolvedFeedItem, error) {
	byKind := partition(entries)

	snapshots := make(map[domain.TargetType]map[uuid.UUID]*domain.TargetSnapshot, len(byKind))
	for kind, ids := range byKind {
		loader, ok := r.loaders[kind]
		if !ok {
			r.log.WarnContext(ctx, "no loader for target kind", slog.String("kind", string(kind)), slog.Int("entries", len(ids)))
			continue
		}

		found, err := load(ctx, loader, ids)
		if err != nil {
			return nil, fmt.Errorf("resolve %s targets: %w", kind, err)
		}
		snapshots[kind] = found
	}

	items := make([]domain.ResolvedFeedItem, len(entries))
	for i, e := range entries {
		items[i] = domain.ResolvedFeedItem{ActivityEntry: e}
		if snap := snapshots[e.TargetType][e.TargetID]; snap != nil {
			href := snap.Href
			items[i].Target = snap
			items[i].TargetHref = &href
		}
	}
	return items, nil
}

// partition groups distinct target ids by kind, preserving first-seen order.
func partition(entries []domain.ActivityEntry) map[domain.TargetType][]uuid.UUID {
	byKind := make(map[domain.TargetType][]uuid.UUID)
	seen := make(map[domain.TargetType]map[uuid.UUID]struct{})
	for _, e := range entries {
		if seen[e.TargetType] == nil {
			seen[e.TargetType] = make(map[uuid.UUID]struct{})
		}
		if _, dup := seen[e.TargetType][e.TargetID]; dup {
			continue
		}
		seen[e.TargetType][e.TargetID] = struct{}{}
		byKind[e.TargetType] = append(byKind[e.TargetType], e.TargetID)
	}
	return byKind
}

func load(ctx context.Context, loader TargetLoader, ids []uuid.UUID) (map[uuid.UUID]*domain.TargetSnapshot, error) {
	results := loader(ctx, ids)
	if len(results) != len(ids) {
		return nil, fmt.Errorf("loader returned %d results for %d keys", len(results), len(ids))
	}

	out := make(map[uuid.UUID]*domain.TargetSnapshot, len(ids))
	for i, res := range results {
		if res == nil {
			continue
		}
		if res.Error != nil {
			return nil, res.Error
		}
		if res.Data != nil {
			out[ids[i]] = res.Data
		}
	}
	return out, nil
}
