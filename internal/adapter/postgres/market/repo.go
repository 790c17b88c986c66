// Package market implements the Market and Transaction repositories using
// PostgreSQL.
package market

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres"
	"github.com/heartmarshall/pocamarket-backend/internal/domain"
)

const marketColumns = "id, seller_id, photocard_id, title, description, price, status, created_at, updated_at"

// Repo provides market listing persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new market repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByIDs returns the listings that still exist among ids.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Market, error) {
	if len(ids) == 0 {
		return []domain.Market{}, nil
	}

	b := postgres.Builder.Select(marketColumns).From("markets").Where("id = ANY(?)", ids)
	markets, err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), b, scanMarket)
	if err != nil {
		return nil, fmt.Errorf("get markets by ids: %w", err)
	}
	return markets, nil
}

// Create inserts a listing.
func (r *Repo) Create(ctx context.Context, m domain.Market) (*domain.Market, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx,
		`INSERT INTO markets (id, seller_id, photocard_id, title, description, price, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+marketColumns,
		m.ID, m.SellerID, m.PhotocardID, m.Title, m.Description, m.Price, string(m.Status), m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "market", m.ID)
	}

	got, err := pgx.CollectExactlyOneRow(rows, scanMarket)
	if err != nil {
		return nil, postgres.MapError(err, "market", m.ID)
	}
	return &got, nil
}

// UpdateStatus moves a listing to status.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MarketStatus, at time.Time) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`UPDATE markets SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), at,
	)
	if err != nil {
		return postgres.MapError(err, "market", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("market %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanMarket(row pgx.CollectableRow) (domain.Market, error) {
	var (
		m      domain.Market
		status string
	)
	err := row.Scan(&m.ID, &m.SellerID, &m.PhotocardID, &m.Title, &m.Description, &m.Price, &status, &m.CreatedAt, &m.UpdatedAt)
	m.Status = domain.MarketStatus(status)
	return m, err
}
