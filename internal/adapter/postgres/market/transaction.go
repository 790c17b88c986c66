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

const transactionColumns = "id, market_id, buyer_id, seller_id, status, price, created_at, completed_at"

// TransactionRepo provides transaction persistence backed by PostgreSQL.
type TransactionRepo struct {
	pool *pgxpool.Pool
}

// NewTransactionRepo creates a new transaction repository.
func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// GetByIDs returns the transactions that still exist among ids.
func (r *TransactionRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Transaction, error) {
	if len(ids) == 0 {
		return []domain.Transaction{}, nil
	}

	b := postgres.Builder.Select(transactionColumns).From("transactions").Where("id = ANY(?)", ids)
	txs, err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), b, scanTransaction)
	if err != nil {
		return nil, fmt.Errorf("get transactions by ids: %w", err)
	}
	return txs, nil
}

// Create inserts a pending transaction.
func (r *TransactionRepo) Create(ctx context.Context, t domain.Transaction) (*domain.Transaction, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx,
		`INSERT INTO transactions (id, market_id, buyer_id, seller_id, status, price, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+transactionColumns,
		t.ID, t.MarketID, t.BuyerID, t.SellerID, string(domain.TransactionStatusPending), t.Price, t.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "transaction", t.ID)
	}

	got, err := pgx.CollectExactlyOneRow(rows, scanTransaction)
	if err != nil {
		return nil, postgres.MapError(err, "transaction", t.ID)
	}
	return &got, nil
}

// Complete marks a pending transaction completed. Returns domain.ErrNotFound
// when no pending transaction has that id.
func (r *TransactionRepo) Complete(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Transaction, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx,
		`UPDATE transactions SET status = $2, completed_at = $3
		 WHERE id = $1 AND status = $4
		 RETURNING `+transactionColumns,
		id, string(domain.TransactionStatusCompleted), at, string(domain.TransactionStatusPending),
	)
	if err != nil {
		return nil, postgres.MapError(err, "transaction", id)
	}

	got, err := pgx.CollectExactlyOneRow(rows, scanTransaction)
	if err != nil {
		return nil, postgres.MapError(err, "transaction", id)
	}
	return &got, nil
}

func scanTransaction(row pgx.CollectableRow) (domain.Transaction, error) {
	var (
		t      domain.Transaction
		status string
	)
	err := row.Scan(&t.ID, &t.MarketID, &t.BuyerID, &t.SellerID, &status, &t.Price, &t.CreatedAt, &t.CompletedAt)
	t.Status = domain.TransactionStatus(status)
	return t, err
}
