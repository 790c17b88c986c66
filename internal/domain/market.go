package domain

import (
	"time"

	"github.com/google/uuid"
)

// Market is a listing offering a photocard for sale or trade.
type Market struct {
	ID          uuid.UUID
	SellerID    uuid.UUID
	PhotocardID uuid.UUID
	Title       string
	Description string
	Price       int64
	Status      MarketStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Href returns the client route of the listing.
func (m *Market) Href() string {
	return "/markets/" + m.ID.String()
}

// Transaction is a trade concluded on a market listing.
type Transaction struct {
	ID          uuid.UUID
	MarketID    uuid.UUID
	BuyerID     uuid.UUID
	SellerID    uuid.UUID
	Status      TransactionStatus
	Price       int64
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Href returns the client route of the transaction.
func (t *Transaction) Href() string {
	return "/transactions/" + t.ID.String()
}
