package domain

import (
	"time"

	"github.com/google/uuid"
)

// Photocard is a catalog entry describing one printed card.
type Photocard struct {
	ID        uuid.UUID
	GroupName string
	Member    string
	Album     string
	Version   string
	ImageURL  *string
	CreatedAt time.Time
}

// GalmangPoca is a photocard a user is looking for (a wishlist entry).
type GalmangPoca struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Note      *string
	CreatedAt time.Time
	Photocard Photocard
}

// PhotocardFilter narrows the catalog feed.
type PhotocardFilter struct {
	GroupName *string
	Member    *string
}
