package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a marketplace member. Accounts are owned by the external auth
// service; this backend only reads display fields.
type User struct {
	ID          uuid.UUID
	Username    string
	DisplayName string
	AvatarURL   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
