package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
)

// Cleanup deletes entries older than retention. Outstanding cursors stay
// valid: a key cursor is a position, not a reference to a row.
func (s *Service) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, domain.NewValidationError("retention", "must be positive")
	}

	cutoff := s.now().Add(-retention).UTC()
	deleted, err := s.entries.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup activity: %w", err)
	}

	s.log.InfoContext(ctx, "activity cleanup",
		slog.Time("cutoff", cutoff),
		slog.Int64("deleted", deleted),
	)
	return deleted, nil
}
