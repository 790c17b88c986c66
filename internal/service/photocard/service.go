// Package photocard serves the photocard catalog and galmang-poca feeds.
package photocard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
	"github.com/heartmarshall/pocamarket-backend/pkg/ctxutil"
)

type photocardRepo interface {
	ListAfter(ctx context.Context, filter domain.PhotocardFilter, after *pagination.Key, n int) ([]domain.Photocard, error)
	ListGalmangAfter(ctx context.Context, userID uuid.UUID, after *pagination.Key, n int) ([]domain.GalmangPoca, error)
	AddGalmang(ctx context.Context, g domain.GalmangPoca) (*domain.GalmangPoca, error)
}

const maxNoteLength = 300

// Service provides the catalog and wishlist feeds.
type Service struct {
	cards photocardRepo
	log   *slog.Logger
	now   func() time.Time
}

// NewService creates a new photocard service.
func NewService(log *slog.Logger, cards photocardRepo) *Service {
	return &Service{
		cards: cards,
		log:   log.With("service", "photocard"),
		now:   time.Now,
	}
}

// Catalog returns one page of catalog cards, newest first.
func (s *Service) Catalog(ctx context.Context, filter domain.PhotocardFilter, req pagination.Request) (pagination.Page[domain.Photocard], error) {
	filter = normalizeFilter(filter)

	page, err := pagination.Assemble(ctx, req, pagination.Feed[domain.Photocard, domain.Photocard]{
		Fetch: func(ctx context.Context, after *pagination.Key, n int) ([]domain.Photocard, error) {
			return s.cards.ListAfter(ctx, filter, after, n)
		},
		Key:    func(pc domain.Photocard) pagination.Key { return pagination.KeyOf(pc.CreatedAt, pc.ID) },
		Enrich: pagination.Identity[domain.Photocard](),
	})
	if err != nil {
		return pagination.Page[domain.Photocard]{}, fmt.Errorf("photocard catalog: %w", err)
	}
	return page, nil
}

// Galmang returns one page of the photocards userID is looking for. A nil
// userID means the caller.
func (s *Service) Galmang(ctx context.Context, userID *uuid.UUID, req pagination.Request) (pagination.Page[domain.GalmangPoca], error) {
	owner, err := ownerOrCaller(ctx, userID)
	if err != nil {
		return pagination.Page[domain.GalmangPoca]{}, err
	}

	page, err := pagination.Assemble(ctx, req, pagination.Feed[domain.GalmangPoca, domain.GalmangPoca]{
		Fetch: func(ctx context.Context, after *pagination.Key, n int) ([]domain.GalmangPoca, error) {
			return s.cards.ListGalmangAfter(ctx, owner, after, n)
		},
		Key:    func(g domain.GalmangPoca) pagination.Key { return pagination.KeyOf(g.CreatedAt, g.ID) },
		Enrich: pagination.Identity[domain.GalmangPoca](),
	})
	if err != nil {
		return pagination.Page[domain.GalmangPoca]{}, fmt.Errorf("galmang feed: %w", err)
	}
	return page, nil
}

// AddWanted puts a catalog card on the caller's galmang-poca list.
func (s *Service) AddWanted(ctx context.Context, photocardID uuid.UUID, note *string) (*domain.GalmangPoca, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if photocardID == uuid.Nil {
		return nil, domain.NewValidationError("photocard_id", "required")
	}

	note = trimOrNil(note)
	if note != nil && len([]rune(*note)) > maxNoteLength {
		return nil, domain.NewValidationError("note", fmt.Sprintf("max %d characters", maxNoteLength))
	}

	g := domain.GalmangPoca{
		ID:        uuid.New(),
		UserID:    userID,
		Note:      note,
		CreatedAt: s.now().UTC(),
		Photocard: domain.Photocard{ID: photocardID},
	}
	stored, err := s.cards.AddGalmang(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("add galmang: %w", err)
	}

	s.log.InfoContext(ctx, "galmang added",
		slog.String("user_id", userID.String()),
		slog.String("photocard_id", photocardID.String()),
	)
	return stored, nil
}

func ownerOrCaller(ctx context.Context, userID *uuid.UUID) (uuid.UUID, error) {
	if userID != nil && *userID != uuid.Nil {
		return *userID, nil
	}
	caller, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return caller, nil
}

func normalizeFilter(f domain.PhotocardFilter) domain.PhotocardFilter {
	return domain.PhotocardFilter{
		GroupName: normalizeOrNil(f.GroupName),
		Member:    normalizeOrNil(f.Member),
	}
}

// normalizeOrNil applies domain.NormalizeText. Returns nil if the result is
// empty.
func normalizeOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := domain.NormalizeText(*s)
	if t == "" {
		return nil
	}
	return &t
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
