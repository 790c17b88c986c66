// Package photocard implements the photocard catalog and galmang-poca
// (wanted photocards) repositories using PostgreSQL.
package photocard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres"
	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
)

const photocardColumns = "p.id, p.group_name, p.member, p.album, p.version, p.image_url, p.created_at"

// Repo provides photocard persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new photocard repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// ListAfter returns up to n catalog cards strictly after the cursor position,
// newest first. Filter fields match case-insensitively.
func (r *Repo) ListAfter(ctx context.Context, filter domain.PhotocardFilter, after *pagination.Key, n int) ([]domain.Photocard, error) {
	b := postgres.Builder.Select(photocardColumns).From("photocards p")
	if filter.GroupName != nil {
		b = b.Where("lower(p.group_name) = lower(?)", *filter.GroupName)
	}
	if filter.Member != nil {
		b = b.Where("lower(p.member) = lower(?)", *filter.Member)
	}
	b = postgres.Keyset(b, "p.created_at", "p.id", after, n)

	cards, err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), b, scanPhotocard)
	if err != nil {
		return nil, fmt.Errorf("list photocards: %w", err)
	}
	return cards, nil
}

// Create inserts a catalog card.
func (r *Repo) Create(ctx context.Context, pc domain.Photocard) error {
	_, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`INSERT INTO photocards (id, group_name, member, album, version, image_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		pc.ID, pc.GroupName, pc.Member, pc.Album, pc.Version, pc.ImageURL, pc.CreatedAt,
	)
	return postgres.MapError(err, "photocard", pc.ID)
}

// ---------------------------------------------------------------------------
// Galmang-poca
// ---------------------------------------------------------------------------

// ListGalmangAfter returns up to n wanted photocards of userID strictly after
// the cursor position, most recently added first.
func (r *Repo) ListGalmangAfter(ctx context.Context, userID uuid.UUID, after *pagination.Key, n int) ([]domain.GalmangPoca, error) {
	b := postgres.Builder.
		Select("g.id, g.user_id, g.note, g.created_at, " + photocardColumns).
		From("galmang_pocas g").
		Join("photocards p ON p.id = g.photocard_id").
		Where("g.user_id = ?", userID)
	b = postgres.Keyset(b, "g.created_at", "g.id", after, n)

	items, err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), b, scanGalmang)
	if err != nil {
		return nil, fmt.Errorf("list galmang pocas: %w", err)
	}
	return items, nil
}

// AddGalmang marks a photocard as wanted by a user and returns the stored
// entry joined with its catalog card. Returns domain.ErrAlreadyExists when it
// is already on the list and domain.ErrNotFound for an unknown photocard.
func (r *Repo) AddGalmang(ctx context.Context, g domain.GalmangPoca) (*domain.GalmangPoca, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx,
		`WITH g AS (
			INSERT INTO galmang_pocas (id, user_id, photocard_id, note, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, user_id, photocard_id, note, created_at
		 )
		 SELECT g.id, g.user_id, g.note, g.created_at, `+photocardColumns+`
		 FROM g JOIN photocards p ON p.id = g.photocard_id`,
		g.ID, g.UserID, g.Photocard.ID, g.Note, g.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "galmang_poca", g.ID)
	}
	stored, err := pgx.CollectExactlyOneRow(rows, scanGalmang)
	if err != nil {
		return nil, postgres.MapError(err, "galmang_poca", g.ID)
	}
	return &stored, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanPhotocard(row pgx.CollectableRow) (domain.Photocard, error) {
	var pc domain.Photocard
	err := row.Scan(&pc.ID, &pc.GroupName, &pc.Member, &pc.Album, &pc.Version, &pc.ImageURL, &pc.CreatedAt)
	return pc, err
}

func scanGalmang(row pgx.CollectableRow) (domain.GalmangPoca, error) {
	var g domain.GalmangPoca
	pc := &g.Photocard
	err := row.Scan(
		&g.ID, &g.UserID, &g.Note, &g.CreatedAt,
		&pc.ID, &pc.GroupName, &pc.Member, &pc.Album, &pc.Version, &pc.ImageURL, &pc.CreatedAt,
	)
	return g, err
}
