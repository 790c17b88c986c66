package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
)

// Builder is the squirrel statement builder for PostgreSQL placeholders.
var Builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Keyset restricts b to rows strictly after the cursor position and orders it
// by (sortCol DESC, idCol DESC). The row-value comparison matches the order
// exactly, so ties on sortCol are broken by idCol.
func Keyset(b sq.SelectBuilder, sortCol, idCol string, after *pagination.Key, n int) sq.SelectBuilder {
	if after != nil {
		b = b.Where(sq.Expr(fmt.Sprintf("(%s, %s) < (?, ?)", sortCol, idCol), after.SortValue, after.ID))
	}
	return b.OrderBy(sortCol+" DESC", idCol+" DESC").Limit(uint64(n))
}

// OffsetPage applies LIMIT/OFFSET. Only for feeds whose order key mutates.
func OffsetPage(b sq.SelectBuilder, offset, n int) sq.SelectBuilder {
	return b.Limit(uint64(n)).Offset(uint64(offset))
}

// Select runs a built query and scans every row with scan.
func Select[T any](ctx context.Context, q Querier, b sq.Sqlizer, scan pgx.RowToFunc[T]) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, scan)
}
