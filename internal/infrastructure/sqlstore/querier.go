package sqlstore

import (
	"context"

	"github.com/jmoiron/sqlx"
)

func sqlxGet(ctx context.Context, q Querier, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, q, dest, query, args...)
}

func sqlxSelect(ctx context.Context, q Querier, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, q, dest, query, args...)
}
