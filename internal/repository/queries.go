package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type assetRow struct {
	ID         int32           `db:"id"`
	Ticker     string          `db:"ticker"`
	Name       string          `db:"name"`
	StartPrice decimal.Decimal `db:"start_price"`
	ModifiedAt time.Time       `db:"modified_at"`
}

// dbtx is the subset of *pgxpool.Pool the queries use.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type queries struct {
	db dbtx
}

func newQueries(db dbtx) *queries {
	return &queries{db: db}
}

const getAssetByTicker = `SELECT id, ticker, name, start_price, modified_at
FROM assets
WHERE ticker = $1`

func (q *queries) GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error) {
	var a assetRow
	err := q.db.QueryRow(ctx, getAssetByTicker, ticker).Scan(
		&a.ID,
		&a.Ticker,
		&a.Name,
		&a.StartPrice,
		&a.ModifiedAt,
	)
	return a, err
}

const listAssets = `SELECT id, ticker, name, start_price, modified_at
FROM assets
ORDER BY id`

func (q *queries) ListAssets(ctx context.Context) ([]assetRow, error) {
	rows, err := q.db.Query(ctx, listAssets)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[assetRow])
}
