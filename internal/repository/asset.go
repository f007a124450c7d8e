package repository

import (
	"context"
	"errors"
	"fmt"
	"papertrader/types"

	"github.com/jackc/pgx/v5"
)

// GetAssetByTicker retrieves a types.Asset by its ticker.
func (db *Database) GetAssetByTicker(ctx context.Context, ticker string) (*types.Asset, error) {
	asset, err := db.assets.GetAssetByTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ticker %s %w", ticker, ErrAssetNotFound)
		}
		return nil, err
	}
	out := toAsset(asset)
	return &out, nil
}

// ListAssets returns the whole symbol universe in insertion order.
func (db *Database) ListAssets(ctx context.Context) ([]types.Asset, error) {
	rows, err := db.assets.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoAssets
	}

	assets := make([]types.Asset, 0, len(rows))
	for _, row := range rows {
		assets = append(assets, toAsset(row))
	}
	return assets, nil
}

func toAsset(row assetRow) types.Asset {
	return types.Asset{
		Id:         int(row.ID),
		Ticker:     row.Ticker,
		Name:       row.Name,
		StartPrice: row.StartPrice,
		ModifiedAt: row.ModifiedAt,
	}
}
