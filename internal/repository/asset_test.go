package repository

import (
	"context"
	"errors"
	"papertrader/types"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type mockAssetsRepository struct {
	sqlError error
	rows     []assetRow
}

func TestDatabase_GetAssetByTicker(t *testing.T) {
	type args struct {
		ticker string
	}
	tests := []struct {
		name    string
		args    args
		want    *types.Asset
		sqlErr  error
		wantErr error
	}{
		{"should throw ErrAssetNotFound", args{"AAPL"}, nil, pgx.ErrNoRows, ErrAssetNotFound},
		{"should pass through other errors", args{"AAPL"}, nil, context.DeadlineExceeded, context.DeadlineExceeded},
		{"should return asset", args{"AAPL"}, &types.Asset{Ticker: "AAPL", Id: 1, StartPrice: decimal.RequireFromString("150")}, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &Database{
				assets: mockAssetsRepository{
					sqlError: tt.sqlErr,
				},
			}
			got, err := db.GetAssetByTicker(context.Background(), tt.args.ticker)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetAssetByTicker() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetAssetByTicker() unexpected error = %v", err)
			}
			if got.Ticker != tt.want.Ticker {
				t.Errorf("GetAssetByTicker() ticker = %v, want %v", got, tt.want)
			}
			if got.Id != tt.want.Id {
				t.Errorf("GetAssetByTicker() id = %v, want %v", got, tt.want)
			}
			if !got.StartPrice.Equal(tt.want.StartPrice) {
				t.Errorf("GetAssetByTicker() start price = %v, want %v", got.StartPrice, tt.want.StartPrice)
			}
		})
	}
}

func TestDatabase_ListAssets(t *testing.T) {
	curTime := time.UnixMilli(1)
	tests := []struct {
		name        string
		rows        []assetRow
		sqlErr      error
		wantTickers []string
		wantErr     error
	}{
		{"empty table", nil, nil, nil, ErrNoAssets},
		{"query error", nil, context.Canceled, nil, context.Canceled},
		{
			"keeps row order",
			[]assetRow{
				{ID: 1, Ticker: "AAPL", StartPrice: decimal.RequireFromString("150"), ModifiedAt: curTime},
				{ID: 2, Ticker: "GOOGL", StartPrice: decimal.RequireFromString("2800"), ModifiedAt: curTime},
			},
			nil,
			[]string{"AAPL", "GOOGL"},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &Database{assets: mockAssetsRepository{sqlError: tt.sqlErr, rows: tt.rows}}
			got, err := db.ListAssets(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ListAssets() error = %v, wantErr %v", err, tt.wantErr)
			}
			tickers := types.Tickers(got)
			if len(tickers) != len(tt.wantTickers) {
				t.Fatalf("ListAssets() tickers = %v, want %v", tickers, tt.wantTickers)
			}
			for i := range tickers {
				if tickers[i] != tt.wantTickers[i] {
					t.Fatalf("ListAssets() tickers = %v, want %v", tickers, tt.wantTickers)
				}
			}
		})
	}
}

func (m mockAssetsRepository) GetAssetByTicker(_ context.Context, ticker string) (assetRow, error) {
	if m.sqlError != nil {
		return assetRow{}, m.sqlError
	}
	curTime := time.UnixMilli(1)
	return assetRow{
		ID:         1,
		Ticker:     ticker,
		Name:       "Apple",
		StartPrice: decimal.RequireFromString("150"),
		ModifiedAt: curTime,
	}, nil
}

func (m mockAssetsRepository) ListAssets(_ context.Context) ([]assetRow, error) {
	if m.sqlError != nil {
		return nil, m.sqlError
	}
	return m.rows, nil
}
