package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset is a tradable symbol together with the price the feed starts it at.
type Asset struct {
	Id         int             `json:"id"`
	Ticker     string          `json:"ticker"`
	Name       string          `json:"name"`
	StartPrice decimal.Decimal `json:"startPrice"`
	ModifiedAt time.Time       `json:"modifiedAt"`
}

func NewAsset(ticker, name string, startPrice decimal.Decimal) Asset {
	return Asset{
		Ticker:     ticker,
		Name:       name,
		StartPrice: startPrice,
	}
}

// Tickers returns the ticker of every asset, in order.
func Tickers(assets []Asset) []string {
	out := make([]string, 0, len(assets))
	for _, a := range assets {
		out = append(out, a.Ticker)
	}
	return out
}
