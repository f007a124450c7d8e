package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationReport is a read-only snapshot of the portfolio marked to a set of prices.
type ValuationReport struct {
	Time              time.Time           `json:"time"`
	Cash              decimal.Decimal     `json:"cash"`
	TotalValue        decimal.Decimal     `json:"totalValue"`
	TotalUnrealizedPL decimal.Decimal     `json:"totalUnrealizedPL"`
	RealizedPL        decimal.Decimal     `json:"realizedPL"`
	HoldingsCount     int                 `json:"holdingsCount"`
	Positions         []PositionValuation `json:"positions"`
}

type PositionValuation struct {
	Symbol              string          `json:"symbol"`
	Quantity            int64           `json:"quantity"`
	AvgCost             decimal.Decimal `json:"avgCost"`
	TotalCost           decimal.Decimal `json:"totalCost"`
	CurrentPrice        decimal.Decimal `json:"currentPrice"`
	CurrentValue        decimal.Decimal `json:"currentValue"`
	UnrealizedPL        decimal.Decimal `json:"unrealizedPL"`
	UnrealizedPLPercent decimal.Decimal `json:"unrealizedPLPercent"`
}
