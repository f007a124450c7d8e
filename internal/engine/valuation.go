package engine

import (
	"papertrader/types"
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Valuate marks every open position in state to prices. It never mutates state.
// A held symbol without a price is carried at its cost basis.
func Valuate(state LedgerState, prices map[string]decimal.Decimal) types.ValuationReport {
	report := types.ValuationReport{
		Cash:              state.Cash,
		TotalValue:        state.Cash,
		TotalUnrealizedPL: decimal.Zero,
		RealizedPL:        state.RealizedPL,
		HoldingsCount:     len(state.Positions),
		Positions:         make([]types.PositionValuation, 0, len(state.Positions)),
	}

	for sym, pos := range state.Positions {
		qty := decimal.NewFromInt(pos.Quantity)
		price, ok := prices[sym]
		if !ok {
			price = pos.AvgCost
		}

		currentValue := qty.Mul(price)
		if !ok {
			currentValue = pos.TotalCost
		}
		unrealized := currentValue.Sub(pos.TotalCost)

		report.Positions = append(report.Positions, types.PositionValuation{
			Symbol:              sym,
			Quantity:            pos.Quantity,
			AvgCost:             pos.AvgCost,
			TotalCost:           pos.TotalCost,
			CurrentPrice:        price,
			CurrentValue:        currentValue,
			UnrealizedPL:        unrealized,
			UnrealizedPLPercent: percentOf(unrealized, pos.TotalCost),
		})
		report.TotalValue = report.TotalValue.Add(currentValue)
		report.TotalUnrealizedPL = report.TotalUnrealizedPL.Add(unrealized)
	}

	sort.Slice(report.Positions, func(i, j int) bool {
		return report.Positions[i].Symbol < report.Positions[j].Symbol
	})
	return report
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
