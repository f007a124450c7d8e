package engine

import (
	"papertrader/types"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValuate(t *testing.T) {
	tests := []struct {
		name          string
		state         LedgerState
		prices        map[string]decimal.Decimal
		wantValue     string
		wantPL        string
		wantPositions []types.PositionValuation
	}{
		{
			name:          "cash only",
			state:         LedgerState{Cash: dec("10000")},
			prices:        map[string]decimal.Decimal{"AAPL": dec("150")},
			wantValue:     "10000",
			wantPL:        "0",
			wantPositions: []types.PositionValuation{},
		},
		{
			name: "partial sell scenario marked at 170",
			state: LedgerState{
				Cash: dec("7850"),
				Positions: map[string]Position{
					"AAPL": {Symbol: "AAPL", Quantity: 15, AvgCost: dec("155"), TotalCost: dec("2325")},
				},
			},
			prices:    map[string]decimal.Decimal{"AAPL": dec("170")},
			wantValue: "10400",
			wantPL:    "225",
			wantPositions: []types.PositionValuation{
				{
					Symbol: "AAPL", Quantity: 15, AvgCost: dec("155"), TotalCost: dec("2325"),
					CurrentPrice: dec("170"), CurrentValue: dec("2550"),
					UnrealizedPL: dec("225"), UnrealizedPLPercent: dec("9.67741935483871"),
				},
			},
		},
		{
			name: "two positions sorted by symbol, one losing",
			state: LedgerState{
				Cash: dec("1000"),
				Positions: map[string]Position{
					"TSLA": {Symbol: "TSLA", Quantity: 4, AvgCost: dec("250"), TotalCost: dec("1000")},
					"AAPL": {Symbol: "AAPL", Quantity: 10, AvgCost: dec("100"), TotalCost: dec("1000")},
				},
			},
			prices:    map[string]decimal.Decimal{"AAPL": dec("110"), "TSLA": dec("200")},
			wantValue: "2900",
			wantPL:    "-100",
			wantPositions: []types.PositionValuation{
				{
					Symbol: "AAPL", Quantity: 10, AvgCost: dec("100"), TotalCost: dec("1000"),
					CurrentPrice: dec("110"), CurrentValue: dec("1100"),
					UnrealizedPL: dec("100"), UnrealizedPLPercent: dec("10"),
				},
				{
					Symbol: "TSLA", Quantity: 4, AvgCost: dec("250"), TotalCost: dec("1000"),
					CurrentPrice: dec("200"), CurrentValue: dec("800"),
					UnrealizedPL: dec("-200"), UnrealizedPLPercent: dec("-20"),
				},
			},
		},
		{
			name: "missing price carried at cost",
			state: LedgerState{
				Cash: dec("0"),
				Positions: map[string]Position{
					"MSFT": {Symbol: "MSFT", Quantity: 2, AvgCost: dec("330"), TotalCost: dec("660")},
				},
			},
			prices:    map[string]decimal.Decimal{},
			wantValue: "660",
			wantPL:    "0",
			wantPositions: []types.PositionValuation{
				{
					Symbol: "MSFT", Quantity: 2, AvgCost: dec("330"), TotalCost: dec("660"),
					CurrentPrice: dec("330"), CurrentValue: dec("660"),
					UnrealizedPL: dec("0"), UnrealizedPLPercent: dec("0"),
				},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Valuate(tc.state, tc.prices)

			if !got.TotalValue.Equal(dec(tc.wantValue)) {
				t.Fatalf("total value got %s, want %s", got.TotalValue, tc.wantValue)
			}
			if !got.TotalUnrealizedPL.Equal(dec(tc.wantPL)) {
				t.Fatalf("unrealized P&L got %s, want %s", got.TotalUnrealizedPL, tc.wantPL)
			}
			if got.HoldingsCount != len(tc.wantPositions) {
				t.Fatalf("holdings count got %d, want %d", got.HoldingsCount, len(tc.wantPositions))
			}
			if len(got.Positions) != len(tc.wantPositions) {
				t.Fatalf("positions got %+v, want %+v", got.Positions, tc.wantPositions)
			}
			for i, want := range tc.wantPositions {
				p := got.Positions[i]
				if p.Symbol != want.Symbol || p.Quantity != want.Quantity {
					t.Fatalf("position %d: got %s x%d, want %s x%d", i, p.Symbol, p.Quantity, want.Symbol, want.Quantity)
				}
				for _, pair := range [][2]decimal.Decimal{
					{p.CurrentPrice, want.CurrentPrice},
					{p.CurrentValue, want.CurrentValue},
					{p.UnrealizedPL, want.UnrealizedPL},
					{p.UnrealizedPLPercent, want.UnrealizedPLPercent},
				} {
					if !pair[0].Equal(pair[1]) {
						t.Fatalf("%s: got %s, want %s", want.Symbol, pair[0], pair[1])
					}
				}
			}
		})
	}
}

func TestValuateDoesNotMutateState(t *testing.T) {
	l := newTestLedger(t, "10000")
	mustExecute(t, l, buy("AAPL", 10, "150"))
	before := l.State()

	Valuate(l.State(), map[string]decimal.Decimal{"AAPL": dec("1")})

	if !reflect.DeepEqual(before, l.State()) {
		t.Fatalf("valuation changed the ledger")
	}
}
