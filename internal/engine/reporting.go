package engine

import (
	"fmt"
	"papertrader/types"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

type SimulationReport struct {
	Ticks       int
	TotalTrades int
	Rejected    []Rejection

	// Absolute performance
	StartValue    decimal.Decimal
	EndValue      decimal.Decimal
	NetProfit     decimal.Decimal
	ReturnPercent decimal.Decimal
	RealizedPL    decimal.Decimal
	UnrealizedPL  decimal.Decimal

	// Drawdown, measured on the per-tick total value
	MaxDrawdown        decimal.Decimal
	MaxDrawdownPercent decimal.Decimal
	MaxDrawdownTicks   int

	Final      types.ValuationReport
	Valuations []types.ValuationReport
	History    []types.Transaction
}

func generateReport(start LedgerState, valuations []types.ValuationReport, history []types.Transaction, trades int, rejections []Rejection) *SimulationReport {
	report := &SimulationReport{
		TotalTrades: trades,
		Rejected:    rejections,
		StartValue:  start.StartingCash,
		Valuations:  valuations,
		History:     history,
	}
	if len(valuations) == 0 {
		report.EndValue = start.Cash
		return report
	}
	report.Ticks = len(valuations) - 1
	report.Final = valuations[len(valuations)-1]

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		report.EndValue, report.NetProfit, report.ReturnPercent = calcReturnMetrics(start.StartingCash, report.Final, &wg)
	}()
	go func() {
		report.MaxDrawdown, report.MaxDrawdownPercent, report.MaxDrawdownTicks = calcDrawdownMetrics(valuations, &wg)
	}()
	wg.Wait()

	report.RealizedPL = report.Final.RealizedPL
	report.UnrealizedPL = report.Final.TotalUnrealizedPL
	return report
}

func calcReturnMetrics(startValue decimal.Decimal, final types.ValuationReport, wg *sync.WaitGroup) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	defer wg.Done()
	end := final.TotalValue
	net := end.Sub(startValue)
	return end, net, percentOf(net, startValue)
}

// calcDrawdownMetrics returns the largest peak-to-trough fall in total value,
// that fall as a percentage of the peak, and how many ticks separated them.
func calcDrawdownMetrics(valuations []types.ValuationReport, wg *sync.WaitGroup) (decimal.Decimal, decimal.Decimal, int) {
	defer wg.Done()

	if len(valuations) == 0 {
		return decimal.Zero, decimal.Zero, 0
	}

	peak := valuations[0].TotalValue
	peakTick := 0

	maxDD := decimal.Zero
	maxDDPct := decimal.Zero
	maxDDTicks := 0

	for i, v := range valuations {
		equity := v.TotalValue
		if equity.GreaterThan(peak) {
			peak = equity
			peakTick = i
		}

		dd := peak.Sub(equity)
		if dd.GreaterThan(maxDD) {
			maxDD = dd
			maxDDPct = percentOf(dd, peak)
			maxDDTicks = i - peakTick
		}
	}

	return maxDD, maxDDPct, maxDDTicks
}

// Markdown renders the report for a terminal markdown renderer.
func (r *SimulationReport) Markdown() string {
	var b strings.Builder

	b.WriteString("# Simulation Report\n\n")
	fmt.Fprintf(&b, "%d ticks, %d trades, %d rejected\n\n", r.Ticks, r.TotalTrades, len(r.Rejected))

	b.WriteString("## Performance\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Start value | %s |\n", types.FormatMoney(r.StartValue))
	fmt.Fprintf(&b, "| End value | %s |\n", types.FormatMoney(r.EndValue))
	fmt.Fprintf(&b, "| Net profit | %s (%s) |\n", types.FormatMoney(r.NetProfit), types.FormatPercent(r.ReturnPercent))
	fmt.Fprintf(&b, "| Realized P&L | %s |\n", types.FormatMoney(r.RealizedPL))
	fmt.Fprintf(&b, "| Unrealized P&L | %s |\n", types.FormatMoney(r.UnrealizedPL))
	fmt.Fprintf(&b, "| Max drawdown | %s (%s) |\n", types.FormatMoney(r.MaxDrawdown), types.FormatPercent(r.MaxDrawdownPercent))
	fmt.Fprintf(&b, "| Max drawdown length | %d ticks |\n\n", r.MaxDrawdownTicks)

	if len(r.Final.Positions) > 0 {
		b.WriteString("## Open positions\n\n")
		b.WriteString("| Symbol | Qty | Avg cost | Price | Value | Unrealized |\n|---|---:|---:|---:|---:|---:|\n")
		for _, p := range r.Final.Positions {
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s (%s) |\n",
				p.Symbol, p.Quantity,
				types.FormatMoney(p.AvgCost),
				types.FormatMoney(p.CurrentPrice),
				types.FormatMoney(p.CurrentValue),
				types.FormatMoney(p.UnrealizedPL),
				types.FormatPercent(p.UnrealizedPLPercent))
		}
		b.WriteString("\n")
	}

	if len(r.Rejected) > 0 {
		b.WriteString("## Rejected orders\n\n")
		for _, rej := range r.Rejected {
			fmt.Fprintf(&b, "- tick %d: %s %d %s: %s\n", rej.Tick, rej.Order.Side, rej.Order.Quantity, rej.Order.Symbol, rej.Reason)
		}
		b.WriteString("\n")
	}

	if len(r.History) > 0 {
		b.WriteString("## Recent transactions\n\n")
		for _, tx := range r.History {
			fmt.Fprintf(&b, "- %s\n", tx.String())
		}
	}
	return b.String()
}
