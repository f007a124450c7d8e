package types

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the single currency every amount in the ledger is denominated in.
const Currency = money.USD

// FormatMoney renders an amount rounded to the currency's minor unit, e.g. "$1,234.50".
func FormatMoney(d decimal.Decimal) string {
	cur := money.GetCurrency(Currency)
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, Currency).Display()
}

// FormatPercent renders a percentage with two decimals, e.g. "-1.25%".
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}
