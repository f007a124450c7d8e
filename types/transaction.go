package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an executed order. It is never modified once recorded.
type Transaction struct {
	ID         int64           `json:"id"`
	Time       time.Time       `json:"time"`
	Side       Side            `json:"type"`
	Symbol     string          `json:"symbol"`
	Quantity   int64           `json:"quantity"`
	FillPrice  decimal.Decimal `json:"price"`
	Total      decimal.Decimal `json:"total"`
	RealizedPL decimal.Decimal `json:"realizedPL"`
}

func NewTransaction(
	id int64,
	t time.Time,
	side Side,
	symbol string,
	quantity int64,
	fillPrice decimal.Decimal,
	total decimal.Decimal,
	realizedPL decimal.Decimal,
) Transaction {
	return Transaction{
		ID:         id,
		Time:       t,
		Side:       side,
		Symbol:     symbol,
		Quantity:   quantity,
		FillPrice:  fillPrice,
		Total:      total,
		RealizedPL: realizedPL,
	}
}

// String renders the fill the way it is shown to the user, e.g. "BUY: 10 AAPL @ $150.00".
func (t Transaction) String() string {
	return fmt.Sprintf("%s: %d %s @ %s", strings.ToUpper(string(t.Side)), t.Quantity, t.Symbol, FormatMoney(t.FillPrice))
}
