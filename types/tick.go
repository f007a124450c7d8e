package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceTick is the state of the feed right after one advance.
// Changes holds the percentage move of each symbol since the previous tick.
type PriceTick struct {
	Seq     int64                      `json:"seq"`
	Time    time.Time                  `json:"time"`
	Prices  map[string]decimal.Decimal `json:"prices"`
	Changes map[string]decimal.Decimal `json:"changes"`
}
