package engine

import (
	"papertrader/types"

	"github.com/shopspring/decimal"
)

// DefaultHistoryLimit is how many transactions a ledger keeps.
const DefaultHistoryLimit = 20

var (
	DefaultMaxMove = decimal.RequireFromString("0.02")
	DefaultFloor   = decimal.RequireFromString("10")
)

type LedgerConfig struct {
	startingCash decimal.Decimal
	symbols      []string
	historyLimit int
	nodeID       int64
}

// NewLedgerConfig describes a fresh ledger. A historyLimit <= 0 means DefaultHistoryLimit.
func NewLedgerConfig(startingCash decimal.Decimal, symbols []string, historyLimit int) *LedgerConfig {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &LedgerConfig{
		startingCash: startingCash,
		symbols:      symbols,
		historyLimit: historyLimit,
	}
}

// WithNodeID sets the snowflake node used to number transactions.
func (c *LedgerConfig) WithNodeID(id int64) *LedgerConfig {
	c.nodeID = id
	return c
}

type FeedConfig struct {
	assets  []types.Asset
	maxMove decimal.Decimal
	floor   decimal.Decimal
}

// NewFeedConfig describes a random-walk feed. maxMove is the largest relative
// move per tick (0.02 = 2%) and floor the lowest price a symbol can reach.
func NewFeedConfig(assets []types.Asset, maxMove, floor decimal.Decimal) *FeedConfig {
	return &FeedConfig{
		assets:  assets,
		maxMove: maxMove,
		floor:   floor,
	}
}

type SimulationConfig struct {
	ticks        int
	orders       []ScheduledOrder
	showProgress bool
}

func NewSimulationConfig(ticks int, orders []ScheduledOrder, showProgress bool) *SimulationConfig {
	return &SimulationConfig{
		ticks:        ticks,
		orders:       orders,
		showProgress: showProgress,
	}
}
