package engine

import (
	"math/rand"
	"papertrader/types"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const pricePlaces = 4

var two = decimal.NewFromInt(2)

// PriceFeed holds the current price of a fixed set of symbols and moves them
// with a bounded multiplicative random walk on every Advance.
type PriceFeed struct {
	mu       sync.RWMutex
	symbols  []string
	prices   map[string]decimal.Decimal
	previous map[string]decimal.Decimal
	seq      int64
	maxMove  decimal.Decimal
	floor    decimal.Decimal
	rnd      randSource
	now      func() time.Time
}

// NewRandSource returns a deterministic source for the given seed.
func NewRandSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func NewPriceFeed(cfg *FeedConfig, rnd randSource) *PriceFeed {
	f := &PriceFeed{
		symbols:  make([]string, 0, len(cfg.assets)),
		prices:   make(map[string]decimal.Decimal, len(cfg.assets)),
		previous: make(map[string]decimal.Decimal, len(cfg.assets)),
		maxMove:  cfg.maxMove,
		floor:    cfg.floor,
		rnd:      rnd,
		now:      time.Now,
	}
	for _, a := range cfg.assets {
		if _, dup := f.prices[a.Ticker]; dup {
			continue
		}
		f.symbols = append(f.symbols, a.Ticker)
		f.prices[a.Ticker] = a.StartPrice
		f.previous[a.Ticker] = a.StartPrice
	}
	return f
}

// Advance moves every symbol by a uniform draw in [-maxMove, +maxMove) of its
// price and clamps the result at the floor. Symbols are walked in configuration
// order so a seeded source always produces the same path.
func (f *PriceFeed) Advance() types.PriceTick {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sym := range f.symbols {
		change := decimal.NewFromFloat(f.rnd.Float64() - 0.5).Mul(two).Mul(f.maxMove)
		next := f.prices[sym].Mul(decimal.NewFromInt(1).Add(change)).Round(pricePlaces)
		f.previous[sym] = f.prices[sym]
		f.prices[sym] = decimal.Max(next, f.floor)
	}
	f.seq++

	return types.PriceTick{
		Seq:     f.seq,
		Time:    f.now(),
		Prices:  copyPrices(f.prices),
		Changes: f.changesLocked(),
	}
}

// Snapshot returns a copy of the current prices.
func (f *PriceFeed) Snapshot() map[string]decimal.Decimal {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return copyPrices(f.prices)
}

// Tick returns the current state without advancing.
func (f *PriceFeed) Tick() types.PriceTick {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return types.PriceTick{
		Seq:     f.seq,
		Time:    f.now(),
		Prices:  copyPrices(f.prices),
		Changes: f.changesLocked(),
	}
}

func (f *PriceFeed) Price(symbol string) (decimal.Decimal, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.prices[symbol]
	return p, ok
}

// Symbols returns the feed's symbols in configuration order.
func (f *PriceFeed) Symbols() []string {
	return append([]string(nil), f.symbols...)
}

// Changes returns the percentage move of every symbol over the last advance.
func (f *PriceFeed) Changes() map[string]decimal.Decimal {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.changesLocked()
}

func (f *PriceFeed) changesLocked() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(f.prices))
	for sym, p := range f.prices {
		out[sym] = percentOf(p.Sub(f.previous[sym]), f.previous[sym]).Round(2)
	}
	return out
}

func copyPrices(in map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
