package engine

import (
	"papertrader/types"

	"github.com/shopspring/decimal"
)

// randSource yields uniform values in [0, 1). *rand.Rand satisfies it.
type randSource interface {
	Float64() float64
}

type priceSource interface {
	Snapshot() map[string]decimal.Decimal
	Price(symbol string) (decimal.Decimal, bool)
	Advance() types.PriceTick
}

// TickListener is notified after every price advance.
type TickListener interface {
	OnTick(tick types.PriceTick)
}

type TickListenerFunc func(tick types.PriceTick)

func (f TickListenerFunc) OnTick(tick types.PriceTick) { f(tick) }
