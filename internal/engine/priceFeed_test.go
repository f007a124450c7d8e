package engine

import (
	"papertrader/types"
	"reflect"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

// cyclicRand returns its values in order, wrapping around.
type cyclicRand struct {
	values []float64
	i      int
}

func (r *cyclicRand) Float64() float64 {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v
}

func testAssets() []types.Asset {
	return []types.Asset{
		types.NewAsset("AAPL", "Apple", dec("150")),
		types.NewAsset("GOOGL", "Alphabet", dec("2800")),
		types.NewAsset("MSFT", "Microsoft", dec("330")),
		types.NewAsset("AMZN", "Amazon", dec("3300")),
		types.NewAsset("TSLA", "Tesla", dec("250")),
	}
}

func newTestFeed(assets []types.Asset, rnd randSource) *PriceFeed {
	return NewPriceFeed(NewFeedConfig(assets, DefaultMaxMove, DefaultFloor), rnd)
}

func TestPriceFeedStartsAtConfiguredPrices(t *testing.T) {
	f := newTestFeed(testAssets(), &cyclicRand{values: []float64{0.5}})
	snap := f.Snapshot()
	for _, a := range testAssets() {
		if !snap[a.Ticker].Equal(a.StartPrice) {
			t.Fatalf("%s starts at %s, want %s", a.Ticker, snap[a.Ticker], a.StartPrice)
		}
	}
	if got := f.Symbols(); !reflect.DeepEqual(got, []string{"AAPL", "GOOGL", "MSFT", "AMZN", "TSLA"}) {
		t.Fatalf("symbols %v", got)
	}
}

func TestPriceFeedAdvance(t *testing.T) {
	tests := []struct {
		name  string
		draw  float64
		start string
		want  string
	}{
		{"midpoint leaves price unchanged", 0.5, "150", "150"},
		{"lowest draw moves down 2%", 0, "150", "147"},
		{"high draw moves up", 0.75, "200", "202"},
		{"rounded to four places", 0.3, "33.33", "33.0634"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestFeed([]types.Asset{types.NewAsset("AAPL", "", dec(tc.start))}, &cyclicRand{values: []float64{tc.draw}})
			tick := f.Advance()
			if got := tick.Prices["AAPL"]; !got.Equal(dec(tc.want)) {
				t.Fatalf("price after advance %s, want %s", got, tc.want)
			}
			if tick.Seq != 1 {
				t.Fatalf("seq %d, want 1", tick.Seq)
			}
		})
	}
}

func TestPriceFeedMoveIsBounded(t *testing.T) {
	f := newTestFeed(testAssets(), NewRandSource(7))
	limit := DefaultMaxMove.Mul(hundred)
	for i := 0; i < 500; i++ {
		tick := f.Advance()
		for sym, change := range tick.Changes {
			if tick.Prices[sym].Equal(DefaultFloor) {
				continue
			}
			if change.Abs().GreaterThan(limit) {
				t.Fatalf("tick %d: %s moved %s%%", i, sym, change)
			}
		}
	}
}

func TestPriceFeedClampsAtFloor(t *testing.T) {
	f := newTestFeed([]types.Asset{types.NewAsset("PENNY", "", dec("10.30"))}, &cyclicRand{values: []float64{0}})
	f.Advance() // 10.094
	tick := f.Advance()
	if got := tick.Prices["PENNY"]; !got.Equal(DefaultFloor) {
		t.Fatalf("price %s, want floor %s", got, DefaultFloor)
	}
	for i := 0; i < 10; i++ {
		f.Advance()
	}
	if got, _ := f.Price("PENNY"); !got.Equal(DefaultFloor) {
		t.Fatalf("price %s fell through the floor", got)
	}
}

func TestPriceFeedIsDeterministicForSeed(t *testing.T) {
	a := newTestFeed(testAssets(), NewRandSource(42))
	b := newTestFeed(testAssets(), NewRandSource(42))
	c := newTestFeed(testAssets(), NewRandSource(43))

	var diverged bool
	for i := 0; i < 50; i++ {
		ta, tb, tc := a.Advance(), b.Advance(), c.Advance()
		for sym := range ta.Prices {
			if !ta.Prices[sym].Equal(tb.Prices[sym]) {
				t.Fatalf("tick %d: same seed diverged on %s: %s vs %s", i, sym, ta.Prices[sym], tb.Prices[sym])
			}
			if !ta.Prices[sym].Equal(tc.Prices[sym]) {
				diverged = true
			}
		}
	}
	if !diverged {
		t.Fatalf("different seeds produced identical walks")
	}
}

func TestPriceFeedChanges(t *testing.T) {
	f := newTestFeed([]types.Asset{types.NewAsset("AAPL", "", dec("200"))}, &cyclicRand{values: []float64{0.75}})
	if got := f.Changes()["AAPL"]; !got.IsZero() {
		t.Fatalf("change before first tick %s, want 0", got)
	}
	f.Advance()
	if got := f.Changes()["AAPL"]; !got.Equal(dec("1")) {
		t.Fatalf("change %s, want 1", got)
	}
}

func TestPriceFeedSnapshotIsACopy(t *testing.T) {
	f := newTestFeed(testAssets(), &cyclicRand{values: []float64{0.5}})
	snap := f.Snapshot()
	snap["AAPL"] = decimal.Zero
	if p, _ := f.Price("AAPL"); !p.Equal(dec("150")) {
		t.Fatalf("snapshot aliases feed state")
	}
}

func TestPriceFeedConcurrentAccess(t *testing.T) {
	f := newTestFeed(testAssets(), NewRandSource(1))
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			f.Advance()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			f.Snapshot()
			f.Price("AAPL")
		}
	}()
	wg.Wait()
	if f.Tick().Seq != 200 {
		t.Fatalf("seq %d, want 200", f.Tick().Seq)
	}
}
