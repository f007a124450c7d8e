package engine

import (
	"errors"
	"fmt"
	"papertrader/types"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidOrder         = errors.New("invalid order")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
)

// Position is an open holding of one symbol. It only exists while Quantity > 0.
// TotalCost is maintained incrementally and AvgCost is derived from it on buys.
type Position struct {
	Symbol    string
	Quantity  int64
	AvgCost   decimal.Decimal
	TotalCost decimal.Decimal
}

// LedgerState is a copy of everything a Ledger owns.
type LedgerState struct {
	StartingCash decimal.Decimal
	Cash         decimal.Decimal
	RealizedPL   decimal.Decimal
	Positions    map[string]Position
	History      []types.Transaction
}

// Ledger owns cash, open positions and the transaction history of one session.
// It is not safe for concurrent use; Session serializes access to it.
type Ledger struct {
	startingCash decimal.Decimal
	cash         decimal.Decimal
	realizedPL   decimal.Decimal
	positions    map[string]*Position
	history      []types.Transaction
	historyLimit int
	symbols      map[string]struct{}
	ids          *snowflake.Node
	now          func() time.Time
}

func NewLedger(cfg *LedgerConfig) (*Ledger, error) {
	node, err := snowflake.NewNode(cfg.nodeID)
	if err != nil {
		return nil, fmt.Errorf("create transaction id node: %w", err)
	}
	symbols := make(map[string]struct{}, len(cfg.symbols))
	for _, s := range cfg.symbols {
		symbols[s] = struct{}{}
	}
	historyLimit := cfg.historyLimit
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Ledger{
		startingCash: cfg.startingCash,
		cash:         cfg.startingCash,
		positions:    make(map[string]*Position),
		historyLimit: historyLimit,
		symbols:      symbols,
		ids:          node,
		now:          time.Now,
	}, nil
}

// ExecuteOrder fills quantity shares of symbol at fillPrice. Every check runs
// before any state changes, so a rejected order leaves the ledger untouched.
func (l *Ledger) ExecuteOrder(symbol string, quantity int64, side types.Side, fillPrice decimal.Decimal) (types.Transaction, error) {
	if err := l.validate(symbol, quantity, side, fillPrice); err != nil {
		return types.Transaction{}, err
	}

	qty := decimal.NewFromInt(quantity)
	total := fillPrice.Mul(qty)
	realized := decimal.Zero

	switch side {
	case types.SideTypeBuy:
		if total.GreaterThan(l.cash) {
			return types.Transaction{}, fmt.Errorf("%w: buying %d %s costs %s, cash is %s",
				ErrInsufficientFunds, quantity, symbol, total, l.cash)
		}
		l.cash = l.cash.Sub(total)

		pos := l.positions[symbol]
		if pos == nil {
			pos = &Position{Symbol: symbol}
			l.positions[symbol] = pos
		}
		pos.TotalCost = pos.TotalCost.Add(total)
		pos.Quantity += quantity
		pos.AvgCost = pos.TotalCost.Div(decimal.NewFromInt(pos.Quantity))

	case types.SideTypeSell:
		pos := l.positions[symbol]
		if pos == nil || pos.Quantity < quantity {
			held := int64(0)
			if pos != nil {
				held = pos.Quantity
			}
			return types.Transaction{}, fmt.Errorf("%w: selling %d %s, holding %d",
				ErrInsufficientHoldings, quantity, symbol, held)
		}
		costBasis := pos.AvgCost.Mul(qty)
		l.cash = l.cash.Add(total)
		pos.Quantity -= quantity
		// AvgCost stays as it was; the difference to the fill is realized.
		pos.TotalCost = pos.TotalCost.Sub(costBasis)
		realized = total.Sub(costBasis)
		l.realizedPL = l.realizedPL.Add(realized)

		// Any rounding residue left in TotalCost goes with the position.
		if pos.Quantity == 0 {
			delete(l.positions, symbol)
		}
	}

	tx := types.NewTransaction(l.ids.Generate().Int64(), l.now(), side, symbol, quantity, fillPrice, total, realized)
	l.record(tx)
	return tx, nil
}

func (l *Ledger) validate(symbol string, quantity int64, side types.Side, fillPrice decimal.Decimal) error {
	if _, ok := l.symbols[symbol]; !ok {
		return fmt.Errorf("%w: unknown symbol %q", ErrInvalidOrder, symbol)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be a positive integer, got %d", ErrInvalidOrder, quantity)
	}
	if !side.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidOrder, types.ErrUnknownSide)
	}
	if !fillPrice.IsPositive() {
		return fmt.Errorf("%w: fill price must be positive, got %s", ErrInvalidOrder, fillPrice)
	}
	return nil
}

// record prepends tx and drops whatever falls past the history limit.
func (l *Ledger) record(tx types.Transaction) {
	history := make([]types.Transaction, 0, min(len(l.history)+1, l.historyLimit))
	history = append(history, tx)
	for _, old := range l.history {
		if len(history) == l.historyLimit {
			break
		}
		history = append(history, old)
	}
	l.history = history
}

func (l *Ledger) Cash() decimal.Decimal {
	return l.cash
}

func (l *Ledger) RealizedPL() decimal.Decimal {
	return l.realizedPL
}

func (l *Ledger) Position(symbol string) (Position, bool) {
	pos, ok := l.positions[symbol]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// History returns the recorded transactions, newest first.
func (l *Ledger) History() []types.Transaction {
	return append([]types.Transaction(nil), l.history...)
}

func (l *Ledger) State() LedgerState {
	state := LedgerState{
		StartingCash: l.startingCash,
		Cash:         l.cash,
		RealizedPL:   l.realizedPL,
		Positions:    make(map[string]Position, len(l.positions)),
		History:      l.History(),
	}
	for sym, pos := range l.positions {
		state.Positions[sym] = *pos
	}
	return state
}
