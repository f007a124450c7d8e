package engine

import (
	"fmt"
	"papertrader/types"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Session binds one Ledger to one price feed. ExecuteOrder reads the fill
// price and runs the ledger's check-then-write under a single lock.
type Session struct {
	mu     sync.Mutex
	ledger *Ledger
	feed   priceSource
	log    *zap.Logger
	now    func() time.Time
}

func NewSession(ledger *Ledger, feed priceSource, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		ledger: ledger,
		feed:   feed,
		log:    log,
		now:    time.Now,
	}
}

// ExecuteOrder fills the order at the feed's current price for its symbol.
func (s *Session) ExecuteOrder(order types.Order) (types.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	price, ok := s.feed.Price(order.Symbol)
	if !ok {
		err := fmt.Errorf("%w: no price for symbol %q", ErrInvalidOrder, order.Symbol)
		s.logRejection(order, err)
		return types.Transaction{}, err
	}

	tx, err := s.ledger.ExecuteOrder(order.Symbol, order.Quantity, order.Side, price)
	if err != nil {
		s.logRejection(order, err)
		return types.Transaction{}, err
	}

	s.log.Info("order filled",
		zap.Int64("id", tx.ID),
		zap.String("side", string(tx.Side)),
		zap.String("symbol", tx.Symbol),
		zap.Int64("quantity", tx.Quantity),
		zap.Stringer("price", tx.FillPrice),
		zap.Stringer("cash", s.ledger.Cash()))
	return tx, nil
}

func (s *Session) logRejection(order types.Order, err error) {
	s.log.Info("order rejected",
		zap.String("side", string(order.Side)),
		zap.String("symbol", order.Symbol),
		zap.Int64("quantity", order.Quantity),
		zap.Error(err))
}

// Valuate marks the ledger to the feed's current snapshot.
func (s *Session) Valuate() types.ValuationReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	report := Valuate(s.ledger.State(), s.feed.Snapshot())
	report.Time = s.now()
	return report
}

func (s *Session) History() []types.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.History()
}

func (s *Session) State() LedgerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.State()
}

func (s *Session) Prices() map[string]decimal.Decimal {
	return s.feed.Snapshot()
}
