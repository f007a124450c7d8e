package engine

import (
	"context"
	"papertrader/types"
	"sort"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// ScheduledOrder is one line of an order script: place Order when the
// simulation reaches Tick. Tick 0 fills against the starting prices.
type ScheduledOrder struct {
	Tick     int        `validate:"gte=0"`
	Side     types.Side `validate:"required,oneof=buy sell"`
	Symbol   string     `validate:"required"`
	Quantity int64
}

func (o ScheduledOrder) Order() types.Order {
	return types.NewOrder(o.Symbol, o.Quantity, o.Side)
}

// Rejection records a scheduled order the ledger refused.
type Rejection struct {
	Tick   int
	Order  types.Order
	Reason string
}

// Simulation replays an order script against a session for a fixed number of
// ticks, valuing the portfolio after every tick.
type Simulation struct {
	cfg       *SimulationConfig
	session   *Session
	scheduler *Scheduler
	log       *zap.Logger
}

func NewSimulation(cfg *SimulationConfig, session *Session, scheduler *Scheduler, log *zap.Logger) *Simulation {
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulation{
		cfg:       cfg,
		session:   session,
		scheduler: scheduler,
		log:       log,
	}
}

func (s *Simulation) Run(ctx context.Context) (*SimulationReport, error) {
	byTick := s.scheduleOrders()

	var bar *progressbar.ProgressBar
	if s.cfg.showProgress {
		bar = initProgressBar(s.cfg.ticks)
	}

	startState := s.session.State()
	valuations := make([]types.ValuationReport, 0, s.cfg.ticks+1)
	var rejections []Rejection
	trades := 0

	for tick := 0; tick <= s.cfg.ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if tick > 0 {
			s.scheduler.Step()
		}

		for _, so := range byTick[tick] {
			if _, err := s.session.ExecuteOrder(so.Order()); err != nil {
				rejections = append(rejections, Rejection{Tick: tick, Order: so.Order(), Reason: err.Error()})
				continue
			}
			trades++
		}

		valuations = append(valuations, s.session.Valuate())
		if bar != nil && tick > 0 {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	report := generateReport(startState, valuations, s.session.History(), trades, rejections)
	s.log.Info("simulation finished",
		zap.Int("ticks", report.Ticks),
		zap.Int("trades", report.TotalTrades),
		zap.Int("rejected", len(report.Rejected)),
		zap.Stringer("net_profit", report.NetProfit))
	return report, nil
}

// scheduleOrders groups the script by tick, keeping script order within a tick.
func (s *Simulation) scheduleOrders() map[int][]ScheduledOrder {
	orders := make([]ScheduledOrder, len(s.cfg.orders))
	copy(orders, s.cfg.orders)
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].Tick < orders[j].Tick })

	byTick := make(map[int][]ScheduledOrder)
	for _, o := range orders {
		if o.Tick > s.cfg.ticks {
			s.log.Warn("order scheduled past the last tick, dropping",
				zap.Int("tick", o.Tick),
				zap.Int("ticks", s.cfg.ticks),
				zap.String("symbol", o.Symbol))
			continue
		}
		byTick[o.Tick] = append(byTick[o.Tick], o)
	}
	return byTick
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Simulating..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
