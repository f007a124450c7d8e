package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"papertrader/internal/engine"

	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type simulateCmd struct {
	ticks      int
	ordersFile string
	seed       int64
	historyCSV string
	noProgress bool
	plain      bool
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "replay an order script against a seeded price walk" }
func (*simulateCmd) Usage() string {
	return `papertrader [-config <file>] simulate [-ticks <n>] [-orders <file.csv>] [-seed <n>] [-history-csv <file>]

  Runs the ledger headless for a fixed number of ticks. The order script is
  a CSV file with the header "tick,side,symbol,quantity"; tick 0 fills at the
  starting prices. Prints a performance and drawdown report.
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.ticks, "ticks", 100, "Number of price ticks to simulate.")
	f.StringVar(&c.ordersFile, "orders", "", "CSV order script. Without one the portfolio just holds cash.")
	f.Int64Var(&c.seed, "seed", 1, "Seed for the price walk. 0 seeds from the clock.")
	f.StringVar(&c.historyCSV, "history-csv", "", "Write the transaction history to this CSV file.")
	f.BoolVar(&c.noProgress, "no-progress", false, "Hide the progress bar.")
	f.BoolVar(&c.plain, "plain", false, "Print the report as plain markdown.")
}

func (c *simulateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticks < 0 {
		fmt.Fprintln(os.Stderr, "Error: -ticks must not be negative")
		return subcommands.ExitUsageError
	}

	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer log.Sync()

	var orders []engine.ScheduledOrder
	if c.ordersFile != "" {
		orders, err = engine.ReadOrderScriptFile(c.ordersFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading order script %q: %v\n", c.ordersFile, err)
			return subcommands.ExitFailure
		}
	}

	assets, err := loadAssets(ctx, cfg, log, false)
	if err != nil {
		log.Error("load assets", zap.Error(err))
		return subcommands.ExitFailure
	}
	session, feed, err := newSession(cfg, assets, c.seed, log)
	if err != nil {
		log.Error("create session", zap.Error(err))
		return subcommands.ExitFailure
	}

	sim := engine.NewSimulation(
		engine.NewSimulationConfig(c.ticks, orders, !c.noProgress),
		session,
		engine.NewScheduler(feed, log),
		log,
	)
	report, err := sim.Run(ctx)
	if err != nil {
		log.Error("simulation", zap.Error(err))
		return subcommands.ExitFailure
	}
	fmt.Println()

	if c.historyCSV != "" {
		if err := engine.WriteHistoryCSVFile(c.historyCSV, report.History); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing history: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(report.Markdown(), c.plain)
	return subcommands.ExitSuccess
}
