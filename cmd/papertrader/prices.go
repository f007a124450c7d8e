package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"papertrader/types"
	"strings"

	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type pricesCmd struct {
	symbol string
	ticks  int
	seed   int64
	plain  bool
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "print a seeded price walk" }
func (*pricesCmd) Usage() string {
	return `papertrader [-config <file>] prices [-symbol <ticker>] [-n <ticks>] [-seed <n>]

  Prints the starting prices and the next n ticks of the random walk,
  for every configured symbol or just the one given with -symbol.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "Walk only this ticker.")
	f.IntVar(&c.ticks, "n", 10, "Number of ticks to print.")
	f.Int64Var(&c.seed, "seed", 1, "Seed for the price walk. 0 seeds from the clock.")
	f.BoolVar(&c.plain, "plain", false, "Print the table as plain markdown.")
}

func (c *pricesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer log.Sync()

	var assets []types.Asset
	if c.symbol != "" {
		asset, err := loadAsset(ctx, cfg, c.symbol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		assets = []types.Asset{asset}
	} else {
		assets, err = loadAssets(ctx, cfg, log, false)
		if err != nil {
			log.Error("load assets", zap.Error(err))
			return subcommands.ExitFailure
		}
	}
	_, feed, err := newSession(cfg, assets, c.seed, log)
	if err != nil {
		log.Error("create session", zap.Error(err))
		return subcommands.ExitFailure
	}

	symbols := feed.Symbols()
	var b strings.Builder
	b.WriteString("| Tick | " + strings.Join(symbols, " | ") + " |\n")
	b.WriteString("|---:|" + strings.Repeat("---:|", len(symbols)) + "\n")

	for i := 0; i <= c.ticks; i++ {
		tick := feed.Tick()
		if i > 0 {
			tick = feed.Advance()
		}
		fmt.Fprintf(&b, "| %d |", tick.Seq)
		for _, s := range symbols {
			fmt.Fprintf(&b, " %s (%s) |", types.FormatMoney(tick.Prices[s]), types.FormatPercent(tick.Changes[s]))
		}
		b.WriteString("\n")
	}

	printMarkdown(b.String(), c.plain)
	return subcommands.ExitSuccess
}
