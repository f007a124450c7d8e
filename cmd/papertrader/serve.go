package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"papertrader/internal/engine"
	"papertrader/internal/server"
	"syscall"

	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type serveCmd struct {
	seed    int64
	migrate bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the HTTP API and live price stream" }
func (*serveCmd) Usage() string {
	return `papertrader [-config <file>] serve [-seed <n>] [-migrate]

  Starts the trading API and advances prices on the configured interval
  until interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.seed, "seed", 0, "Seed for the price walk. Overrides feed.seed; 0 keeps the configured one.")
	f.BoolVar(&c.migrate, "migrate", false, "Create and seed the assets table first (postgres source only).")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	assets, err := loadAssets(ctx, cfg, log, c.migrate)
	if err != nil {
		log.Error("load assets", zap.Error(err))
		return subcommands.ExitFailure
	}

	seed := cfg.Feed.Seed
	if c.seed != 0 {
		seed = c.seed
	}
	session, feed, err := newSession(cfg, assets, seed, log)
	if err != nil {
		log.Error("create session", zap.Error(err))
		return subcommands.ExitFailure
	}

	srv := server.New(cfg.Server, session, feed, log)
	scheduler := engine.NewScheduler(feed, log)
	scheduler.Subscribe(srv)
	done := scheduler.Start(ctx, cfg.Feed.Interval)

	if err := srv.Run(ctx); err != nil {
		log.Error("server", zap.Error(err))
		stop()
		<-done
		return subcommands.ExitFailure
	}
	<-done
	return subcommands.ExitSuccess
}
