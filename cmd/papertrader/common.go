package main

import (
	"context"
	"fmt"
	"os"
	"papertrader/internal/config"
	"papertrader/internal/engine"
	"papertrader/internal/logger"
	"papertrader/internal/repository"
	"papertrader/types"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// setup loads the config and builds the logger every subcommand starts from.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}

// loadAssets returns the symbol universe from the config or from Postgres.
func loadAssets(ctx context.Context, cfg *config.Config, log *zap.Logger, migrate bool) ([]types.Asset, error) {
	if cfg.Feed.Source != config.SourcePostgres {
		return cfg.Assets(), nil
	}

	db, err := repository.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if migrate {
		if err := db.Migrate(ctx); err != nil {
			return nil, err
		}
	}
	assets, err := db.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	log.Info("assets loaded from database", zap.Int("count", len(assets)))
	return assets, nil
}

// loadAsset resolves a single ticker from the config or from Postgres.
func loadAsset(ctx context.Context, cfg *config.Config, ticker string) (types.Asset, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if cfg.Feed.Source != config.SourcePostgres {
		if a, ok := cfg.Asset(ticker); ok {
			return a, nil
		}
		return types.Asset{}, fmt.Errorf("ticker %s %w", ticker, repository.ErrAssetNotFound)
	}

	db, err := repository.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		return types.Asset{}, fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	asset, err := db.GetAssetByTicker(ctx, ticker)
	if err != nil {
		return types.Asset{}, err
	}
	return *asset, nil
}

// newSession wires a fresh ledger and a seeded feed. A zero seed uses the clock.
func newSession(cfg *config.Config, assets []types.Asset, seed int64, log *zap.Logger) (*engine.Session, *engine.PriceFeed, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Info("session starting",
		zap.Stringer("cash", cfg.StartingCash()),
		zap.Strings("symbols", types.Tickers(assets)),
		zap.Int64("seed", seed))

	feed := engine.NewPriceFeed(engine.NewFeedConfig(assets, cfg.MaxMove(), cfg.Floor()), engine.NewRandSource(seed))
	ledgerCfg := engine.NewLedgerConfig(cfg.StartingCash(), feed.Symbols(), cfg.Ledger.HistoryLimit).
		WithNodeID(cfg.Ledger.NodeID)
	ledger, err := engine.NewLedger(ledgerCfg)
	if err != nil {
		return nil, nil, err
	}
	return engine.NewSession(ledger, feed, log), feed, nil
}

// printMarkdown renders md for the terminal, or prints it as-is when plain is set
// or rendering fails.
func printMarkdown(md string, plain bool) {
	if plain {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Fprint(os.Stdout, out)
}
