package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"papertrader/types"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const envPrefix = "PAPERTRADER_"

// Feed sources.
const (
	SourceConfig   = "config"
	SourcePostgres = "postgres"
)

type ServerConfig struct {
	Listen string `yaml:"listen"`
	Mode   string `yaml:"mode"` // gin mode: debug, release or test
}

type LedgerConfig struct {
	StartingCash string `yaml:"starting-cash"`
	HistoryLimit int    `yaml:"history-limit"`
	NodeID       int64  `yaml:"node-id"` // snowflake node numbering transactions
}

type AssetConfig struct {
	Ticker string `yaml:"ticker"`
	Name   string `yaml:"name"`
	Price  string `yaml:"price"`
}

type FeedConfig struct {
	Source   string        `yaml:"source"`
	Interval time.Duration `yaml:"interval"`
	MaxMove  string        `yaml:"max-move"`
	Floor    string        `yaml:"floor"`
	Seed     int64         `yaml:"seed"` // 0 seeds from the clock
	Assets   []AssetConfig `yaml:"assets"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	FileName   string `yaml:"file-name"`
	MaxSize    int    `yaml:"max-size"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"`
	Compress   bool   `yaml:"compress"`
	Console    bool   `yaml:"console"`
}

type Config struct {
	AppName  string         `yaml:"app_name"`
	Server   ServerConfig   `yaml:"server"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Feed     FeedConfig     `yaml:"feed"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// Default is the configuration used when no file is given.
func Default() *Config {
	return &Config{
		AppName: "papertrader",
		Server: ServerConfig{
			Listen: ":8080",
			Mode:   "release",
		},
		Ledger: LedgerConfig{
			StartingCash: "10000.00",
			HistoryLimit: 20,
			NodeID:       1,
		},
		Feed: FeedConfig{
			Source:   SourceConfig,
			Interval: 3 * time.Second,
			MaxMove:  "0.02",
			Floor:    "10.00",
			Assets: []AssetConfig{
				{Ticker: "AAPL", Name: "Apple Inc.", Price: "150.00"},
				{Ticker: "GOOGL", Name: "Alphabet Inc.", Price: "2800.00"},
				{Ticker: "MSFT", Name: "Microsoft Corporation", Price: "330.00"},
				{Ticker: "AMZN", Name: "Amazon.com, Inc.", Price: "3300.00"},
				{Ticker: "TSLA", Name: "Tesla, Inc.", Price: "250.00"},
			},
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
			Console:    true,
		},
	}
}

// Load reads path over the defaults, then applies .env and PAPERTRADER_*
// environment overrides, then validates. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var err error
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			n, convErr := cast.ToIntE(v)
			if convErr != nil {
				err = multierr.Append(err, fmt.Errorf("%s%s: %w", envPrefix, key, convErr))
				return
			}
			*dst = n
		}
	}
	setInt64 := func(key string, dst *int64) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			n, convErr := cast.ToInt64E(v)
			if convErr != nil {
				err = multierr.Append(err, fmt.Errorf("%s%s: %w", envPrefix, key, convErr))
				return
			}
			*dst = n
		}
	}

	setString("LISTEN", &c.Server.Listen)
	setString("MODE", &c.Server.Mode)
	setString("STARTING_CASH", &c.Ledger.StartingCash)
	setInt("HISTORY_LIMIT", &c.Ledger.HistoryLimit)
	setInt64("NODE_ID", &c.Ledger.NodeID)
	setString("FEED_SOURCE", &c.Feed.Source)
	setString("FEED_MAX_MOVE", &c.Feed.MaxMove)
	setString("FEED_FLOOR", &c.Feed.Floor)
	setInt64("FEED_SEED", &c.Feed.Seed)
	setString("DATABASE_URL", &c.Database.URL)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LOG_FILE", &c.Log.FileName)

	if v, ok := os.LookupEnv(envPrefix + "FEED_INTERVAL"); ok {
		d, convErr := cast.ToDurationE(v)
		if convErr != nil {
			err = multierr.Append(err, fmt.Errorf("%sFEED_INTERVAL: %w", envPrefix, convErr))
		} else {
			c.Feed.Interval = d
		}
	}
	return err
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var err error

	cash, cashErr := decimal.NewFromString(c.Ledger.StartingCash)
	switch {
	case cashErr != nil:
		err = multierr.Append(err, fmt.Errorf("ledger.starting-cash: %w", cashErr))
	case cash.IsNegative():
		err = multierr.Append(err, errors.New("ledger.starting-cash must not be negative"))
	}
	if c.Ledger.HistoryLimit < 0 {
		err = multierr.Append(err, errors.New("ledger.history-limit must not be negative"))
	}
	if c.Ledger.NodeID < 0 || c.Ledger.NodeID > 1023 {
		err = multierr.Append(err, errors.New("ledger.node-id must be between 0 and 1023"))
	}

	if c.Feed.Interval <= 0 {
		err = multierr.Append(err, errors.New("feed.interval must be positive"))
	}
	maxMove, moveErr := decimal.NewFromString(c.Feed.MaxMove)
	switch {
	case moveErr != nil:
		err = multierr.Append(err, fmt.Errorf("feed.max-move: %w", moveErr))
	case !maxMove.IsPositive() || maxMove.GreaterThanOrEqual(decimal.NewFromInt(1)):
		err = multierr.Append(err, errors.New("feed.max-move must be in (0, 1)"))
	}
	floor, floorErr := decimal.NewFromString(c.Feed.Floor)
	switch {
	case floorErr != nil:
		err = multierr.Append(err, fmt.Errorf("feed.floor: %w", floorErr))
	case !floor.IsPositive():
		err = multierr.Append(err, errors.New("feed.floor must be positive"))
	}

	switch c.Feed.Source {
	case SourceConfig:
		if len(c.Feed.Assets) == 0 {
			err = multierr.Append(err, errors.New("feed.assets must not be empty"))
		}
		seen := make(map[string]bool)
		for i, a := range c.Feed.Assets {
			ticker := strings.TrimSpace(a.Ticker)
			if ticker == "" {
				err = multierr.Append(err, fmt.Errorf("feed.assets[%d]: ticker is required", i))
				continue
			}
			if seen[ticker] {
				err = multierr.Append(err, fmt.Errorf("feed.assets[%d]: duplicate ticker %s", i, ticker))
			}
			seen[ticker] = true
			if p, pErr := decimal.NewFromString(a.Price); pErr != nil || !p.IsPositive() {
				err = multierr.Append(err, fmt.Errorf("feed.assets[%d]: price %q must be a positive number", i, a.Price))
			}
		}
	case SourcePostgres:
		if c.Database.URL == "" {
			err = multierr.Append(err, errors.New("database.url is required when feed.source is postgres"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("feed.source %q must be %s or %s", c.Feed.Source, SourceConfig, SourcePostgres))
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		err = multierr.Append(err, fmt.Errorf("server.mode %q must be debug, release or test", c.Server.Mode))
	}
	return err
}

// StartingCash is the validated starting cash.
func (c *Config) StartingCash() decimal.Decimal {
	return decimal.RequireFromString(c.Ledger.StartingCash)
}

func (c *Config) MaxMove() decimal.Decimal {
	return decimal.RequireFromString(c.Feed.MaxMove)
}

func (c *Config) Floor() decimal.Decimal {
	return decimal.RequireFromString(c.Feed.Floor)
}

// Assets converts the configured universe, trimming and upper-casing tickers.
func (c *Config) Assets() []types.Asset {
	assets := make([]types.Asset, 0, len(c.Feed.Assets))
	for _, a := range c.Feed.Assets {
		ticker := strings.ToUpper(strings.TrimSpace(a.Ticker))
		assets = append(assets, types.NewAsset(ticker, a.Name, decimal.RequireFromString(a.Price)))
	}
	return assets
}

// Asset looks up one configured ticker, ignoring case.
func (c *Config) Asset(ticker string) (types.Asset, bool) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	for _, a := range c.Assets() {
		if a.Ticker == ticker {
			return a, true
		}
	}
	return types.Asset{}, false
}
