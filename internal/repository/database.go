package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Global error declarations.
var (
	ErrAssetNotFound = errors.New("not found in datasource")
	ErrNoAssets      = errors.New("no assets found in datasource")
)

//go:embed schema.sql
var schema string

type assetsRepository interface {
	GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error)
	ListAssets(ctx context.Context) ([]assetRow, error)
}

// Database struct that holds the database connection and queries.
type Database struct {
	assets assetsRepository
	conn   *pgxpool.Pool
}

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(ctx context.Context, dbURL string) (*Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	conn, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	// Ensure the connection is established.
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return &Database{
		assets: newQueries(conn),
		conn:   conn}, nil
}

// Migrate creates the assets table and seeds the default universe if it is empty.
func (db *Database) Migrate(ctx context.Context) error {
	if _, err := db.conn.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (db *Database) Close() {
	if db.conn != nil {
		db.conn.Close()
	}
}
