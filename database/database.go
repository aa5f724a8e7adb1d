package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// Connect sets up the database connection pool and checks it with a ping.
func Connect(ctx context.Context, databaseURL string, logger *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("successfully connected to the database")
	return pool, nil
}

// Close closes the database connection pool.
func Close(pool *pgxpool.Pool, logger *zap.Logger) {
	if pool != nil {
		pool.Close()
		logger.Info("database connection pool closed")
	}
}

// EnsureSchema creates the catalog tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const Schema = `
CREATE TABLE IF NOT EXISTS products (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    brand        TEXT NOT NULL DEFAULT '',
    price        DOUBLE PRECISION NOT NULL CHECK (price >= 0),
    unit         TEXT NOT NULL DEFAULT '',
    category     TEXT,
    is_essential BOOLEAN NOT NULL DEFAULT FALSE,
    image_url    TEXT,
    sort_order   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS coupons (
    id             TEXT PRIMARY KEY,
    code           TEXT NOT NULL UNIQUE,
    description    TEXT NOT NULL DEFAULT '',
    discount_type  TEXT NOT NULL,
    discount_value DOUBLE PRECISION,
    min_purchase   DOUBLE PRECISION NOT NULL DEFAULT 0,
    expiry_date    DATE NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
    user_id TEXT PRIMARY KEY,
    name    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS budget_history (
    user_id TEXT NOT NULL REFERENCES users (user_id),
    month   TEXT NOT NULL,
    budget  DOUBLE PRECISION NOT NULL DEFAULT 0,
    spent   DOUBLE PRECISION NOT NULL DEFAULT 0,
    PRIMARY KEY (user_id, month)
);
`
