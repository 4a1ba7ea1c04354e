// Package database holds the PostgreSQL side of lead imports: the
// connection pool, schema migrations, the lead and import-history queries,
// and repositories that plug those queries into the core service.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries runs the statements of this package against a DBTX.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to tx.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// PoolConfig mirrors the database section of the application config.
type PoolConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Connect opens a pgx pool and verifies it with a ping.
func Connect(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS searches (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS prospecting_results (
		id          BIGSERIAL PRIMARY KEY,
		search_id   BIGINT NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
		name        TEXT,
		email       TEXT,
		phone       TEXT,
		address     TEXT,
		cidade      TEXT,
		estado      TEXT,
		site        TEXT,
		type        TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_prospecting_results_search_phone
		ON prospecting_results(search_id, phone)`,

	`CREATE TABLE IF NOT EXISTS lead_imports (
		id               UUID PRIMARY KEY,
		search_id        BIGINT NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
		file_name        TEXT NOT NULL,
		format           TEXT NOT NULL,
		imported_leads   INTEGER NOT NULL DEFAULT 0,
		error_leads      INTEGER NOT NULL DEFAULT 0,
		duplicate_leads  INTEGER NOT NULL DEFAULT 0,
		forced_mapping   BOOLEAN NOT NULL DEFAULT FALSE,
		duration_ms      BIGINT NOT NULL DEFAULT 0,
		client_ip        TEXT,
		user_agent       TEXT,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_lead_imports_search_created
		ON lead_imports(search_id, created_at DESC)`,
}

// Migrate creates any missing tables and indexes. Every statement is
// idempotent, so it runs on each startup.
func Migrate(ctx context.Context, db DBTX) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
