package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps values as JSONB rows in a PostgreSQL table.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresStore opens a pool, verifies it and creates the state table
// when it is missing.
func NewPostgresStore(ctx context.Context, dsn, table string) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("store: postgres driver requires a dsn")
	}
	if strings.TrimSpace(table) == "" {
		table = constants.DefaultStateTable
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("store: postgres parse config: %w", err)
	}
	poolCfg.MaxConnLifetime = 1 * time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("store: postgres create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: postgres ping: %w", err)
	}

	s := &PostgresStore{pool: pool, table: pgx.Identifier{table}.Sanitize()}
	if err := s.ensureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (p *PostgresStore) ensureTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS ` + p.table + ` (
			key        TEXT PRIMARY KEY,
			state      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("store: postgres create table: %w", err)
	}
	return nil
}

// Save upserts key.
func (p *PostgresStore) Save(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO ` + p.table + ` (key, state, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			state      = EXCLUDED.state,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := p.pool.Exec(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("store: postgres save %s: %w", key, err)
	}
	return nil
}

// Load selects key.
func (p *PostgresStore) Load(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT state::text FROM ` + p.table + ` WHERE key = $1`

	var state string
	if err := p.pool.QueryRow(ctx, query, key).Scan(&state); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: postgres load %s: %w", key, err)
	}
	return []byte(state), nil
}

// Delete removes key.
func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM ` + p.table + ` WHERE key = $1`
	if _, err := p.pool.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("store: postgres delete %s: %w", key, err)
	}
	return nil
}

// Ping checks the pool.
func (p *PostgresStore) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("store: postgres health check: %w", err)
	}
	return nil
}

// Close closes the pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
