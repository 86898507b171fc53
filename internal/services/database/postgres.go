package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listTablesSQL = `
	SELECT table_name FROM information_schema.tables
	WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
	ORDER BY table_name`

// PostgresConnector connects to PostgreSQL through a small pgx pool. Tables in
// the current schema stand in for collections.
type PostgresConnector struct{}

// NewPostgresConnector creates a new Postgres connector.
func NewPostgresConnector() *PostgresConnector {
	return &PostgresConnector{}
}

// Connect creates the pool and pings it.
func (p *PostgresConnector) Connect(ctx context.Context, opts ConnectOptions) (Connection, error) {
	poolConfig, err := postgresPoolConfig(opts)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &postgresConnection{pool: pool, database: poolConfig.ConnConfig.Database}, nil
}

func postgresPoolConfig(opts ConnectOptions) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(opts.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// A frozen Lambda holds connections idle, keep the pool small
	poolConfig.MaxConns = 3
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	if opts.Auth != nil {
		poolConfig.ConnConfig.User = opts.Auth.Username
		poolConfig.ConnConfig.Password = opts.Auth.Password
	}

	return poolConfig, nil
}

type postgresConnection struct {
	pool     *pgxpool.Pool
	database string
}

func (c *postgresConnection) Driver() string   { return DriverPostgres }
func (c *postgresConnection) Database() string { return c.database }

func (c *postgresConnection) ListCollectionNames(ctx context.Context) ([]string, error) {
	rows, err := c.pool.Query(ctx, listTablesSQL)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (c *postgresConnection) Close(ctx context.Context) error {
	c.pool.Close()
	return nil
}
