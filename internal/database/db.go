package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// DriverName is the database/sql driver used for PostgreSQL
const DriverName = "postgres"

// PoolConfig holds connection pool settings
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig returns pool settings suited to a small API server
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
	}
}

// DB wraps the sqlx connection pool. Queries are written with ? placeholders
// and rebound to $N before execution.
type DB struct {
	*sqlx.DB
}

// Open connects to PostgreSQL, applies pool settings and verifies the connection
func Open(ctx context.Context, url string, pool PoolConfig) (*DB, error) {
	conn, err := sqlx.Open(DriverName, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(pool.MaxOpenConns)
	conn.SetMaxIdleConns(pool.MaxIdleConns)
	conn.SetConnMaxLifetime(pool.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: conn}, nil
}

// New wraps an existing *sql.DB, mainly for tests backed by sqlmock
func New(db *sql.DB) *DB {
	return &DB{DB: sqlx.NewDb(db, DriverName)}
}

// Close closes the connection pool
func (db *DB) Close() error {
	return db.DB.Close()
}

// ExecContext executes a statement with placeholder rebinding
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.DB.ExecContext(ctx, db.Rebind(query), args...)
}

// GetContext scans a single row into dest with placeholder rebinding
func (db *DB) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return db.DB.GetContext(ctx, dest, db.Rebind(query), args...)
}

// SelectContext scans all rows into dest with placeholder rebinding
func (db *DB) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return db.DB.SelectContext(ctx, dest, db.Rebind(query), args...)
}
