// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/redblue/cliparse"
)

// Open connects to the history database named by cfg and creates the schema
func Open(cfg cliparse.Config) (*sql.DB, error) {
	driver, err := driverName(cfg.DatabaseType)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if driver == "sqlite" {
		// One writer at a time; also keeps ":memory:" a single database
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func driverName(dbType string) (string, error) {
	switch dbType {
	case cliparse.DatabaseSQLite, "":
		return "sqlite", nil
	case cliparse.DatabasePostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("unknown database type %q", dbType)
	}
}

// CountRooms returns how many rooms have ever been recorded
func CountRooms(ctx context.Context, db *sql.DB) (int64, error) {
	var n int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM room`).Scan(&n)
	return n, err
}

// CountRounds returns how many rounds have ever been resolved
func CountRounds(ctx context.Context, db *sql.DB) (int64, error) {
	var n int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM round_result`).Scan(&n)
	return n, err
}

// CountWins returns how many winners have ever been declared
func CountWins(ctx context.Context, db *sql.DB) (int64, error) {
	var n int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM winner`).Scan(&n)
	return n, err
}
