// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for match history.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is shared by SQLite and PostgreSQL.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	// Rooms. Codes can be reused once a room is reaped, so they are not keys.
	`CREATE TABLE IF NOT EXISTS room (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_room_code ON room(code)`,

	// Resolved rounds
	`CREATE TABLE IF NOT EXISTS round_result (
    id TEXT PRIMARY KEY,
    room_code TEXT NOT NULL,
    round INTEGER NOT NULL,
    red INTEGER NOT NULL,
    blue INTEGER NOT NULL,
    eliminated INTEGER NOT NULL,
    resolved_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_round_result_room_code ON round_result(room_code)`,

	// Players eliminated in a round
	`CREATE TABLE IF NOT EXISTS elimination (
    round_id TEXT NOT NULL REFERENCES round_result(id) ON DELETE CASCADE,
    player_id TEXT NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (round_id, player_id)
)`,

	// Winners, one row per player per declaration
	`CREATE TABLE IF NOT EXISTS winner (
    id TEXT PRIMARY KEY,
    room_code TEXT NOT NULL,
    player_id TEXT NOT NULL,
    name TEXT NOT NULL,
    declared_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_winner_room_code ON winner(room_code)`,
}
