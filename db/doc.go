// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db records match history.

Live game state never touches the database. When a history database is
configured, finished facts (rooms created, rounds resolved, winners
declared) are appended by a Recorder and can be counted for /stats.

# Opening

Open picks the driver from the configured type and creates the schema:

	conn, err := db.Open(cfg) // modernc.org/sqlite or github.com/lib/pq
	rec := db.NewRecorder(conn, db.DefaultRecorderBuffer)
	defer rec.Close()

CreateSchema is safe to call multiple times - uses IF NOT EXISTS for all
tables and indexes.

# Tables

  - room: One row per created room
  - round_result: Red/blue tally per resolved round
  - elimination: Players knocked out in a round
  - winner: Players named by declareWinner

# Relationships

	round_result 1──* elimination

Rooms are linked to rounds and winners by code only. Codes can repeat
across reaped rooms.

# Recorder

Recorder methods never block. Writes go through a buffered queue to one
worker goroutine; if the queue is full the write is dropped with a
warning. Close drains the queue.
*/
package db
