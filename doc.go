// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the redblue game server.

redblue is a realtime party game. Players join a room and vote red or blue
each round; when the round timer runs out, the side with more votes is
eliminated. A tie eliminates nobody. The last players standing win.

# Starting the Server

No configuration is required:

	go run .

Or with flags:

	go run . -p 3000 -round 15s -room-ttl 1h

# Configuration

All settings are optional. Flags win over environment variables, which
can also come from a .env file.

  - PORT (-p): Server port (default: 3000)
  - ROUND_DURATION (-round): Time from startRound to resolution (default: 10s)
  - ROOM_IDLE_TIMEOUT (-room-ttl): Reap empty rooms idle this long (default: never)
  - DISCARD_STALE_ROUNDS (-discard-stale): Ignore timers of superseded rounds
  - ALLOWED_ORIGIN (-origin): CORS and websocket origin (default: *)
  - PUBLIC_URL (-public-url): Base URL for join QR codes
  - DATABASE_URL (-d): Match history database; empty disables history
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)

# Architecture

  - game: Rooms, rounds and elimination
  - hub: Websocket connections and room delivery groups
  - handlers: HTTP and websocket endpoints
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Wire and domain types
  - auth: Room codes and client identities
  - db: Optional match history
  - cliparse: Configuration parsing

Game state lives in memory only and is lost on restart.

See package documentation for each component.
*/
package main
