// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	if err := cliparse.LoadEnvFile(".env"); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadEnvFile is optional; it copies a .env file into the environment
without overriding variables that are already set.

# Config Fields

  - Port: Server listen port (default: 3000)
  - DatabaseURL: Match history database (empty disables history)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - RoundDuration: Time between startRound and resolution (default: 10s)
  - RoomIdleTimeout: Reap empty rooms idle this long (default: 0, never)
  - DiscardStaleRounds: Ignore timers from superseded rounds (default: false)
  - AllowedOrigin: CORS origin (default: *)
  - PublicURL: Base URL for room QR codes (default: request host)

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	-round          Round duration
	-room-ttl       Room idle timeout
	-discard-stale  Discard stale round resolutions
	-origin         CORS allowed origin
	-public-url     Public base URL

# Environment Variables

Flags fall back to environment variables:

	PORT                 → -p
	DATABASE_URL         → -d
	DATABASE_TYPE        → -t
	ROUND_DURATION       → -round
	ROOM_IDLE_TIMEOUT    → -room-ttl
	DISCARD_STALE_ROUNDS → -discard-stale
	ALLOWED_ORIGIN       → -origin
	PUBLIC_URL           → -public-url

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error for malformed durations or booleans, a negative
round duration or idle timeout, and a database type other than sqlite or
postgres. Nothing is required: the defaults run a complete server.
*/
package cliparse
