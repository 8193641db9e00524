// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifier generation.

There is no authentication: a player is whoever holds the connection.
What this package guarantees is that identifiers are random and hard to guess.

# Room Codes

Room codes are short upper-case alphanumeric strings players type in:

	code, err := auth.GenerateRoomCode(auth.DefaultRoomCodeLength) // e.g. "K3Q9Z"

Bytes come from crypto/rand with rejection sampling over the 36-character
alphabet. Collisions are checked by the room registry, not here.

# Client IDs

Each websocket connection gets a random UUID:

	id := auth.GenerateClientID()

# Record IDs

Random hex IDs for history rows:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
