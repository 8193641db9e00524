// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines wire and domain types shared across the server.

# Envelopes

Every websocket frame is a named event:

	{"event": "vote", "data": {"roomId": "K3Q9Z", "choice": "red"}}

InboundMessage keeps Data as raw JSON so the dispatcher can decode it into
the request type that matches the event name. Envelope is the outbound form.

# Inbound Events

  - joinRoom: JoinRoomRequest (roomId, name)
  - restartGame, startRound, declareWinner: RoomRequest (roomId)
  - vote: VoteRequest (roomId, choice)

# Outbound Events

  - connected: ConnectedPayload, sent once per connection
  - playerList: []Player, broadcast to the room
  - error: string, sent to the caller only ("Room not found")
  - gameRestarted, roundStarted, revealVotes, gameOver: no payload, broadcast
  - win: no payload, sent privately to each remaining player

# Choices

Choice marshals to null when unset. Clients may send any JSON value; only
"red" and "blue" count toward a round's tally.

# Loose Fields

Request fields clients type into (roomId, name, choice) never fail to
decode. Text and Choice take a JSON string as-is, null as "", and any
other value as its compact JSON text:

	{"roomId": "K3Q9Z", "name": 123}  // joins as "123"

# Domain Types

  - Player: id, name, choice, active
  - RoundResult: tallies and eliminated players for one resolved round
*/
package models
