// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package game implements rooms, rounds and elimination.

# Rules

Players join a room and vote "red" or "blue" during timed rounds. When a
round's timer fires, the side with strictly more active voters loses and
all of its players are eliminated. A tie, including a round where nobody
voted, eliminates no one. Choices are cleared after every round, and are
visible to the whole room while voting is open.

# Rooms

A Registry maps five-character room codes to Rooms:

	rooms := game.NewRegistry()
	svc := game.NewService(rooms, hub, game.WithRoundDuration(10*time.Second))
	code, err := svc.CreateRoom()

Rooms are never deleted unless RunReaper is started, in which case empty
rooms idle for longer than the timeout are removed.

# Operations

	Join(roomID, clientID, name) error  → playerList
	RestartGame(roomID)                 → playerList, gameRestarted
	Vote(roomID, clientID, choice)      → playerList
	StartRound(roomID)                  → roundStarted; later playerList, revealVotes
	DeclareWinner(roomID)               → win (each active player), gameOver
	Disconnect(clientID)                → playerList (every room)

Join is the only operation that reports a missing room (ErrRoomNotFound).
Everything else on an unknown room is a silent no-op.

# Concurrency

Each Room has its own mutex. An operation holds it from the first read to
the last broadcast, so a room's broadcasts are emitted in the same order as
its state changes. Different rooms never share a lock. Round timers take
the same lock when they fire.

Broadcaster and Recorder implementations are called with the lock held and
must only enqueue.

# Overlapping Rounds

Calling StartRound twice schedules two timers and both resolve. Set
WithDiscardStaleRounds(true) to make the earlier timer a no-op instead.
*/
package game
