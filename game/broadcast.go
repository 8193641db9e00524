// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package game

import (
	"time"

	"github.com/danielhkuo/redblue/models"
)

// Broadcaster delivers named events to clients. Implementations must not
// block and must not call back into the Service: every method is invoked
// while a room lock is held.
type Broadcaster interface {
	// Subscribe adds clientID to the room's broadcast group
	Subscribe(roomID, clientID string)
	// ToRoom sends to every client subscribed to roomID
	ToRoom(roomID, event string, payload any)
	// ToClient sends to one client only
	ToClient(clientID, event string, payload any)
}

// Recorder receives finished game facts for the match history.
// Like Broadcaster, it is called under a room lock and must not block.
type Recorder interface {
	RoomCreated(roomID string, at time.Time)
	RoundResolved(result models.RoundResult)
	WinnersDeclared(roomID string, winners []models.Player, at time.Time)
}

type nopRecorder struct{}

func (nopRecorder) RoomCreated(string, time.Time) {}

func (nopRecorder) RoundResolved(models.RoundResult) {}

func (nopRecorder) WinnersDeclared(string, []models.Player, time.Time) {}
