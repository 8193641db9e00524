// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package game

import (
	"slices"
	"sync"
	"time"

	"github.com/danielhkuo/redblue/models"
)

// Room is one game session. All fields are guarded by mu.
type Room struct {
	mu sync.Mutex

	id      string
	players []models.Player // join order

	// host is reserved; nothing assigns it
	host *string

	// round counts StartRound calls; timers carry the value they were
	// scheduled with
	round uint64

	lastActive time.Time
	removed    bool
}

func newRoom(id string, now time.Time) *Room {
	return &Room{
		id:         id,
		players:    []models.Player{},
		lastActive: now,
	}
}

func (r *Room) ID() string {
	return r.id
}

// Host is always nil for now
func (r *Room) Host() *string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.host
}

// Players returns a copy of the roster in join order
func (r *Room) Players() []models.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// snapshotLocked copies the roster so it can be handed to a broadcaster
// after the lock is released
func (r *Room) snapshotLocked() []models.Player {
	return slices.Clone(r.players)
}

func (r *Room) indexLocked(clientID string) int {
	return slices.IndexFunc(r.players, func(p models.Player) bool {
		return p.ID == clientID
	})
}

func (r *Room) touchLocked(now time.Time) {
	if now.After(r.lastActive) {
		r.lastActive = now
	}
}

// tally counts active red and blue voters. Any other choice counts
// toward neither side.
func tally(players []models.Player) (red, blue int) {
	for _, p := range players {
		if !p.Active {
			continue
		}
		switch p.Choice {
		case models.ChoiceRed:
			red++
		case models.ChoiceBlue:
			blue++
		}
	}
	return red, blue
}

// losingChoice returns the side with strictly more votes, or ChoiceUnset
// on a tie (including 0-0). The majority loses.
func losingChoice(red, blue int) models.Choice {
	switch {
	case red > blue:
		return models.ChoiceRed
	case blue > red:
		return models.ChoiceBlue
	default:
		return models.ChoiceUnset
	}
}
