// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/danielhkuo/redblue/auth"
)

// maxCodeAttempts bounds collision retries before Create gives up
const maxCodeAttempts = 64

var ErrNoFreeRoomCode = errors.New("no free room code")

// Registry maps room codes to rooms. The map has its own lock; room state
// is guarded by each Room's mutex. Lock order is always registry, then room.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	codeLen int
	newCode func(length int) (string, error)
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:   make(map[string]*Room),
		codeLen: auth.DefaultRoomCodeLength,
		newCode: auth.GenerateRoomCode,
	}
}

// Create stores an empty room under a fresh code
func (r *Registry) Create(now time.Time) (*Room, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := r.newCode(r.codeLen)
		if err != nil {
			return nil, fmt.Errorf("failed to create room: %w", err)
		}

		r.mu.Lock()
		if _, exists := r.rooms[code]; exists {
			r.mu.Unlock()
			continue
		}
		room := newRoom(code, now)
		r.rooms[code] = room
		r.mu.Unlock()

		return room, nil
	}
	return nil, ErrNoFreeRoomCode
}

// Get looks up a room. A missing room is not an error.
func (r *Registry) Get(id string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	return room, ok
}

// Rooms returns every room currently registered
func (r *Registry) Rooms() []*Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// removeIf deletes every room for which drop returns true. drop runs with
// the room's lock held, and a dropped room is marked so that anyone still
// holding a pointer to it treats it as gone.
func (r *Registry) removeIf(drop func(room *Room) bool) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	for id, room := range r.rooms {
		room.mu.Lock()
		if drop(room) {
			room.removed = true
			delete(r.rooms, id)
			removed = append(removed, id)
		}
		room.mu.Unlock()
	}
	return removed
}
