// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package game

import (
	"context"
	"log/slog"
	"time"
)

// Reap removes rooms that have no players and no activity since cutoff.
// Timers still pending for a reaped room find it gone and do nothing.
func (s *Service) Reap(cutoff time.Time) []string {
	removed := s.rooms.removeIf(func(room *Room) bool {
		return len(room.players) == 0 && room.lastActive.Before(cutoff)
	})
	for _, id := range removed {
		slog.Info("room reaped", "room_id", id)
	}
	return removed
}

// RunReaper reaps idle empty rooms every idle/2 until ctx is done.
// Rooms live forever unless this is running.
func (s *Service) RunReaper(ctx context.Context, idle time.Duration) {
	if idle <= 0 {
		return
	}

	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Reap(s.now().Add(-idle))
		}
	}
}
