// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package game

import (
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/danielhkuo/redblue/models"
)

// DefaultRoundDuration is the delay between startRound and resolution
const DefaultRoundDuration = 10 * time.Second

var ErrRoomNotFound = errors.New("room not found")

// Service is the room state machine. Every operation on a room takes that
// room's lock for its whole read-modify-broadcast sequence, so clients see
// broadcasts for a room in the order its state changed.
type Service struct {
	rooms *Registry
	out   Broadcaster
	rec   Recorder
	timer *RoundTimer
	now   func() time.Time

	roundDuration      time.Duration
	scheduler          Scheduler
	discardStaleRounds bool
}

type Option func(*Service)

// WithRecorder sends finished game facts to rec
func WithRecorder(rec Recorder) Option {
	return func(s *Service) { s.rec = rec }
}

// WithScheduler replaces time.AfterFunc for round timers
func WithScheduler(sched Scheduler) Option {
	return func(s *Service) { s.scheduler = sched }
}

func WithRoundDuration(d time.Duration) Option {
	return func(s *Service) { s.roundDuration = d }
}

// WithDiscardStaleRounds makes a round's timer a no-op once another
// startRound has been issued for the same room
func WithDiscardStaleRounds(discard bool) Option {
	return func(s *Service) { s.discardStaleRounds = discard }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(rooms *Registry, out Broadcaster, opts ...Option) *Service {
	s := &Service{
		rooms:         rooms,
		out:           out,
		rec:           nopRecorder{},
		now:           time.Now,
		roundDuration: DefaultRoundDuration,
		scheduler:     RealScheduler{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.timer = NewRoundTimer(s.scheduler, s.roundDuration)
	return s
}

// Close cancels pending round timers. Used on shutdown only.
func (s *Service) Close() {
	s.timer.Stop()
}

// lockRoom returns the room locked, or false if it does not exist
func (s *Service) lockRoom(roomID string) (*Room, bool) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return nil, false
	}
	room.mu.Lock()
	if room.removed {
		room.mu.Unlock()
		return nil, false
	}
	return room, true
}

// CreateRoom registers an empty room and returns its code
func (s *Service) CreateRoom() (string, error) {
	now := s.now()
	room, err := s.rooms.Create(now)
	if err != nil {
		return "", err
	}
	s.rec.RoomCreated(room.id, now)
	slog.Info("room created", "room_id", room.id)
	return room.id, nil
}

// HasRoom reports whether roomID names a live room
func (s *Service) HasRoom(roomID string) bool {
	room, ok := s.lockRoom(roomID)
	if ok {
		room.mu.Unlock()
	}
	return ok
}

// Join adds the client to the room and broadcasts the new roster.
// This is the only operation that reports a missing room.
func (s *Service) Join(roomID, clientID, name string) error {
	room, ok := s.lockRoom(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	defer room.mu.Unlock()

	if i := room.indexLocked(clientID); i >= 0 {
		// Same connection joining again: keep one entry per identity
		room.players[i].Name = name
	} else {
		room.players = append(room.players, models.Player{
			ID:     clientID,
			Name:   name,
			Choice: models.ChoiceUnset,
			Active: true,
		})
	}
	room.touchLocked(s.now())

	s.out.Subscribe(roomID, clientID)
	s.out.ToRoom(roomID, models.EventPlayerList, room.snapshotLocked())

	slog.Info("player joined", "room_id", roomID, "client_id", clientID, "players", len(room.players))
	return nil
}

// RestartGame reactivates every player and clears their choices
func (s *Service) RestartGame(roomID string) {
	room, ok := s.lockRoom(roomID)
	if !ok {
		return
	}
	defer room.mu.Unlock()

	for i := range room.players {
		room.players[i].Active = true
		room.players[i].Choice = models.ChoiceUnset
	}
	room.touchLocked(s.now())

	// Roster first so clients render the reset before reacting to the restart
	s.out.ToRoom(roomID, models.EventPlayerList, room.snapshotLocked())
	s.out.ToRoom(roomID, models.EventGameRestarted, nil)

	slog.Info("game restarted", "room_id", roomID)
}

// Vote records an active player's choice and shows it to the whole room.
// Votes from unknown or eliminated players are dropped silently.
func (s *Service) Vote(roomID, clientID string, choice models.Choice) {
	room, ok := s.lockRoom(roomID)
	if !ok {
		return
	}
	defer room.mu.Unlock()

	i := room.indexLocked(clientID)
	if i < 0 || !room.players[i].Active {
		slog.Debug("vote ignored", "room_id", roomID, "client_id", clientID)
		return
	}
	room.players[i].Choice = choice
	room.touchLocked(s.now())

	s.out.ToRoom(roomID, models.EventPlayerList, room.snapshotLocked())
}

// StartRound clears choices, announces the round and schedules its
// resolution. A round already in flight is not an error; its timer
// still fires.
func (s *Service) StartRound(roomID string) {
	room, ok := s.lockRoom(roomID)
	if !ok {
		return
	}
	defer room.mu.Unlock()

	for i := range room.players {
		room.players[i].Choice = models.ChoiceUnset
	}
	room.round++
	round := room.round
	room.touchLocked(s.now())

	s.out.ToRoom(roomID, models.EventRoundStarted, nil)

	if !s.timer.Schedule(func() { s.resolveRound(roomID, round) }) {
		slog.Warn("round not scheduled, timer stopped", "room_id", roomID, "round", round)
		return
	}
	slog.Info("round started", "room_id", roomID, "round", round, "resolves_in", s.timer.Delay())
}

// resolveRound runs from the round timer. The majority side is eliminated;
// a tie, including nobody voting, eliminates no one.
func (s *Service) resolveRound(roomID string, round uint64) {
	room, ok := s.lockRoom(roomID)
	if !ok {
		slog.Debug("round resolved for missing room", "room_id", roomID, "round", round)
		return
	}
	defer room.mu.Unlock()

	if s.discardStaleRounds && round != room.round {
		slog.Info("stale round discarded", "room_id", roomID, "round", round, "current", room.round)
		return
	}

	red, blue := tally(room.players)
	loser := losingChoice(red, blue)

	var eliminated []models.Player
	for i := range room.players {
		p := &room.players[i]
		if loser != models.ChoiceUnset && p.Active && p.Choice == loser {
			p.Active = false
			eliminated = append(eliminated, *p)
		}
	}
	for i := range room.players {
		room.players[i].Choice = models.ChoiceUnset
	}
	now := s.now()
	room.touchLocked(now)

	s.out.ToRoom(roomID, models.EventPlayerList, room.snapshotLocked())
	s.out.ToRoom(roomID, models.EventRevealVotes, nil)

	s.rec.RoundResolved(models.RoundResult{
		RoomID:     roomID,
		Round:      round,
		Red:        red,
		Blue:       blue,
		Eliminated: eliminated,
		ResolvedAt: now,
	})

	slog.Info("round resolved",
		"room_id", roomID,
		"round", round,
		"red", red,
		"blue", blue,
		"eliminated", len(eliminated),
	)
}

// DeclareWinner privately notifies every remaining player, then ends the
// game for the room. With nobody left it does nothing at all.
func (s *Service) DeclareWinner(roomID string) {
	room, ok := s.lockRoom(roomID)
	if !ok {
		return
	}
	defer room.mu.Unlock()

	winners := slices.DeleteFunc(room.snapshotLocked(), func(p models.Player) bool {
		return !p.Active
	})
	if len(winners) == 0 {
		return
	}
	now := s.now()
	room.touchLocked(now)

	for _, p := range winners {
		s.out.ToClient(p.ID, models.EventWin, nil)
	}
	s.out.ToRoom(roomID, models.EventGameOver, nil)

	s.rec.WinnersDeclared(roomID, winners, now)
	slog.Info("winners declared", "room_id", roomID, "winners", len(winners))
}

// Disconnect removes the client from every room. Every room gets a fresh
// roster, including rooms the client was never in.
func (s *Service) Disconnect(clientID string) {
	now := s.now()
	for _, room := range s.rooms.Rooms() {
		room.mu.Lock()
		if room.removed {
			room.mu.Unlock()
			continue
		}
		before := len(room.players)
		room.players = slices.DeleteFunc(room.players, func(p models.Player) bool {
			return p.ID == clientID
		})
		if len(room.players) != before {
			room.touchLocked(now)
			slog.Info("player left", "room_id", room.id, "client_id", clientID, "players", len(room.players))
		}
		s.out.ToRoom(room.id, models.EventPlayerList, room.snapshotLocked())
		room.mu.Unlock()
	}
}

// Stats counts live rooms and players
func (s *Service) Stats() (rooms, players int) {
	for _, room := range s.rooms.Rooms() {
		room.mu.Lock()
		if !room.removed {
			rooms++
			players += len(room.players)
		}
		room.mu.Unlock()
	}
	return rooms, players
}
