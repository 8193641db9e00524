// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/redblue/auth"
	"github.com/danielhkuo/redblue/models"
)

const (
	// DefaultRecorderBuffer is the number of writes queued before new ones are dropped
	DefaultRecorderBuffer = 256

	writeTimeout = 5 * time.Second

	recordIDBytes = 16
)

type job struct {
	name string
	run  func(ctx context.Context, db *sql.DB) error
}

// Recorder writes match history in the background. Its methods are called
// while a room is locked, so they only enqueue; a single worker performs
// the writes in order. When the queue is full the write is dropped.
type Recorder struct {
	db   *sql.DB
	jobs chan job
	done chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewRecorder(db *sql.DB, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = DefaultRecorderBuffer
	}
	r := &Recorder{
		db:   db,
		jobs: make(chan job, buffer),
		done: make(chan struct{}),
	}
	go r.run()
	return r
}

// RoomCreated records a new room
func (r *Recorder) RoomCreated(roomID string, at time.Time) {
	r.enqueue(job{name: "room", run: func(ctx context.Context, db *sql.DB) error {
		id, err := auth.GenerateID(recordIDBytes)
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx, `
			INSERT INTO room (id, code, created_at)
			VALUES ($1, $2, $3)
		`, id, roomID, at)
		return err
	}})
}

// RoundResolved records a round's tally and who it eliminated
func (r *Recorder) RoundResolved(result models.RoundResult) {
	r.enqueue(job{name: "round", run: func(ctx context.Context, db *sql.DB) error {
		id, err := auth.GenerateID(recordIDBytes)
		if err != nil {
			return err
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		_, err = tx.ExecContext(ctx, `
			INSERT INTO round_result (id, room_code, round, red, blue, eliminated, resolved_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, result.RoomID, int64(result.Round), result.Red, result.Blue, len(result.Eliminated), result.ResolvedAt)
		if err != nil {
			return err
		}

		for _, p := range result.Eliminated {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO elimination (round_id, player_id, name)
				VALUES ($1, $2, $3)
			`, id, p.ID, p.Name)
			if err != nil {
				return err
			}
		}
		return tx.Commit()
	}})
}

// WinnersDeclared records one row per winner
func (r *Recorder) WinnersDeclared(roomID string, winners []models.Player, at time.Time) {
	rows := make([]models.Player, len(winners))
	copy(rows, winners)

	r.enqueue(job{name: "winners", run: func(ctx context.Context, db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		for _, p := range rows {
			id, err := auth.GenerateID(recordIDBytes)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO winner (id, room_code, player_id, name, declared_at)
				VALUES ($1, $2, $3, $4, $5)
			`, id, roomID, p.ID, p.Name, at)
			if err != nil {
				return err
			}
		}
		return tx.Commit()
	}})
}

// Close stops accepting writes and waits for queued ones to finish
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.jobs)
	r.mu.Unlock()

	<-r.done
}

func (r *Recorder) enqueue(j job) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		slog.Warn("history recorder closed, dropping write", "kind", j.name)
		return
	}
	select {
	case r.jobs <- j:
	default:
		slog.Warn("history queue full, dropping write", "kind", j.name)
	}
}

func (r *Recorder) run() {
	defer close(r.done)

	for j := range r.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := j.run(ctx, r.db); err != nil {
			slog.Error("failed to record history", "kind", j.name, "error", err)
		}
		cancel()
	}
}
