// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package game

import (
	"sync"
	"time"
)

// Scheduler runs f once after d. The returned stop function cancels the
// call if it has not started and reports whether it did so.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

// RealScheduler is backed by time.AfterFunc
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// RoundTimer schedules one resolution callback per started round.
// Players cannot cancel a round; Stop exists only for server shutdown.
type RoundTimer struct {
	sched Scheduler
	delay time.Duration

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]func() bool
	stopped bool
}

func NewRoundTimer(sched Scheduler, delay time.Duration) *RoundTimer {
	if sched == nil {
		sched = RealScheduler{}
	}
	return &RoundTimer{
		sched:   sched,
		delay:   delay,
		pending: make(map[uint64]func() bool),
	}
}

func (t *RoundTimer) Delay() time.Duration {
	return t.delay
}

// Schedule arranges for fire to run once after the round delay.
// It reports false if the timer has been stopped.
func (t *RoundTimer) Schedule(fire func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return false
	}

	t.nextID++
	id := t.nextID
	t.pending[id] = t.sched.AfterFunc(t.delay, func() {
		t.mu.Lock()
		_, live := t.pending[id]
		delete(t.pending, id)
		t.mu.Unlock()

		if live {
			fire()
		}
	})
	return true
}

// Pending is the number of scheduled callbacks that have not fired
func (t *RoundTimer) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Stop cancels every pending callback and rejects new ones
func (t *RoundTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	for id, stop := range t.pending {
		stop()
		delete(t.pending, id)
	}
}
