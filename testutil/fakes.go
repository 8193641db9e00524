// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"sync"
	"time"

	"github.com/danielhkuo/redblue/models"
)

// Delivery kinds recorded by FakeBroadcaster
const (
	KindRoom      = "room"
	KindClient    = "client"
	KindSubscribe = "subscribe"
)

// Sent is one call made on a FakeBroadcaster
type Sent struct {
	Kind    string
	Target  string // room ID for room/subscribe, client ID for client
	Client  string // subscribing client, subscribe only
	Event   string
	Payload any
}

// FakeBroadcaster records every delivery in call order
type FakeBroadcaster struct {
	mu   sync.Mutex
	sent []Sent
}

func NewFakeBroadcaster() *FakeBroadcaster {
	return &FakeBroadcaster{}
}

func (f *FakeBroadcaster) Subscribe(roomID, clientID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, Sent{Kind: KindSubscribe, Target: roomID, Client: clientID})
}

func (f *FakeBroadcaster) ToRoom(roomID, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, Sent{Kind: KindRoom, Target: roomID, Event: event, Payload: payload})
}

func (f *FakeBroadcaster) ToClient(clientID, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, Sent{Kind: KindClient, Target: clientID, Event: event, Payload: payload})
}

// Sent returns a copy of everything recorded so far
func (f *FakeBroadcaster) Sent() []Sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Sent, len(f.sent))
	copy(out, f.sent)
	return out
}

// Reset forgets everything recorded so far
func (f *FakeBroadcaster) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

// RoomEvents lists the event names broadcast to roomID, in order
func (f *FakeBroadcaster) RoomEvents(roomID string) []string {
	var events []string
	for _, s := range f.Sent() {
		if s.Kind == KindRoom && s.Target == roomID {
			events = append(events, s.Event)
		}
	}
	return events
}

// ClientEvents lists the event names sent privately to clientID, in order
func (f *FakeBroadcaster) ClientEvents(clientID string) []string {
	var events []string
	for _, s := range f.Sent() {
		if s.Kind == KindClient && s.Target == clientID {
			events = append(events, s.Event)
		}
	}
	return events
}

// LastPlayerList returns the most recent roster broadcast to roomID
func (f *FakeBroadcaster) LastPlayerList(roomID string) ([]models.Player, bool) {
	sent := f.Sent()
	for i := len(sent) - 1; i >= 0; i-- {
		s := sent[i]
		if s.Kind == KindRoom && s.Target == roomID && s.Event == models.EventPlayerList {
			players, ok := s.Payload.([]models.Player)
			return players, ok
		}
	}
	return nil, false
}

// ManualScheduler holds scheduled callbacks until the test fires them
type ManualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &manualTimer{delay: d, f: f}
	s.timers = append(s.timers, t)

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t.fired || t.stopped {
			return false
		}
		t.stopped = true
		return true
	}
}

// Pending counts callbacks that have neither fired nor been stopped
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// Delays lists the delay of every callback ever scheduled
func (s *ManualScheduler) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.timers))
	for i, t := range s.timers {
		out[i] = t.delay
	}
	return out
}

// FireNext runs the oldest pending callback and reports whether there was one
func (s *ManualScheduler) FireNext() bool {
	s.mu.Lock()
	var next *manualTimer
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			next = t
			break
		}
	}
	if next != nil {
		next.fired = true
	}
	s.mu.Unlock()

	if next == nil {
		return false
	}
	next.f()
	return true
}

// FireAll runs pending callbacks in scheduling order and returns how many ran
func (s *ManualScheduler) FireAll() int {
	n := 0
	for s.FireNext() {
		n++
	}
	return n
}
