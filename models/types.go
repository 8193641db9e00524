package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// MsgRoomNotFound is the error payload sent when joinRoom names an unknown room
const MsgRoomNotFound = "Room not found"

// Vote choices
const (
	ChoiceUnset Choice = ""
	ChoiceRed   Choice = "red"
	ChoiceBlue  Choice = "blue"
)

// Inbound event names
const (
	EventJoinRoom      = "joinRoom"
	EventRestartGame   = "restartGame"
	EventVote          = "vote"
	EventStartRound    = "startRound"
	EventDeclareWinner = "declareWinner"
)

// Outbound event names
const (
	EventConnected     = "connected"
	EventPlayerList    = "playerList"
	EventError         = "error"
	EventGameRestarted = "gameRestarted"
	EventRoundStarted  = "roundStarted"
	EventRevealVotes   = "revealVotes"
	EventWin           = "win"
	EventGameOver      = "gameOver"
)

// Choice is a player's vote for the current round. Any string is accepted
// from clients; only ChoiceRed and ChoiceBlue are ever tallied.
type Choice string

// MarshalJSON encodes an unset choice as null so clients can tell
// "has not voted" apart from a real value.
func (c Choice) MarshalJSON() ([]byte, error) {
	if c == ChoiceUnset {
		return []byte("null"), nil
	}
	return json.Marshal(string(c))
}

// UnmarshalJSON accepts any JSON value. See Text.
func (c *Choice) UnmarshalJSON(data []byte) error {
	*c = Choice(looseString(data))
	return nil
}

// Text is a client-supplied string field that is never rejected. A JSON
// string decodes to its contents, null to "", and any other value to its
// compact JSON text.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	*t = Text(looseString(data))
	return nil
}

func looseString(data []byte) string {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return string(data)
	}
	return buf.String()
}

// Domain types

type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Choice Choice `json:"choice"`
	Active bool   `json:"active"`
}

// RoundResult is the outcome of one resolved round
type RoundResult struct {
	RoomID     string    `json:"room_id"`
	Round      uint64    `json:"round"`
	Red        int       `json:"red"`
	Blue       int       `json:"blue"`
	Eliminated []Player  `json:"eliminated"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Wire envelopes

// Envelope is a named message sent to a client
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// InboundMessage is a named message received from a client.
// Data is decoded lazily once the event name is known.
type InboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Request types

type JoinRoomRequest struct {
	RoomID Text `json:"roomId"`
	Name   Text `json:"name"`
}

type RoomRequest struct {
	RoomID Text `json:"roomId"`
}

type VoteRequest struct {
	RoomID Text   `json:"roomId"`
	Choice Choice `json:"choice"`
}

// Response types

type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
}

type ConnectedPayload struct {
	ClientID string `json:"id"`
}

type StatsResponse struct {
	Rooms          int    `json:"rooms"`
	Players        int    `json:"players"`
	Clients        int    `json:"clients"`
	RecordedRooms  *int64 `json:"recorded_rooms,omitempty"`
	RecordedRounds *int64 `json:"recorded_rounds,omitempty"`
	RecordedWins   *int64 `json:"recorded_wins,omitempty"`
	Started        string `json:"started"`
	Summary        string `json:"summary"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
