// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/redblue/cliparse"
	"github.com/danielhkuo/redblue/game"
	"github.com/danielhkuo/redblue/hub"
	"github.com/danielhkuo/redblue/middleware"
	"github.com/danielhkuo/redblue/models"
)

// action handles one inbound event from a connected client
type action func(h *SocketHandler, clientID string, data json.RawMessage) error

// actions maps inbound event names to their handlers
var actions = map[string]action{
	models.EventJoinRoom:      joinRoom,
	models.EventRestartGame:   restartGame,
	models.EventVote:          vote,
	models.EventStartRound:    startRound,
	models.EventDeclareWinner: declareWinner,
}

type SocketHandler struct {
	svc      *game.Service
	hub      *hub.Hub
	upgrader websocket.Upgrader
}

func NewSocketHandler(svc *game.Service, h *hub.Hub, cfg cliparse.Config) *SocketHandler {
	return &SocketHandler{
		svc: svc,
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return middleware.OriginAllowed(cfg.AllowedOrigin, r)
			},
		},
	}
}

// Serve handles GET /ws. It runs until the client goes away.
func (h *SocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		slog.Warn("websocket upgrade failed", "remote", middleware.GetClientIP(r), "error", err)
		return
	}

	client := h.hub.Register(conn)
	clientID := client.ID()
	defer func() {
		h.hub.Unregister(clientID)
		h.svc.Disconnect(clientID)
	}()

	h.hub.ToClient(clientID, models.EventConnected, models.ConnectedPayload{ClientID: clientID})

	for {
		msg, err := client.ReadMessage()
		if errors.Is(err, hub.ErrMalformedMessage) {
			slog.Debug("malformed message", "client_id", clientID, "error", err)
			continue
		}
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read failed", "client_id", clientID, "error", err)
			}
			return
		}
		h.dispatch(clientID, msg)
	}
}

// dispatch runs the action for msg. Unknown events and malformed payloads
// are logged and otherwise ignored.
func (h *SocketHandler) dispatch(clientID string, msg models.InboundMessage) {
	act, ok := actions[msg.Event]
	if !ok {
		slog.Debug("unknown event", "client_id", clientID, "event", msg.Event)
		return
	}
	if err := act(h, clientID, msg.Data); err != nil {
		slog.Warn("event rejected", "client_id", clientID, "event", msg.Event, "error", err)
	}
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return errors.New("missing data")
	}
	return json.Unmarshal(data, v)
}

func joinRoom(h *SocketHandler, clientID string, data json.RawMessage) error {
	var req models.JoinRoomRequest
	if err := decode(data, &req); err != nil {
		return err
	}

	err := h.svc.Join(string(req.RoomID), clientID, string(req.Name))
	if errors.Is(err, game.ErrRoomNotFound) {
		h.hub.ToClient(clientID, models.EventError, models.MsgRoomNotFound)
		return nil
	}
	return err
}

func restartGame(h *SocketHandler, clientID string, data json.RawMessage) error {
	var req models.RoomRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	h.svc.RestartGame(string(req.RoomID))
	return nil
}

func vote(h *SocketHandler, clientID string, data json.RawMessage) error {
	var req models.VoteRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	h.svc.Vote(string(req.RoomID), clientID, req.Choice)
	return nil
}

func startRound(h *SocketHandler, clientID string, data json.RawMessage) error {
	var req models.RoomRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	h.svc.StartRound(string(req.RoomID))
	return nil
}

func declareWinner(h *SocketHandler, clientID string, data json.RawMessage) error {
	var req models.RoomRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	h.svc.DeclareWinner(string(req.RoomID))
	return nil
}
