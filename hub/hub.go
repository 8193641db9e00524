// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/redblue/auth"
	"github.com/danielhkuo/redblue/models"
)

const (
	// DefaultSendBuffer is the number of outbound messages queued per client
	DefaultSendBuffer = 64

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
)

// ErrMalformedMessage wraps frames that are not a JSON envelope.
// The connection is still usable after it.
var ErrMalformedMessage = errors.New("malformed message")

// Client is one websocket connection
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func (c *Client) ID() string {
	return c.id
}

// ReadMessage blocks until the next inbound envelope arrives.
// Any error other than ErrMalformedMessage means the connection is finished.
func (c *Client) ReadMessage() (models.InboundMessage, error) {
	var msg models.InboundMessage
	_, raw, err := c.conn.ReadMessage()
	if err != nil {
		return msg, err
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return msg, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return msg, nil
}

// Hub tracks live connections and which rooms each one listens to.
// It implements game.Broadcaster; sends never block.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client
	groups     map[string]map[string]struct{} // room ID -> client IDs
	sendBuffer int
}

func New(sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	return &Hub{
		clients:    make(map[string]*Client),
		groups:     make(map[string]map[string]struct{}),
		sendBuffer: sendBuffer,
	}
}

// Register assigns the connection a fresh client ID and starts its writer
func (h *Hub) Register(conn *websocket.Conn) *Client {
	c := &Client{
		id:   auth.GenerateClientID(),
		conn: conn,
		send: make(chan []byte, h.sendBuffer),
	}

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	go c.writePump()

	slog.Info("client connected", "client_id", c.id, "remote", conn.RemoteAddr().String())
	return c
}

// Unregister forgets the client, removes it from every room group and
// closes its connection once queued messages are flushed
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[clientID]
	if !ok {
		return
	}
	delete(h.clients, clientID)
	for roomID, members := range h.groups {
		delete(members, clientID)
		if len(members) == 0 {
			delete(h.groups, roomID)
		}
	}
	close(c.send)

	slog.Info("client disconnected", "client_id", clientID)
}

// Subscribe adds the client to the room's delivery group
func (h *Hub) Subscribe(roomID, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[clientID]; !ok {
		return
	}
	members, ok := h.groups[roomID]
	if !ok {
		members = make(map[string]struct{})
		h.groups[roomID] = members
	}
	members[clientID] = struct{}{}
}

// ToRoom queues the event for every client subscribed to roomID
func (h *Hub) ToRoom(roomID, event string, payload any) {
	msg, err := encode(event, payload)
	if err != nil {
		slog.Error("failed to encode event", "event", event, "room_id", roomID, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for clientID := range h.groups[roomID] {
		h.enqueueLocked(clientID, event, msg)
	}
}

// ToClient queues the event for a single client
func (h *Hub) ToClient(clientID, event string, payload any) {
	msg, err := encode(event, payload)
	if err != nil {
		slog.Error("failed to encode event", "event", event, "client_id", clientID, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	h.enqueueLocked(clientID, event, msg)
}

// enqueueLocked must be called with h.mu held. Unregister closes send
// channels under the write lock, so a client found here is still open.
func (h *Hub) enqueueLocked(clientID, event string, msg []byte) {
	c, ok := h.clients[clientID]
	if !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
		slog.Warn("send queue full, dropping event", "client_id", clientID, "event", event)
	}
}

// Clients is the number of open connections
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client. Used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}
	clear(h.groups)
}

func encode(event string, payload any) ([]byte, error) {
	return json.Marshal(models.Envelope{Event: event, Data: payload})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Debug("write failed", "client_id", c.id, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
