// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/redblue/game"
	"github.com/danielhkuo/redblue/hub"
	"github.com/danielhkuo/redblue/models"
	"github.com/danielhkuo/redblue/testutil"
)

type wireEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type testServer struct {
	url string
	svc *game.Service
	hub *hub.Hub
}

// startTestServer wires the room and socket handlers to a real listener
// with a short round timer
func startTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := testutil.GetTestConfig()
	cfg.RoundDuration = 500 * time.Millisecond

	h := hub.New(0)
	svc := game.NewService(game.NewRegistry(), h, game.WithRoundDuration(cfg.RoundDuration))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /create-room", NewRoomHandler(svc, cfg).CreateRoom)
	mux.HandleFunc("GET /ws", NewSocketHandler(svc, h, cfg).Serve)

	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		svc.Close()
		h.Close()
	})

	return &testServer{url: srv.URL, svc: svc, hub: h}
}

func (s *testServer) createRoom(t *testing.T) string {
	t.Helper()
	resp, err := http.Post(s.url+"/create-room", "application/json", nil)
	if err != nil {
		t.Fatalf("create-room failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var body models.CreateRoomResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body.RoomID
}

type wsClient struct {
	t    *testing.T
	id   string
	conn *websocket.Conn
}

func (s *testServer) connect(t *testing.T) *wsClient {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(s.url, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	c := &wsClient{t: t, conn: conn}
	var hello models.ConnectedPayload
	c.expect(models.EventConnected, &hello)
	if hello.ClientID == "" {
		t.Fatal("Expected a client id in the connected event")
	}
	c.id = hello.ClientID
	return c
}

func (c *wsClient) send(event string, data any) {
	c.t.Helper()
	raw, _ := json.Marshal(data)
	if err := c.conn.WriteJSON(wireEvent{Event: event, Data: raw}); err != nil {
		c.t.Fatalf("write failed: %v", err)
	}
}

func (c *wsClient) next() wireEvent {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg wireEvent
	if err := c.conn.ReadJSON(&msg); err != nil {
		c.t.Fatalf("read failed: %v", err)
	}
	return msg
}

// expect reads the next event, which must be named event
func (c *wsClient) expect(event string, v any) {
	c.t.Helper()
	msg := c.next()
	if msg.Event != event {
		c.t.Fatalf("Expected %s, got %s (%s)", event, msg.Event, msg.Data)
	}
	if v != nil {
		if err := json.Unmarshal(msg.Data, v); err != nil {
			c.t.Fatalf("bad %s payload: %v", event, err)
		}
	}
}

func (c *wsClient) expectPlayers(n int) []models.Player {
	c.t.Helper()
	var players []models.Player
	c.expect(models.EventPlayerList, &players)
	if len(players) != n {
		c.t.Fatalf("Expected %d players, got %d", n, len(players))
	}
	return players
}

func byID(players []models.Player) map[string]models.Player {
	out := make(map[string]models.Player, len(players))
	for _, p := range players {
		out[p.ID] = p
	}
	return out
}

// TestFullGameWorkflow plays one game end to end:
// 1. Create room
// 2. Three players join
// 3. Start a round and vote
// 4. Timer resolves the round
// 5. Declare the winner
// 6. A player leaves
func TestFullGameWorkflow(t *testing.T) {
	srv := startTestServer(t)

	// Step 1: Create a room
	roomID := srv.createRoom(t)

	// Step 2: Join in order
	alice := srv.connect(t)
	bob := srv.connect(t)
	carol := srv.connect(t)

	alice.send(models.EventJoinRoom, models.JoinRoomRequest{RoomID: models.Text(roomID), Name: "Alice"})
	players := alice.expectPlayers(1)
	if players[0].ID != alice.id || players[0].Name != "Alice" || !players[0].Active {
		t.Fatalf("Step 2 - Unexpected player %+v", players[0])
	}

	bob.send(models.EventJoinRoom, models.JoinRoomRequest{RoomID: models.Text(roomID), Name: "Bob"})
	alice.expectPlayers(2)
	bob.expectPlayers(2)

	carol.send(models.EventJoinRoom, models.JoinRoomRequest{RoomID: models.Text(roomID), Name: "Carol"})
	for _, c := range []*wsClient{alice, bob, carol} {
		c.expectPlayers(3)
	}

	// Step 3: Start a round, then vote
	alice.send(models.EventStartRound, models.RoomRequest{RoomID: models.Text(roomID)})
	for _, c := range []*wsClient{alice, bob, carol} {
		c.expect(models.EventRoundStarted, nil)
	}

	votes := []struct {
		voter  *wsClient
		choice models.Choice
	}{
		{alice, models.ChoiceRed},
		{bob, models.ChoiceBlue},
		{carol, models.ChoiceRed},
	}
	for _, v := range votes {
		v.voter.send(models.EventVote, models.VoteRequest{RoomID: models.Text(roomID), Choice: v.choice})
		for _, c := range []*wsClient{alice, bob, carol} {
			players := byID(c.expectPlayers(3))
			if players[v.voter.id].Choice != v.choice {
				t.Fatalf("Step 3 - Vote should be visible to everyone, got %+v", players[v.voter.id])
			}
		}
	}

	// Step 4: The majority (red) is eliminated
	for _, c := range []*wsClient{alice, bob, carol} {
		players := byID(c.expectPlayers(3))
		if players[alice.id].Active || players[carol.id].Active || !players[bob.id].Active {
			t.Fatalf("Step 4 - Unexpected outcome %+v", players)
		}
		for _, p := range players {
			if p.Choice != models.ChoiceUnset {
				t.Errorf("Step 4 - Choices should be cleared, got %+v", p)
			}
		}
		c.expect(models.EventRevealVotes, nil)
	}

	// Step 5: Declare the winner. Alice's vote is ignored since she is
	// out, so nothing arrives before gameOver.
	alice.send(models.EventVote, models.VoteRequest{RoomID: models.Text(roomID), Choice: models.ChoiceBlue})
	alice.send(models.EventDeclareWinner, models.RoomRequest{RoomID: models.Text(roomID)})
	bob.expect(models.EventWin, nil)
	for _, c := range []*wsClient{alice, bob, carol} {
		c.expect(models.EventGameOver, nil)
	}

	// Step 6: Carol leaves
	carol.conn.Close()
	for _, c := range []*wsClient{alice, bob} {
		players := byID(c.expectPlayers(2))
		if _, ok := players[carol.id]; ok {
			t.Error("Step 6 - Carol should be gone")
		}
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	srv := startTestServer(t)
	c := srv.connect(t)

	c.send(models.EventJoinRoom, models.JoinRoomRequest{RoomID: "NOPE1", Name: "Alice"})

	var msg string
	c.expect(models.EventError, &msg)
	if msg != models.MsgRoomNotFound {
		t.Errorf("Expected %q, got %q", models.MsgRoomNotFound, msg)
	}
}

func TestRestartGameOverSocket(t *testing.T) {
	srv := startTestServer(t)
	roomID := srv.createRoom(t)
	c := srv.connect(t)

	c.send(models.EventJoinRoom, models.JoinRoomRequest{RoomID: models.Text(roomID), Name: "Alice"})
	c.expectPlayers(1)

	c.send(models.EventRestartGame, models.RoomRequest{RoomID: models.Text(roomID)})
	players := c.expectPlayers(1)
	if !players[0].Active {
		t.Error("Restart should reactivate players")
	}
	c.expect(models.EventGameRestarted, nil)
}

func TestIgnoredMessages(t *testing.T) {
	srv := startTestServer(t)
	roomID := srv.createRoom(t)
	c := srv.connect(t)

	// Unknown event
	c.send("fly", map[string]string{"roomId": roomID})
	// Malformed payloads
	c.send(models.EventJoinRoom, "not an object")
	for _, frame := range []string{`{"event":"vote"}`, `not json`, `[1,2]`} {
		if err := c.conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			t.Fatal(err)
		}
	}
	// Operations on unknown rooms
	c.send(models.EventStartRound, models.RoomRequest{RoomID: "NOPE1"})
	c.send(models.EventDeclareWinner, models.RoomRequest{RoomID: "NOPE1"})

	// None of the above produced a reply, so the roster is the next message
	c.send(models.EventJoinRoom, models.JoinRoomRequest{RoomID: models.Text(roomID), Name: "Alice"})
	c.expectPlayers(1)
}

func TestDisconnectBroadcastsToEveryRoom(t *testing.T) {
	srv := startTestServer(t)
	room1 := srv.createRoom(t)
	room2 := srv.createRoom(t)

	watcher := srv.connect(t)
	leaver := srv.connect(t)

	watcher.send(models.EventJoinRoom, models.JoinRoomRequest{RoomID: models.Text(room2), Name: "Watcher"})
	watcher.expectPlayers(1)
	leaver.send(models.EventJoinRoom, models.JoinRoomRequest{RoomID: models.Text(room1), Name: "Leaver"})
	leaver.expectPlayers(1)

	leaver.conn.Close()

	// room2 never had the leaver but still gets a fresh roster
	watcher.expectPlayers(1)

	testutil.Eventually(t, 2*time.Second, func() bool {
		_, players := srv.svc.Stats()
		return players == 1
	}, "leaver was not removed")
}

func TestConcurrentJoins(t *testing.T) {
	srv := startTestServer(t)
	roomID := srv.createRoom(t)

	const numClients = 10
	clients := make([]*wsClient, numClients)
	for i := range clients {
		clients[i] = srv.connect(t)
	}

	var wg sync.WaitGroup
	for i, c := range clients {
		wg.Add(1)
		go func(i int, c *wsClient) {
			defer wg.Done()
			raw, _ := json.Marshal(models.JoinRoomRequest{RoomID: models.Text(roomID), Name: models.Text("P" + string(rune('A'+i)))})
			c.conn.WriteJSON(wireEvent{Event: models.EventJoinRoom, Data: raw})
		}(i, c)
	}
	wg.Wait()

	testutil.Eventually(t, 2*time.Second, func() bool {
		_, players := srv.svc.Stats()
		return players == numClients
	}, "not every client joined")

	// Broadcasts are serialized per room: every client's last roster is complete
	for _, c := range clients {
		var last []models.Player
		for len(last) != numClients {
			c.expect(models.EventPlayerList, &last)
		}
		if len(byID(last)) != numClients {
			t.Errorf("Expected %d distinct players", numClients)
		}
	}
}

func TestNonStringPayloadFields(t *testing.T) {
	srv := startTestServer(t)
	roomID := srv.createRoom(t)
	c := srv.connect(t)

	// Names are not validated: a number joins as its JSON text
	c.send(models.EventJoinRoom, map[string]any{"roomId": roomID, "name": 123})
	players := c.expectPlayers(1)
	if players[0].Name != "123" {
		t.Errorf("Expected name '123', got '%s'", players[0].Name)
	}

	// Re-join with an object name, still one entry
	c.send(models.EventJoinRoom, map[string]any{"roomId": roomID, "name": map[string]int{"a": 1}})
	players = c.expectPlayers(1)
	if players[0].Name != `{"a":1}` {
		t.Errorf("Expected name '{\"a\":1}', got '%s'", players[0].Name)
	}

	// A missing name joins with an empty one
	c.send(models.EventJoinRoom, map[string]any{"roomId": roomID, "name": nil})
	players = c.expectPlayers(1)
	if players[0].Name != "" {
		t.Errorf("Expected empty name, got '%s'", players[0].Name)
	}

	// A numeric choice is stored and shown
	c.send(models.EventVote, map[string]any{"roomId": roomID, "choice": 1})
	players = c.expectPlayers(1)
	if players[0].Choice != "1" {
		t.Errorf("Expected choice '1', got '%s'", players[0].Choice)
	}

	// null clears the choice
	c.send(models.EventVote, map[string]any{"roomId": roomID, "choice": nil})
	players = c.expectPlayers(1)
	if players[0].Choice != models.ChoiceUnset {
		t.Errorf("Expected unset choice, got '%s'", players[0].Choice)
	}
}

func TestNonStringRoomID(t *testing.T) {
	srv := startTestServer(t)
	c := srv.connect(t)

	c.send(models.EventJoinRoom, map[string]any{"roomId": 12345, "name": "Alice"})

	var msg string
	c.expect(models.EventError, &msg)
	if msg != models.MsgRoomNotFound {
		t.Errorf("Expected %q, got %q", models.MsgRoomNotFound, msg)
	}
}
