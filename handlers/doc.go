// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP and websocket endpoints.

# Handler Types

  - RoomHandler: room creation and join QR codes
  - SocketHandler: the game protocol over /ws
  - StatsHandler: live and historical counters

Each handler is created with its dependencies:

	rooms := handlers.NewRoomHandler(svc, cfg)
	mux.HandleFunc("POST /create-room", middleware.WithLogging(rooms.CreateRoom))

# Websocket Protocol

A client connects to GET /ws and immediately receives its identity:

	{"event": "connected", "data": {"id": "7f9c..."}}

Inbound events and their payloads:

	joinRoom       {"roomId": "K3Z9Q", "name": "Alice"}
	restartGame    {"roomId": "K3Z9Q"}
	vote           {"roomId": "K3Z9Q", "choice": "red"}
	startRound     {"roomId": "K3Z9Q"}
	declareWinner  {"roomId": "K3Z9Q"}

joinRoom on an unknown room answers {"event": "error", "data": "Room not found"}
to the sender only. Every other event on an unknown room is ignored, as are
unknown event names and payloads that do not decode. Closing the socket
removes the client from every room.

# HTTP Endpoints

	POST /create-room   → 200 {"roomId": "K3Z9Q"}
	GET  /rooms/{id}/qr → image/png, 404 if the room does not exist
	GET  /stats         → counts, with recorded history when it is on
*/
package handlers
