// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package hub delivers game events over websocket connections.

Each registered connection gets a client ID and a buffered outbound queue
drained by its own writer goroutine. Rooms are delivery groups: Subscribe
puts a client in a room's group, ToRoom queues an event for every member,
ToClient for one.

Every event is a JSON envelope:

	{"event": "playerList", "data": [...]}

Sends never block. If a client's queue is full the event is dropped for
that client and a warning is logged. Ping frames keep idle connections
alive; a client that stops answering is dropped after the read deadline.
*/
package hub
