// Package websocket provides the WebSocket transport for Gomoku Duel.
//
// The websocket package implements:
//   - Upgrading any HTTP request to a WebSocket, accepting any subprotocol
//   - A Conn per client that satisfies session.Transport
//   - Keep-alive pings, read deadlines and a read size limit
//   - A Hub that tracks open connections and closes them on shutdown
//
// Architecture:
//
// Each connection runs a read pump and a write pump. The read pump turns
// incoming frames into text for Conn.Receive; the write pump serializes
// frames queued by Conn.Send and sends periodic pings. Closing a Conn
// flushes queued frames before the close frame so a final result or an
// opponent_left notification always reaches the client.
//
// Message Protocol:
//
// Frames are plain text. Clients send their display name and then moves as
// "<row>,<col>". The server answers with JSON envelopes defined in package
// wire.
//
// Usage:
//
//	hub := websocket.NewHub(log.Logger)
//	go hub.Run()
//
//	handler := websocket.NewHandler(hub, manager, websocket.DefaultOptions(), log.Logger)
//	router.PathPrefix("/").Handler(handler)
//
// Connection Lifecycle:
//
// 1. Client connects on any path and is registered with the hub
// 2. The connection becomes a Player and joins matchmaking
// 3. A waiting player that disconnects is withdrawn from the queue
// 4. When the player's game ends the server closes the connection
//
// Concurrency:
//
// The handler blocks for the lifetime of the connection. Hub state is only
// touched from the Run loop; Count is safe to call from any goroutine.
package websocket
