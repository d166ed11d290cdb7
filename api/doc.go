// Package api provides the HTTP surface of the Gomoku Duel server.
//
// The api package implements:
//   - Read-only REST endpoints for observing games
//   - A health check
//   - Routing of every other path to the WebSocket game transport
//
// Endpoints:
//
// Sessions:
//   - GET /api/sessions - List live sessions (?order=asc|desc, ?limit=N)
//   - GET /api/sessions/{id} - Get one session with its board
//
// Matchmaking:
//   - GET /api/queue - Waiting flag, live and allocated sessions, open connections
//
// Rules:
//   - GET /api/rules - Board variant, move format and message types
//
// Health:
//   - GET /health - Liveness probe
//
// Game:
//   - Any other path - WebSocket upgrade; see package websocket
//
// Error Handling:
//
// Errors are returned as JSON {"error": "message"} with the matching HTTP
// status. Unknown /api paths return 404 instead of falling through to the
// game transport.
//
// Usage:
//
//	server := api.NewServer(gameService, wsHandler)
//	http.ListenAndServe("localhost:12345", server)
package api
