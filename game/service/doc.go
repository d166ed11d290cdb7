// Package service provides the read-side business layer for Gomoku Duel.
//
// The service package implements:
//   - Session listing and per-session detail (players, outcomes, board)
//   - Matchmaking queue status
//   - Rules and protocol description for clients and tools
//
// Core Interfaces:
//
// GameService is the interface consumed by the REST API. SessionManager is
// satisfied by *session.Manager; ConnectionCounter by the websocket Hub.
//
// Architecture:
//
// Play itself never goes through this layer: connections are paired by the
// session manager and talk over the relay. The service only reads state so
// that HTTP and MCP clients can observe games without touching them.
//
// Usage:
//
//	gameService := service.NewGameService(manager, hub)
//
//	sessions, err := gameService.ListSessions(ctx)
//	if err != nil {
//		log.Fatal().Err(err).Msg("list failed")
//	}
package service
