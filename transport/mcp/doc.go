// Package mcp provides a Model Context Protocol server for Gomoku Duel.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Read-only tools that proxy to the REST API
//   - Plain text rendering of sessions and boards
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - list_sessions: List running games, optionally ordered and limited
//   - get_session: Show one game with its board
//   - queue_status: Matchmaking queue and connection counts
//   - game_rules: Board variant, move format and message types
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: the "mcp" subcommand serves a local MCP client
//   - HTTP: the main server answers JSON-RPC posted to /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:12345")
//	server.ServeStdio(client.GetMCPServer())
package mcp
