package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/gomokuduel/game/engine"
	"github.com/wricardo/mcp-training/gomokuduel/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Gomoku Duel Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Gomoku Duel - MCP Interface

This is a thin client that proxies all requests to the REST API server.
Games themselves are played by two clients over WebSocket; these tools
observe the server.

GAME OBJECTIVE:
Players alternate placing stones on the board. The first to line up
win_length stones horizontally, vertically or diagonally wins.

AVAILABLE TOOLS:
- list_sessions: List running games
- get_session: Show one game with its board (X = player 1, O = player 2)
- queue_status: Matchmaking queue and connection counts
- game_rules: Board variant, move format and message types`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List running game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"order": map[string]interface{}{
					"type":        "string",
					"description": "Sort by session id: asc (default) or desc",
					"enum":        []string{"asc", "desc"},
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of sessions to return (optional)",
				},
			},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session, including its board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "integer",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "queue_status",
		Description: "Show the matchmaking queue and connection counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleQueueStatus)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Describe the board variant and the client protocol",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// Tool handlers

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := url.Values{}
	if order := request.GetString("order", ""); order != "" {
		query.Set("order", order)
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/sessions"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var response struct {
		Total    int                   `json:"total"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Total)
	for _, s := range response.Sessions {
		fmt.Fprintf(&result, "- #%d %s, %d moves, created %s\n",
			s.ID, formatPlayers(s.Players), s.Moves, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetInt("session_id", 0)
	if sessionID <= 0 {
		return mcp.NewToolResultError("session_id must be a positive integer"), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%d", sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleQueueStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var status service.QueueStatus
	if err := c.apiCall(ctx, "GET", "/api/queue", nil, &status); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	waiting := "nobody is waiting"
	if status.Waiting {
		waiting = "one player is waiting for an opponent"
	}
	result := fmt.Sprintf("Queue: %s\nActive sessions: %d\nSessions allocated: %d\nOpen connections: %d\n",
		waiting, status.ActiveSessions, status.SessionsAllocated, status.Connections)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var rules service.RulesInfo
	if err := c.apiCall(ctx, "GET", "/api/rules", nil, &rules); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf(`Board: %d rows x %d columns
Win: %d in a row (horizontal, vertical or diagonal)
Name: up to %d characters, sent as the first frame
Moves: %s, zero-based
Server messages: %s
`, rules.Variant.Height, rules.Variant.Width, rules.Variant.WinLength,
		rules.MaxNameLength, rules.MoveFormat, strings.Join(rules.MessageTypes, ", "))
	return mcp.NewToolResultText(result), nil
}

// Formatting helpers

func formatPlayers(players []service.PlayerInfo) string {
	names := make([]string, 0, len(players))
	for _, p := range players {
		name := p.Name
		if name == "" {
			name = "(unnamed)"
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return "no players"
	}
	return strings.Join(names, " vs ")
}

func formatSessionInfo(session *service.SessionInfo) string {
	var result strings.Builder
	fmt.Fprintf(&result, "Session: %d\nVariant: %s\nCreated: %s\nMoves: %d\n",
		session.ID, session.Variant, session.CreatedAt.Format("2006-01-02 15:04:05"), session.Moves)
	if session.Finished {
		result.WriteString("Status: finished\n")
	} else {
		result.WriteString("Status: in progress\n")
	}

	for _, p := range session.Players {
		fmt.Fprintf(&result, "Player %d (%c): %s [%s]\n",
			p.ID, engine.Cell(p.ID).Symbol(), p.Name, p.Outcome)
	}

	if len(session.Board) > 0 {
		result.WriteString("\n")
		result.WriteString(engine.Render(session.Board))
	}
	return result.String()
}
