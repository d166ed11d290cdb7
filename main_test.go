package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/gomokuduel/game/config"
	"github.com/wricardo/mcp-training/gomokuduel/game/engine"
	"github.com/wricardo/mcp-training/gomokuduel/game/service"
	"github.com/wricardo/mcp-training/gomokuduel/game/wire"
)

func TestConstants(t *testing.T) {
	if Version != "1.0.0" {
		t.Errorf("Expected version 1.0.0, got %s", Version)
	}
	if AppName != "Gomoku Duel Server" {
		t.Errorf("Expected app name Gomoku Duel Server, got %s", AppName)
	}
}

// parseConfig runs the root command with its action replaced by loadConfig
func parseConfig(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	var cfg *config.Config
	cmd := newCommand()
	cmd.Action = func(ctx context.Context, c *cli.Command) error {
		var err error
		cfg, err = loadConfig(c)
		return err
	}
	err := cmd.Run(context.Background(), append([]string{"gomokuduel"}, args...))
	return cfg, err
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(t)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Addr != config.DefaultAddr {
		t.Errorf("Expected default addr %s, got %s", config.DefaultAddr, cfg.Addr)
	}
	if cfg.Board != engine.DefaultVariant() {
		t.Errorf("Expected default variant, got %s", cfg.Board)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gomoku.yaml")
	data := []byte(`
addr: "0.0.0.0:9000"
board:
  height: 10
  width: 10
  win_length: 4
relay:
  receive_timeout: 30s
log_level: debug
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	tests := []struct {
		name      string
		env       map[string]string
		args      []string
		wantAddr  string
		wantBoard engine.Variant
		wantWait  time.Duration
	}{
		{
			name:      "file only",
			args:      []string{"--config", path},
			wantAddr:  "0.0.0.0:9000",
			wantBoard: engine.Variant{Height: 10, Width: 10, WinLength: 4},
			wantWait:  30 * time.Second,
		},
		{
			name:      "flags override file",
			args:      []string{"--config", path, "--width", "12", "--receive-timeout", "0s", "127.0.0.1:7000"},
			wantAddr:  "127.0.0.1:7000",
			wantBoard: engine.Variant{Height: 10, Width: 12, WinLength: 4},
			wantWait:  0,
		},
		{
			name:      "env overrides file",
			env:       map[string]string{"GOMOKU_CONFIG": path, "GOMOKU_WIN_LENGTH": "3"},
			wantAddr:  "0.0.0.0:9000",
			wantBoard: engine.Variant{Height: 10, Width: 10, WinLength: 3},
			wantWait:  30 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := parseConfig(t, tt.args...)
			if err != nil {
				t.Fatalf("loadConfig failed: %v", err)
			}
			if cfg.Addr != tt.wantAddr {
				t.Errorf("Expected addr %s, got %s", tt.wantAddr, cfg.Addr)
			}
			if cfg.Board != tt.wantBoard {
				t.Errorf("Expected board %s, got %s", tt.wantBoard, cfg.Board)
			}
			if cfg.Relay.ReceiveTimeout != tt.wantWait {
				t.Errorf("Expected receive timeout %s, got %s", tt.wantWait, cfg.Relay.ReceiveTimeout)
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"win length longer than board", []string{"--height", "3", "--width", "3", "--win-length", "4"}, config.ErrInvalidConfig},
		{"bad address", []string{"not-an-address"}, config.ErrInvalidConfig},
		{"bad log level", []string{"--log-level", "loud"}, config.ErrInvalidConfig},
		{"missing config file", []string{"--config", "/non/existent/gomoku.yaml"}, config.ErrConfigNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig(t, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := parseConfig(t, "localhost:1", "localhost:2"); err == nil {
		t.Error("Expected error for two address arguments")
	}
}

func newTestApp(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Board = engine.Variant{Height: 3, Width: 3, WinLength: 3}

	server := httptest.NewUnstartedServer(nil)
	a, err := newApp(cfg, "http://"+server.Listener.Addr().String(), zerolog.Nop())
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	server.Config.Handler = a.router
	server.Start()

	t.Cleanup(func() {
		server.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.shutdown(ctx); err != nil {
			t.Errorf("shutdown failed: %v", err)
		}
	})
	return server
}

func dialGame(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) wire.Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read frame: %v", err)
	}
	env, err := wire.Decode(string(data))
	if err != nil {
		t.Fatalf("Failed to decode %s: %v", data, err)
	}
	return env
}

func getQueue(t *testing.T, server *httptest.Server) service.QueueStatus {
	t.Helper()
	resp, err := http.Get(server.URL + "/api/queue")
	if err != nil {
		t.Fatalf("GET /api/queue failed: %v", err)
	}
	defer resp.Body.Close()
	var status service.QueueStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("Failed to decode queue status: %v", err)
	}
	return status
}

func TestAppServesGamesAndAPI(t *testing.T) {
	server := newTestApp(t)

	alice := dialGame(t, server)
	deadline := time.Now().Add(2 * time.Second)
	for !getQueue(t, server).Waiting {
		if time.Now().After(deadline) {
			t.Fatal("First player never reached the queue")
		}
		time.Sleep(5 * time.Millisecond)
	}
	bob := dialGame(t, server)

	alice.WriteMessage(websocket.TextMessage, []byte("alice"))
	bob.WriteMessage(websocket.TextMessage, []byte("bob"))
	if env := readEnvelope(t, alice); env.Kind != wire.KindStart || env.Name != "bob" {
		t.Fatalf("Unexpected start for alice: %+v", env)
	}
	if env := readEnvelope(t, bob); env.Kind != wire.KindStart || env.Name != "alice" {
		t.Fatalf("Unexpected start for bob: %+v", env)
	}

	alice.WriteMessage(websocket.TextMessage, []byte("1,1"))
	if env := readEnvelope(t, alice); env.Kind != wire.KindOk {
		t.Fatalf("Expected ok, got %+v", env)
	}
	if env := readEnvelope(t, bob); env.Kind != wire.KindMoving || env.X != 1 || env.Y != 1 {
		t.Fatalf("Expected moving at 1,1, got %+v", env)
	}

	status := getQueue(t, server)
	if status.Waiting || status.ActiveSessions != 1 || status.Connections != 2 {
		t.Errorf("Unexpected queue status %+v", status)
	}

	resp, err := http.Get(server.URL + "/api/sessions/1")
	if err != nil {
		t.Fatalf("GET /api/sessions/1 failed: %v", err)
	}
	defer resp.Body.Close()
	var info service.SessionInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("Failed to decode session: %v", err)
	}
	if info.Moves != 1 || info.Board[1][1] != engine.PlayerOne {
		t.Errorf("Expected one stone at 1,1, got %+v", info)
	}
}

func TestAppMCPEndpoint(t *testing.T) {
	server := newTestApp(t)

	resp, err := http.Get(server.URL + "/mcp")
	if err != nil {
		t.Fatalf("GET /mcp failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET /mcp, got %d", resp.StatusCode)
	}

	call := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"game_rules","arguments":{}}}`
	resp, err = http.Post(server.URL+"/mcp", "application/json", strings.NewReader(call))
	if err != nil {
		t.Fatalf("POST /mcp failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode MCP response: %v", err)
	}
	if len(body.Result.Content) == 0 || !strings.Contains(body.Result.Content[0].Text, "3 rows x 3 columns") {
		t.Errorf("Expected rules for a 3x3 board, got %+v", body)
	}
}

func TestAppShutdownEndsSessions(t *testing.T) {
	cfg := config.Default()
	cfg.Board = engine.Variant{Height: 3, Width: 3, WinLength: 3}
	a, err := newApp(cfg, "http://127.0.0.1:0", zerolog.Nop())
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	server := httptest.NewServer(a.router)
	defer server.Close()

	alice := dialGame(t, server)
	deadline := time.Now().Add(2 * time.Second)
	for !a.manager.Waiting() {
		if time.Now().After(deadline) {
			t.Fatal("First player never reached the queue")
		}
		time.Sleep(5 * time.Millisecond)
	}
	dialGame(t, server)
	for a.manager.Count() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("Players were never paired")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if a.manager.Count() != 0 {
		t.Errorf("Expected no sessions after shutdown, got %d", a.manager.Count())
	}

	alice.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := alice.ReadMessage(); err != nil {
			break
		}
	}
}
