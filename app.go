package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/wricardo/mcp-training/gomokuduel/api"
	"github.com/wricardo/mcp-training/gomokuduel/game/config"
	"github.com/wricardo/mcp-training/gomokuduel/game/service"
	"github.com/wricardo/mcp-training/gomokuduel/game/session"
	"github.com/wricardo/mcp-training/gomokuduel/transport/mcp"
	"github.com/wricardo/mcp-training/gomokuduel/transport/websocket"
)

// app holds the wired server components
type app struct {
	manager *session.Manager
	hub     *websocket.Hub
	router  http.Handler
	cancel  context.CancelFunc
}

// newApp wires the session manager, websocket hub, REST API and /mcp
// endpoint. baseURL is where the MCP tools reach the REST API.
func newApp(cfg *config.Config, baseURL string, logger zerolog.Logger) (*app, error) {
	ctx, cancel := context.WithCancel(context.Background())

	manager, err := session.NewManager(ctx, session.Options{
		Variant:        cfg.Board,
		RelayCapacity:  cfg.Relay.Capacity,
		ReceiveTimeout: cfg.Relay.ReceiveTimeout,
		Logger:         logger,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	hub := websocket.NewHub(logger)
	go hub.Run()

	games := websocket.NewHandler(hub, manager, websocket.Options{
		WriteWait:      cfg.Transport.WriteWait,
		PongWait:       cfg.Transport.PongWait,
		MaxMessageSize: cfg.Transport.MaxMessageSize,
		SendBuffer:     cfg.Transport.SendBuffer,
	}, logger)

	gameService := service.NewGameService(manager, hub)
	apiServer := api.NewServer(gameService, games)
	mcpClient := mcp.NewClient(baseURL)

	router := http.NewServeMux()
	router.Handle("/", apiServer)
	router.HandleFunc("/mcp", mcpHandler(mcpClient))

	return &app{
		manager: manager,
		hub:     hub,
		router:  router,
		cancel:  cancel,
	}, nil
}

// shutdown closes every client connection, ends running sessions and waits
// for them to finish.
func (a *app) shutdown(ctx context.Context) error {
	a.hub.Shutdown()
	a.cancel()
	if err := a.manager.Wait(ctx); err != nil {
		return fmt.Errorf("sessions did not finish: %w", err)
	}
	return nil
}

// mcpHandler answers JSON-RPC messages posted to /mcp
func mcpHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	}
}
