// Command gomokuduel starts the Gomoku Duel server.
//
// It supports two modes:
//  1. default: runs the HTTP server that accepts game WebSockets on any path and
//     also exposes the REST API and an /mcp HTTP endpoint
//  2. "mcp": runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// The bind address is the only positional argument. Flags override values from
// an optional YAML config file and enable debug logging or an ngrok tunnel.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/gomokuduel/game/config"
	"github.com/wricardo/mcp-training/gomokuduel/game/engine"
	"github.com/wricardo/mcp-training/gomokuduel/game/relay"
	"github.com/wricardo/mcp-training/gomokuduel/transport/mcp"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Gomoku Duel Server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("Error loading .env file")
		}
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Error().Err(err).Msg("Server failed")
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "gomokuduel",
		Usage:     "pair players into Gomoku games over WebSocket",
		Version:   Version,
		ArgsUsage: "[host:port]",
		Flags:     serverFlags(),
		Action:    runServer,
		Commands: []*cli.Command{
			{
				Name:  "mcp",
				Usage: "run an MCP stdio server backed by the REST API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "api",
						Usage:   "base URL of a running server; an internal one is started when unreachable",
						Sources: cli.EnvVars("GOMOKU_API"),
					},
				},
				Action: runStdioMCP,
			},
		},
	}
}

func serverFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
			Sources: cli.EnvVars("GOMOKU_CONFIG"),
		},
		&cli.IntFlag{
			Name:    "height",
			Usage:   "board rows",
			Value:   engine.DefaultHeight,
			Sources: cli.EnvVars("GOMOKU_HEIGHT"),
		},
		&cli.IntFlag{
			Name:    "width",
			Usage:   "board columns",
			Value:   engine.DefaultWidth,
			Sources: cli.EnvVars("GOMOKU_WIDTH"),
		},
		&cli.IntFlag{
			Name:    "win-length",
			Usage:   "stones in a row needed to win",
			Value:   engine.DefaultWinLength,
			Sources: cli.EnvVars("GOMOKU_WIN_LENGTH"),
		},
		&cli.IntFlag{
			Name:    "relay-capacity",
			Usage:   "messages buffered between the two players of a session",
			Value:   relay.DefaultCapacity,
			Sources: cli.EnvVars("GOMOKU_RELAY_CAPACITY"),
		},
		&cli.DurationFlag{
			Name:    "receive-timeout",
			Usage:   "how long a player waits for the opponent's move, 0 waits forever",
			Value:   config.DefaultReceiveTimeout,
			Sources: cli.EnvVars("GOMOKU_RECEIVE_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "trace, debug, info, warn or error",
			Value:   config.DefaultLogLevel,
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "human readable debug logging",
		},
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "expose the server through an ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "custom ngrok domain (optional)",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	}
}

// loadConfig layers the config file and any explicitly set flags or
// environment variables over the defaults.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Args().Len() > 1 {
		return nil, fmt.Errorf("expected at most one address argument, got %d", cmd.Args().Len())
	}
	if addr := cmd.Args().First(); addr != "" {
		cfg.Addr = addr
	}
	if cmd.IsSet("height") {
		cfg.Board.Height = int(cmd.Int("height"))
	}
	if cmd.IsSet("width") {
		cfg.Board.Width = int(cmd.Int("width"))
	}
	if cmd.IsSet("win-length") {
		cfg.Board.WinLength = int(cmd.Int("win-length"))
	}
	if cmd.IsSet("relay-capacity") {
		cfg.Relay.Capacity = int(cmd.Int("relay-capacity"))
	}
	if cmd.IsSet("receive-timeout") {
		cfg.Relay.ReceiveTimeout = cmd.Duration("receive-timeout")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging configures the global zerolog logger
func setupLogging(cfg *config.Config, debug bool) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if debug {
		level = zerolog.DebugLevel
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	zerolog.SetGlobalLevel(level)
}

// runServer binds the listener, serves game connections, the REST API and
// /mcp until SIGINT or SIGTERM, then shuts everything down.
func runServer(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg, cmd.Bool("debug"))

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", cfg.Addr, err)
	}
	addr := listener.Addr().String()

	app, err := newApp(cfg, "http://"+addr, log.Logger)
	if err != nil {
		listener.Close()
		return err
	}

	httpServer := &http.Server{
		Handler:      app.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("version", Version).
		Str("addr", addr).
		Stringer("variant", cfg.Board).
		Msgf("Starting %s", AppName)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Msgf("Game WebSocket: ws://%s/", addr)
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if cmd.Bool("ngrok") {
		settings := ngrokSettings{
			authToken: cmd.String("ngrok-auth"),
			domain:    cmd.String("ngrok-domain"),
		}
		g.Go(func() error {
			runNgrok(gctx, settings, app.router)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP server shutdown error")
		}
		return app.shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("Server stopped")
	return nil
}

type ngrokSettings struct {
	authToken string
	domain    string
}

// runNgrok serves handler through an ngrok tunnel until ctx is done.
// Tunnel failures are logged and do not stop the server.
func runNgrok(ctx context.Context, settings ngrokSettings, handler http.Handler) {
	if settings.authToken == "" {
		log.Warn().Msg("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Info().Msg("Starting ngrok tunnel...")

	tunnel := ngrokConfig.HTTPEndpoint()
	if settings.domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(settings.domain))
		log.Info().Str("domain", settings.domain).Msg("Using custom ngrok domain")
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(settings.authToken))
	if err != nil {
		log.Error().Err(err).Msg("Failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close ngrok tunnel")
		}
	}()

	url := tun.URL()
	log.Info().Str("url", url).Msg("Ngrok tunnel established")
	log.Info().Msgf("  Game WebSocket (ngrok): %s/", url)
	log.Info().Msgf("  REST API (ngrok): %s/api", url)
	log.Info().Msgf("  MCP endpoint (ngrok): %s/mcp", url)

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Ngrok server error")
	}
	log.Info().Msg("Ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server. It reuses a running server when one
// answers; otherwise it starts an internal one on a random loopback port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg, cmd.Bool("debug"))

	baseURL := cmd.String("api")
	if baseURL == "" {
		baseURL = "http://" + cfg.Addr
	}

	log.Info().Str("url", baseURL).Msg("Checking for external API server")
	if !apiReachable(ctx, baseURL) {
		log.Info().Msg("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()

		app, err := newApp(cfg, baseURL, log.Logger)
		if err != nil {
			listener.Close()
			return err
		}
		internal := &http.Server{Handler: app.router}
		go func() {
			if err := internal.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Internal HTTP server error")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			internal.Shutdown(shutdownCtx)
			app.shutdown(shutdownCtx)
		}()
	}

	log.Info().Str("url", baseURL).Msg("MCP stdio server ready")
	return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
}

func apiReachable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
