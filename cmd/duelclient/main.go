// Command duelclient plays Gomoku Duel from a terminal.
//
// It connects to a server, sends the player's name and then reads moves as
// "<row>,<col>" from stdin, printing the board after every update.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/gomokuduel/game/engine"
	"github.com/wricardo/mcp-training/gomokuduel/game/service"
	"github.com/wricardo/mcp-training/gomokuduel/game/wire"
)

func main() {
	cmd := &cli.Command{
		Name:      "duelclient",
		Usage:     "play Gomoku Duel in the terminal",
		ArgsUsage: "[ws://host:port/]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "display name; asked for when empty",
				Sources: cli.EnvVars("GOMOKU_NAME"),
			},
			&cli.BoolFlag{
				Name:  "bot",
				Usage: "let the computer choose the moves",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "duelclient:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	server := cmd.Args().First()
	if server == "" {
		server = "ws://localhost:12345/"
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	variant, err := fetchVariant(ctx, server)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not read rules (%v), assuming %s\n", err, engine.DefaultVariant())
		variant = engine.DefaultVariant()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, server, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", server, err)
	}
	defer conn.Close()

	c, err := newClient(variant, os.Stdout)
	if err != nil {
		return err
	}
	name := cmd.String("name")
	if cmd.Bool("bot") {
		c.bot = true
		if name == "" {
			name = "bot"
		}
	}
	return play(ctx, conn, name, os.Stdin, c)
}

// fetchVariant asks the server's REST API for the board dimensions
func fetchVariant(ctx context.Context, server string) (engine.Variant, error) {
	u, err := url.Parse(server)
	if err != nil {
		return engine.Variant{}, err
	}
	switch u.Scheme {
	case "wss":
		u.Scheme = "https"
	default:
		u.Scheme = "http"
	}
	u.Path = "/api/rules"

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return engine.Variant{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return engine.Variant{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return engine.Variant{}, fmt.Errorf("rules request failed: %s", resp.Status)
	}
	var rules service.RulesInfo
	if err := json.NewDecoder(resp.Body).Decode(&rules); err != nil {
		return engine.Variant{}, err
	}
	return rules.Variant, rules.Variant.Validate()
}

// play runs the session: frames from the server update the client, lines
// from in are sent as the name and then as moves.
func play(ctx context.Context, conn *websocket.Conn, name string, in io.Reader, c *client) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan wire.Envelope)
	readErr := make(chan error, 1)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			env, err := wire.Decode(string(data))
			if err != nil {
				readErr <- fmt.Errorf("bad frame %q: %w", data, err)
				return
			}
			select {
			case frames <- env:
			case <-ctx.Done():
				return
			}
		}
	}()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
		close(lines)
	}()

	if name == "" {
		fmt.Fprint(c.out, "Name: ")
	} else if err := conn.WriteMessage(websocket.TextMessage, []byte(name)); err != nil {
		return err
	} else {
		c.named = true
		fmt.Fprintln(c.out, "Waiting for an opponent...")
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-readErr:
			if c.finished {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return errors.New("server closed the connection")
			}
			return err

		case env := <-frames:
			c.handle(env)
			if c.finished {
				return nil
			}
			if move, ok := c.autoMove(); ok {
				if err := conn.WriteMessage(websocket.TextMessage, []byte(move)); err != nil {
					return err
				}
			}

		case line, ok := <-lines:
			if !ok {
				if c.bot {
					lines = nil
					continue
				}
				return nil
			}
			text, send := c.input(line)
			if !send {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
				return err
			}
		}
	}
}
