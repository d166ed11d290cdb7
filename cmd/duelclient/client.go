package main

import (
	"fmt"
	"io"

	"github.com/wricardo/mcp-training/gomokuduel/game/engine"
	"github.com/wricardo/mcp-training/gomokuduel/game/wire"
)

// client mirrors the game board from the server's envelopes
type client struct {
	board    *engine.Board
	out      io.Writer
	me       engine.Cell
	opponent string
	named    bool
	started  bool
	myTurn   bool
	finished bool

	// set in --bot mode
	bot     bool
	pending bool
}

func newClient(v engine.Variant, out io.Writer) (*client, error) {
	board, err := engine.NewBoard(v)
	if err != nil {
		return nil, err
	}
	return &client{board: board, out: out}, nil
}

// input decides what to do with a line typed by the user
func (c *client) input(line string) (string, bool) {
	switch {
	case line == "":
		return "", false
	case !c.named:
		c.named = true
		fmt.Fprintln(c.out, "Waiting for an opponent...")
		return line, true
	case c.bot:
		return "", false
	case !c.started:
		fmt.Fprintln(c.out, "The game has not started yet")
		return "", false
	case !c.myTurn:
		fmt.Fprintf(c.out, "Wait for %s to move\n", c.opponent)
		return "", false
	}
	if _, err := wire.ParseMove(line); err != nil {
		fmt.Fprintln(c.out, "Moves look like <row>,<col>, for example 7,7")
		return "", false
	}
	return line, true
}

// autoMove picks the bot's move when it is its turn
func (c *client) autoMove() (string, bool) {
	if !c.bot || !c.started || !c.myTurn || c.finished || c.pending {
		return "", false
	}
	p, ok := NewStrategy(c.me, c.board.Variant().WinLength).NextMove(c.board.Snapshot())
	if !ok {
		return "", false
	}
	c.pending = true
	move := wire.FormatMove(p)
	fmt.Fprintln(c.out, move)
	return move, true
}

// handle applies one server envelope
func (c *client) handle(env wire.Envelope) {
	if env.Kind != wire.KindError {
		c.pending = false
	}
	if env.Kind.Terminal() {
		c.finished = true
	}

	switch env.Kind {
	case wire.KindStart:
		c.started = true
		c.me = engine.Cell(env.Turn)
		c.opponent = env.Name
		c.myTurn = c.me == engine.PlayerOne
		fmt.Fprintf(c.out, "Playing against %s, you are %c\n", c.opponent, c.me.Symbol())
		c.show()

	case wire.KindOk:
		c.place(env, c.me)
		c.myTurn = false
		c.show()

	case wire.KindMoving:
		c.place(env, c.other())
		c.myTurn = true
		c.show()

	case wire.KindWin:
		c.place(env, c.me)
		c.end("You win!")

	case wire.KindFail:
		c.place(env, c.other())
		c.end(fmt.Sprintf("%s wins.", c.opponent))

	case wire.KindDraw:
		if c.myTurn {
			c.place(env, c.me)
		} else {
			c.place(env, c.other())
		}
		c.end("Draw, the board is full.")

	case wire.KindError:
		if env.Name == "" {
			env.Name = "rejected"
		}
		fmt.Fprintf(c.out, "Server: %s\n", env.Name)
		if c.pending {
			// the bot's view of the board disagrees with the server's
			c.finished = true
			return
		}
		if !c.started {
			// the name was refused; the next line is another attempt
			c.named = false
			fmt.Fprint(c.out, "Name: ")
		} else if c.myTurn {
			fmt.Fprint(c.out, "Your move: ")
		}

	case wire.KindOpponentLeft:
		fmt.Fprintln(c.out, "Your opponent left the game.")
	}
}

func (c *client) other() engine.Cell {
	if c.me == engine.PlayerOne {
		return engine.PlayerTwo
	}
	return engine.PlayerOne
}

func (c *client) place(env wire.Envelope, owner engine.Cell) {
	if _, err := c.board.Claim(env.Position(), owner); err != nil {
		fmt.Fprintf(c.out, "Local board out of sync at %s: %v\n", wire.FormatMove(env.Position()), err)
	}
}

func (c *client) end(message string) {
	c.myTurn = false
	fmt.Fprint(c.out, engine.Render(c.board.Snapshot()))
	fmt.Fprintln(c.out, message)
}

func (c *client) show() {
	fmt.Fprint(c.out, engine.Render(c.board.Snapshot()))
	if c.myTurn {
		fmt.Fprint(c.out, "Your move: ")
	} else {
		fmt.Fprintf(c.out, "Waiting for %s...\n", c.opponent)
	}
}
