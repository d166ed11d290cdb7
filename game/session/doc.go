// Package session provides matchmaking and session coordination for
// Gomoku Duel.
//
// The session package implements:
//   - A single-slot matchmaking queue that pairs connections in arrival order
//   - Monotonic session id allocation starting at 1
//   - Cross-wiring of the relay links between the two players of a session
//   - The per-player protocol state machine
//   - A coordinator that supervises both player tasks of a session
//
// Core Types:
//
// Manager owns the Queue and the registry of live sessions. Player wraps a
// connection through the Transport interface, so the package never depends
// on a concrete network library. Session holds the two players and the
// board, and Run starts their tasks.
//
// Protocol:
//
// Each player task walks the same states: await the display name, exchange
// names with the opponent over the relay, send start, then alternate between
// the player's own move and the opponent's move. Malformed or invalid moves
// are answered with an error frame and do not consume the turn. Blocking on
// the relay is what enforces alternation.
//
// Concurrency:
//
// Every Player runs in its own goroutine. When one task ends abnormally
// (disconnect, timeout, protocol violation) the coordinator cancels the
// other task with relay.ErrPeerGone so that client receives opponent_left
// even while it is blocked waiting on its own connection.
//
// Usage:
//
//	manager, err := session.NewManager(ctx, session.Options{
//		Variant:        engine.DefaultVariant(),
//		RelayCapacity:  relay.DefaultCapacity,
//		ReceiveTimeout: 10 * time.Minute,
//		Logger:         log.Logger,
//	})
//	if err != nil {
//		log.Fatal().Err(err).Msg("invalid session options")
//	}
//
//	player := session.NewPlayer(uuid.New(), conn)
//	if _, err := manager.Join(player); err != nil {
//		return err
//	}
//	<-player.Done()
package session
