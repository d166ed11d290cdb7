// Package relay provides the cross-wired message links between the two
// players of a session.
//
// Each session owns two bounded links. Player one sends on the link that
// player two receives from and the other way around, so the blocking
// Receive is what enforces strict move alternation: a player cannot act
// again until the opponent's move has arrived.
//
// Every link carries an explicit closed signal. When a player task ends
// it closes its endpoint and the opponent's pending or next Receive fails
// with ErrPeerGone instead of blocking forever. An optional receive
// timeout bounds how long a player waits for an idle opponent.
//
// Usage:
//
//	a, b := relay.Pair(relay.DefaultCapacity, 10*time.Minute)
//
//	go func() {
//		_ = a.Send(ctx, relay.NameMessage("alice"))
//	}()
//
//	msg, err := b.Receive(ctx)
//	if errors.Is(err, relay.ErrPeerGone) {
//		// notify the client
//	}
package relay
