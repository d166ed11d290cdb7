// Package engine provides the board and win rule for Gomoku Duel.
//
// The engine package implements:
//   - A fixed-size ownership grid where each cell is claimed at most once
//   - Bounds and occupancy validation for incoming moves
//   - The K-in-a-row win rule (horizontal, vertical, both diagonals)
//   - Board variant validation (height, width, win length)
//
// Core Types:
//
// Board is the shared grid owned by a session. Claim validates, mutates and
// evaluates the win rule as a single critical section, so the two player
// tasks of a session can call it concurrently. Variant describes the board
// geometry and is loaded from the server configuration.
//
// Usage:
//
//	board, err := engine.NewBoard(engine.DefaultVariant())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := board.Claim(engine.Position{Row: 7, Col: 7}, engine.PlayerOne)
//	if errors.Is(err, engine.ErrCellOccupied) {
//		// ask the player for another move
//	}
//	if res.Win {
//		// the mover completed a line
//	}
//
// Game Rules:
//
// Two players alternate placing stones. A player wins by forming an unbroken
// line of WinLength of their own stones through the move just played. When
// the last empty cell is filled without a winning line the game is drawn.
package engine
