package engine

import "errors"

// Cell is the ownership state of a single board cell: Empty or the id of
// the player that claimed it.
type Cell int

const (
	Empty Cell = 0

	PlayerOne Cell = 1
	PlayerTwo Cell = 2

	// Board variant limits
	DefaultHeight    = 15
	DefaultWidth     = 15
	DefaultWinLength = 5
	MinBoardSize     = 3
	MaxBoardSize     = 100
	MinWinLength     = 3
)

var (
	ErrOutOfBounds    = errors.New("position out of bounds")
	ErrCellOccupied   = errors.New("cell already occupied")
	ErrInvalidPlayer  = errors.New("invalid player id")
	ErrInvalidVariant = errors.New("invalid board variant")
)

// Position is a zero-based (row, column) coordinate on the board
type Position struct {
	Row uint `json:"row"`
	Col uint `json:"col"`
}

// Result describes what a successful claim did to the board
type Result struct {
	Win  bool `json:"win"`
	Full bool `json:"full"`
}

// Valid reports whether c is a player id that may own a cell
func (c Cell) Valid() bool {
	return c == PlayerOne || c == PlayerTwo
}
