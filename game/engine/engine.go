package engine

import (
	"fmt"
	"sync"
)

// Board is a fixed-size grid shared by the two players of a session.
// A cell is written at most once; every claim validates, mutates and
// evaluates the win rule under one lock.
type Board struct {
	mu      sync.Mutex
	variant Variant
	cells   [][]Cell
	filled  int
}

// NewBoard creates an empty board for the given variant
func NewBoard(v Variant) (*Board, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}

	cells := make([][]Cell, v.Height)
	for r := range cells {
		cells[r] = make([]Cell, v.Width)
	}

	return &Board{
		variant: v,
		cells:   cells,
	}, nil
}

// Variant returns the board geometry
func (b *Board) Variant() Variant {
	return b.variant
}

// InBounds reports whether p lies on the board
func (b *Board) InBounds(p Position) bool {
	return p.Row < uint(b.variant.Height) && p.Col < uint(b.variant.Width)
}

// At returns the owner of the cell at p
func (b *Board) At(p Position) (Cell, error) {
	if !b.InBounds(p) {
		return Empty, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, p.Row, p.Col)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cells[p.Row][p.Col], nil
}

// Claim marks p as owned by player. The returned Result reports whether the
// move completed a winning line and whether the board is now full.
func (b *Board) Claim(p Position, player Cell) (Result, error) {
	if !player.Valid() {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}
	if !b.InBounds(p) {
		return Result{}, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, p.Row, p.Col)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cells[p.Row][p.Col] != Empty {
		return Result{}, fmt.Errorf("%w: (%d,%d)", ErrCellOccupied, p.Row, p.Col)
	}

	b.cells[p.Row][p.Col] = player
	b.filled++

	return Result{
		Win:  IsWinningMove(b.cells, p, b.variant.WinLength),
		Full: b.filled == b.variant.Height*b.variant.Width,
	}, nil
}

// Filled returns the number of claimed cells
func (b *Board) Filled() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filled
}

// Snapshot returns a copy of the grid, row-major
func (b *Board) Snapshot() [][]Cell {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([][]Cell, len(b.cells))
	for r, row := range b.cells {
		out[r] = append([]Cell(nil), row...)
	}
	return out
}
