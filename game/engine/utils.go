package engine

import (
	"fmt"
	"strings"
)

// directions scanned by the win rule: horizontal, vertical and both diagonals
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// IsWinningMove reports whether the stone at p is part of a line of at
// least k same-owner cells in any of the four directions.
func IsWinningMove(cells [][]Cell, p Position, k int) bool {
	if int(p.Row) >= len(cells) || int(p.Col) >= len(cells[p.Row]) {
		return false
	}
	owner := cells[p.Row][p.Col]
	if owner == Empty {
		return false
	}

	for _, d := range directions {
		n := 1 + countRun(cells, p, d[0], d[1], owner) + countRun(cells, p, -d[0], -d[1], owner)
		if n >= k {
			return true
		}
	}
	return false
}

// countRun counts consecutive cells owned by owner starting next to p and
// stepping by (dr, dc).
func countRun(cells [][]Cell, p Position, dr, dc int, owner Cell) int {
	n := 0
	r, c := int(p.Row)+dr, int(p.Col)+dc
	for r >= 0 && r < len(cells) && c >= 0 && c < len(cells[r]) && cells[r][c] == owner {
		n++
		r += dr
		c += dc
	}
	return n
}

// Symbol returns the glyph used when a board is printed
func (c Cell) Symbol() byte {
	switch c {
	case PlayerOne:
		return 'X'
	case PlayerTwo:
		return 'O'
	}
	return '.'
}

// Render draws cells as text, one row per line with row and column
// indexes in the margins. Indexes are printed modulo 10.
func Render(cells [][]Cell) string {
	var b strings.Builder
	if len(cells) == 0 {
		return ""
	}

	b.WriteString("   ")
	for c := range cells[0] {
		b.WriteByte(byte('0' + c%10))
	}
	b.WriteByte('\n')

	for r, row := range cells {
		fmt.Fprintf(&b, "%2d ", r)
		for _, cell := range row {
			b.WriteByte(cell.Symbol())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
