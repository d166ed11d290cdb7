package main

import (
	"github.com/wricardo/mcp-training/gomokuduel/game/engine"
)

// Strategy picks moves for --bot mode. It plans one move ahead: take a win,
// block the opponent's win, otherwise extend the longest own line, and
// prefer cells near the centre.
type Strategy struct {
	me, opponent engine.Cell
	winLength    int
}

func NewStrategy(me engine.Cell, winLength int) *Strategy {
	opponent := engine.PlayerTwo
	if me == engine.PlayerTwo {
		opponent = engine.PlayerOne
	}
	return &Strategy{me: me, opponent: opponent, winLength: winLength}
}

// NextMove returns the chosen empty cell, or false when the board is full
func (s *Strategy) NextMove(cells [][]engine.Cell) (engine.Position, bool) {
	var (
		best      engine.Position
		bestScore = -1
		found     bool
	)

	for r := range cells {
		for c := range cells[r] {
			if cells[r][c] != engine.Empty {
				continue
			}
			p := engine.Position{Row: uint(r), Col: uint(c)}
			score := s.score(cells, p)
			if score > bestScore {
				best, bestScore, found = p, score, true
			}
		}
	}
	return best, found
}

func (s *Strategy) score(cells [][]engine.Cell, p engine.Position) int {
	const (
		winScore   = 1 << 20
		blockScore = 1 << 19
		lineWeight = 1 << 8
	)

	if s.wins(cells, p, s.me) {
		return winScore
	}
	if s.wins(cells, p, s.opponent) {
		return blockScore
	}

	own := s.longestLine(cells, p, s.me)
	theirs := s.longestLine(cells, p, s.opponent)
	return (2*own+theirs)*lineWeight - s.manhattanDistance(cells, p)
}

// wins places owner at p, checks the win rule and restores the cell
func (s *Strategy) wins(cells [][]engine.Cell, p engine.Position, owner engine.Cell) bool {
	cells[p.Row][p.Col] = owner
	defer func() { cells[p.Row][p.Col] = engine.Empty }()
	return engine.IsWinningMove(cells, p, s.winLength)
}

// longestLine returns the length of the longest line owner would have
// through p, by probing win lengths downwards.
func (s *Strategy) longestLine(cells [][]engine.Cell, p engine.Position, owner engine.Cell) int {
	cells[p.Row][p.Col] = owner
	defer func() { cells[p.Row][p.Col] = engine.Empty }()

	for k := s.winLength - 1; k > 1; k-- {
		if engine.IsWinningMove(cells, p, k) {
			return k
		}
	}
	return 1
}

func (s *Strategy) manhattanDistance(cells [][]engine.Cell, p engine.Position) int {
	centreRow, centreCol := len(cells)/2, len(cells[0])/2
	return abs(int(p.Row)-centreRow) + abs(int(p.Col)-centreCol)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
