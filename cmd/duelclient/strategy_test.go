package main

import (
	"testing"

	"github.com/wricardo/mcp-training/gomokuduel/game/engine"
)

func board(rows ...string) [][]engine.Cell {
	out := make([][]engine.Cell, len(rows))
	for r, row := range rows {
		out[r] = make([]engine.Cell, len(row))
		for c, ch := range row {
			switch ch {
			case 'X':
				out[r][c] = engine.PlayerOne
			case 'O':
				out[r][c] = engine.PlayerTwo
			}
		}
	}
	return out
}

func TestStrategyNextMove(t *testing.T) {
	tests := []struct {
		name  string
		me    engine.Cell
		k     int
		cells [][]engine.Cell
		want  engine.Position
	}{
		{
			name:  "opens in the centre",
			me:    engine.PlayerOne,
			k:     3,
			cells: board("...", "...", "..."),
			want:  engine.Position{Row: 1, Col: 1},
		},
		{
			name:  "takes the win",
			me:    engine.PlayerOne,
			k:     3,
			cells: board("XX.", "OO.", "..."),
			want:  engine.Position{Row: 0, Col: 2},
		},
		{
			name:  "blocks the opponent",
			me:    engine.PlayerTwo,
			k:     3,
			cells: board("XX.", "...", "O.."),
			want:  engine.Position{Row: 0, Col: 2},
		},
		{
			name:  "blocks a diagonal",
			me:    engine.PlayerTwo,
			k:     3,
			cells: board("X.O", ".X.", "..."),
			want:  engine.Position{Row: 2, Col: 2},
		},
		{
			name:  "extends its own line",
			me:    engine.PlayerOne,
			k:     5,
			cells: board(".......", ".......", "..XX...", ".......", ".....O.", ".......", "......."),
			want:  engine.Position{Row: 2, Col: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewStrategy(tt.me, tt.k).NextMove(tt.cells)
			if !ok {
				t.Fatal("Expected a move")
			}
			if got != tt.want {
				t.Errorf("NextMove() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStrategyLeavesBoardUnchanged(t *testing.T) {
	cells := board("X.O", ".X.", "...")
	before := engine.Render(cells)
	NewStrategy(engine.PlayerTwo, 3).NextMove(cells)
	if engine.Render(cells) != before {
		t.Errorf("Strategy modified the board:\n%s", engine.Render(cells))
	}
}

func TestStrategyFullBoard(t *testing.T) {
	if _, ok := NewStrategy(engine.PlayerOne, 3).NextMove(board("XOX", "OXO", "OXO")); ok {
		t.Error("Expected no move on a full board")
	}
}
