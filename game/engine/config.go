package engine

import "fmt"

// Variant is the board geometry and win length of a game
type Variant struct {
	Height    int `json:"height" yaml:"height"`
	Width     int `json:"width" yaml:"width"`
	WinLength int `json:"win_length" yaml:"win_length"`
}

// DefaultVariant returns the standard 15x15 five-in-a-row board
func DefaultVariant() Variant {
	return Variant{
		Height:    DefaultHeight,
		Width:     DefaultWidth,
		WinLength: DefaultWinLength,
	}
}

// Validate checks the variant for playability
func (v Variant) Validate() error {
	if v.Height < MinBoardSize || v.Height > MaxBoardSize {
		return fmt.Errorf("%w: height must be between %d and %d, got %d",
			ErrInvalidVariant, MinBoardSize, MaxBoardSize, v.Height)
	}
	if v.Width < MinBoardSize || v.Width > MaxBoardSize {
		return fmt.Errorf("%w: width must be between %d and %d, got %d",
			ErrInvalidVariant, MinBoardSize, MaxBoardSize, v.Width)
	}
	longest := max(v.Height, v.Width)
	if v.WinLength < MinWinLength || v.WinLength > longest {
		return fmt.Errorf("%w: win_length must be between %d and %d, got %d",
			ErrInvalidVariant, MinWinLength, longest, v.WinLength)
	}
	return nil
}

// String renders the variant as HxW/K
func (v Variant) String() string {
	return fmt.Sprintf("%dx%d/%d", v.Height, v.Width, v.WinLength)
}
