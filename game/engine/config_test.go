package engine

import (
	"errors"
	"testing"
)

func TestVariantValidate(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		wantErr bool
	}{
		{"default", DefaultVariant(), false},
		{"tic-tac-toe", Variant{Height: 3, Width: 3, WinLength: 3}, false},
		{"rectangular", Variant{Height: 6, Width: 7, WinLength: 4}, false},
		{"win length equals longest side", Variant{Height: 3, Width: 8, WinLength: 8}, false},
		{"height too small", Variant{Height: 2, Width: 15, WinLength: 3}, true},
		{"width too large", Variant{Height: 15, Width: MaxBoardSize + 1, WinLength: 5}, true},
		{"win length too short", Variant{Height: 15, Width: 15, WinLength: 2}, true},
		{"win length longer than board", Variant{Height: 5, Width: 5, WinLength: 6}, true},
		{"zero value", Variant{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.variant.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVariant) {
					t.Errorf("Expected ErrInvalidVariant, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestVariantString(t *testing.T) {
	if got := DefaultVariant().String(); got != "15x15/5" {
		t.Errorf("Expected 15x15/5, got %s", got)
	}
}
