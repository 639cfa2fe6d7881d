package id_test

import (
	"testing"

	"github.com/sudo-paoo/math-game/internal/id"
)

func TestNewGameID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		gameID := id.NewGameID()
		if !id.Valid(gameID) {
			t.Fatalf("generated ID %q is not valid", gameID)
		}
		if seen[gameID] {
			t.Fatalf("duplicate ID %q", gameID)
		}
		seen[gameID] = true
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"abcdefgh12345678", true},
		{"ABCDEFGH12345678", false},
		{"short", false},
		{"abcdefgh1234567!", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := id.Valid(tt.in); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
