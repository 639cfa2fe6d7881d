package arithmetic

import (
	"fmt"
	"strings"
)

// Difficulty selects the operand range for generated problems.
// The zero value means no difficulty has been chosen yet.
type Difficulty int

const (
	DifficultyUnset Difficulty = iota
	Easy
	Medium
	Hard
)

// Difficulties lists the selectable tiers in display order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return ""
	}
}

// IsSet reports whether d is one of the three selectable tiers.
func (d Difficulty) IsSet() bool {
	return d >= Easy && d <= Hard
}

// Range returns the inclusive operand bounds for d.
// An unset difficulty falls back to the Easy range.
func (d Difficulty) Range() (lo, hi int) {
	switch d {
	case Medium:
		return 1, 50
	case Hard:
		return 1, 100
	default:
		return 1, 10
	}
}

// ParseDifficulty accepts the display name in any letter case.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(strings.TrimSpace(s), d.String()) {
			return d, nil
		}
	}
	return DifficultyUnset, fmt.Errorf("unknown difficulty %q", s)
}
