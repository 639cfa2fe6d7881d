package game

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sudo-paoo/math-game/internal/domain/arithmetic"
)

// Feedback is the outcome of one submission, shown to the player as a
// short-lived notification.
type Feedback struct {
	Correct bool
	// Answer is the expected result of the problem that was just answered.
	Answer int
}

// Message is the notification text.
func (f Feedback) Message() string {
	if f.Correct {
		return "Correct!"
	}
	return fmt.Sprintf("Wrong! The correct answer is %d", f.Answer)
}

// Check compares raw input with the problem's answer. Input that is empty
// or not a finite number never matches.
func Check(p arithmetic.Problem, input string) Feedback {
	v, ok := ParseAnswer(input)
	return Feedback{
		Correct: ok && v == float64(p.Answer),
		Answer:  p.Answer,
	}
}

// ParseAnswer reads a decimal number typed by the player.
func ParseAnswer(input string) (float64, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
