package arithmetic

import (
	"fmt"
	"math/rand/v2"
)

// Problem is one question shown to the player.
// Left and Right are the operands as rendered in Question.
type Problem struct {
	Operation Operation
	Left      int
	Right     int
	Answer    int
}

// Question renders the problem, e.g. "12 ÷ 4 = ?".
func (p Problem) Question() string {
	return fmt.Sprintf("%d %s %d = ?", p.Left, p.Operation.Glyph(), p.Right)
}

// Generator draws random problems. It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator reading from src.
func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// Generate returns a fresh problem for the difficulty and operation set.
// ok is false when the difficulty is unset or no operation is selected.
func (g *Generator) Generate(d Difficulty, ops OperationSet) (p Problem, ok bool) {
	if !d.IsSet() {
		return Problem{}, false
	}
	candidates := ops.Effective()
	if len(candidates) == 0 {
		return Problem{}, false
	}

	op := candidates[g.rng.IntN(len(candidates))]
	a := g.operand(d)
	b := g.operand(d)

	switch op {
	case Division:
		// Built backwards from the quotient so the answer is always whole.
		if b == 0 {
			b = 1
		}
		return Problem{Operation: op, Left: a * b, Right: b, Answer: a}, true
	case Subtraction:
		if a < b {
			a, b = b, a
		}
		return Problem{Operation: op, Left: a, Right: b, Answer: a - b}, true
	case Multiplication:
		return Problem{Operation: op, Left: a, Right: b, Answer: a * b}, true
	default:
		return Problem{Operation: op, Left: a, Right: b, Answer: a + b}, true
	}
}

func (g *Generator) operand(d Difficulty) int {
	lo, hi := d.Range()
	return lo + g.rng.IntN(hi-lo+1)
}
