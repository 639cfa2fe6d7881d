package arithmetic_test

import (
	"math/rand/v2"
	"testing"

	"github.com/sudo-paoo/math-game/internal/domain/arithmetic"
)

const draws = 2000

func newGenerator(seed uint64) *arithmetic.Generator {
	return arithmetic.NewGenerator(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestGenerate_RequiresDifficultyAndOperations(t *testing.T) {
	gen := newGenerator(1)

	if _, ok := gen.Generate(arithmetic.DifficultyUnset, arithmetic.OperationSet{arithmetic.Addition}); ok {
		t.Error("expected no problem without a difficulty")
	}
	if _, ok := gen.Generate(arithmetic.Easy, nil); ok {
		t.Error("expected no problem without operations")
	}
	if _, ok := gen.Generate(arithmetic.Easy, arithmetic.OperationSet{}); ok {
		t.Error("expected no problem for an empty set")
	}
}

func TestGenerate_OperandsWithinRange(t *testing.T) {
	for _, d := range arithmetic.Difficulties {
		lo, hi := d.Range()
		gen := newGenerator(uint64(d))

		for i := 0; i < draws; i++ {
			p, ok := gen.Generate(d, arithmetic.OperationSet{arithmetic.Mixed})
			if !ok {
				t.Fatalf("%s: expected a problem", d)
			}

			// Division shows the derived product; its drawn operands are
			// the divisor and the quotient.
			first, second := p.Left, p.Right
			if p.Operation == arithmetic.Division {
				first = p.Answer
			}
			if first < lo || first > hi || second < lo || second > hi {
				t.Fatalf("%s: operands %d,%d outside [%d,%d] in %q", d, first, second, lo, hi, p.Question())
			}
		}
	}
}

func TestGenerate_DivisionIsExact(t *testing.T) {
	gen := newGenerator(7)

	for i := 0; i < draws; i++ {
		p, _ := gen.Generate(arithmetic.Hard, arithmetic.OperationSet{arithmetic.Division})
		if p.Operation != arithmetic.Division {
			t.Fatalf("expected division, got %s", p.Operation)
		}
		if p.Right < 1 {
			t.Fatalf("divisor %d < 1", p.Right)
		}
		if p.Answer*p.Right != p.Left {
			t.Fatalf("%d * %d != %d", p.Answer, p.Right, p.Left)
		}
	}
}

func TestGenerate_SubtractionNonNegative(t *testing.T) {
	gen := newGenerator(11)

	for i := 0; i < draws; i++ {
		p, _ := gen.Generate(arithmetic.Medium, arithmetic.OperationSet{arithmetic.Subtraction})
		if p.Answer < 0 {
			t.Fatalf("negative answer for %q", p.Question())
		}
		if p.Left-p.Right != p.Answer {
			t.Fatalf("%d - %d != %d", p.Left, p.Right, p.Answer)
		}
	}
}

func TestGenerate_AdditionAndMultiplication(t *testing.T) {
	gen := newGenerator(3)

	for i := 0; i < draws; i++ {
		p, _ := gen.Generate(arithmetic.Easy, arithmetic.OperationSet{arithmetic.Addition, arithmetic.Multiplication})
		switch p.Operation {
		case arithmetic.Addition:
			if p.Answer != p.Left+p.Right {
				t.Fatalf("wrong sum for %q: %d", p.Question(), p.Answer)
			}
		case arithmetic.Multiplication:
			if p.Answer != p.Left*p.Right {
				t.Fatalf("wrong product for %q: %d", p.Question(), p.Answer)
			}
		default:
			t.Fatalf("unexpected operation %s", p.Operation)
		}
	}
}

func TestGenerate_MixedUsesEveryOperation(t *testing.T) {
	gen := newGenerator(5)
	seen := make(map[arithmetic.Operation]int)

	for i := 0; i < draws; i++ {
		p, _ := gen.Generate(arithmetic.Easy, arithmetic.OperationSet{arithmetic.Mixed})
		seen[p.Operation]++
	}

	for _, op := range arithmetic.BaseOperations {
		if seen[op] == 0 {
			t.Errorf("mixed never produced %s", op)
		}
	}
}

func TestGenerate_DeterministicForSeed(t *testing.T) {
	a, b := newGenerator(42), newGenerator(42)
	ops := arithmetic.OperationSet{arithmetic.Mixed}

	for i := 0; i < 50; i++ {
		pa, _ := a.Generate(arithmetic.Hard, ops)
		pb, _ := b.Generate(arithmetic.Hard, ops)
		if pa != pb {
			t.Fatalf("draw %d differs: %+v vs %+v", i, pa, pb)
		}
	}
}

func TestProblem_Question(t *testing.T) {
	tests := []struct {
		problem arithmetic.Problem
		want    string
	}{
		{arithmetic.Problem{Operation: arithmetic.Addition, Left: 3, Right: 4, Answer: 7}, "3 + 4 = ?"},
		{arithmetic.Problem{Operation: arithmetic.Subtraction, Left: 9, Right: 2, Answer: 7}, "9 - 2 = ?"},
		{arithmetic.Problem{Operation: arithmetic.Multiplication, Left: 6, Right: 7, Answer: 42}, "6 × 7 = ?"},
		{arithmetic.Problem{Operation: arithmetic.Division, Left: 12, Right: 4, Answer: 3}, "12 ÷ 4 = ?"},
	}

	for _, tt := range tests {
		if got := tt.problem.Question(); got != tt.want {
			t.Errorf("Question() = %q, want %q", got, tt.want)
		}
	}
}
