package arithmetic

import (
	"fmt"
	"slices"
	"strings"
)

// Operation is one of the four base operations or the Mixed sentinel.
type Operation int

const (
	OperationUnset Operation = iota
	Addition
	Subtraction
	Multiplication
	Division
	// Mixed picks uniformly among the four base operations per problem.
	Mixed
)

// BaseOperations are the four concrete operations in display order.
var BaseOperations = []Operation{Addition, Subtraction, Multiplication, Division}

// SelectableOperations are the choices offered to the player.
var SelectableOperations = []Operation{Addition, Subtraction, Multiplication, Division, Mixed}

func (op Operation) String() string {
	switch op {
	case Addition:
		return "Addition"
	case Subtraction:
		return "Subtraction"
	case Multiplication:
		return "Multiplication"
	case Division:
		return "Division"
	case Mixed:
		return "Mixed"
	default:
		return ""
	}
}

// Glyph is the symbol used when rendering a question.
func (op Operation) Glyph() string {
	switch op {
	case Addition:
		return "+"
	case Subtraction:
		return "-"
	case Multiplication:
		return "×"
	case Division:
		return "÷"
	default:
		return "?"
	}
}

// IsBase reports whether op is one of the four concrete operations.
func (op Operation) IsBase() bool {
	return op >= Addition && op <= Division
}

var operationAliases = map[string]Operation{
	"addition":       Addition,
	"add":            Addition,
	"+":              Addition,
	"subtraction":    Subtraction,
	"sub":            Subtraction,
	"-":              Subtraction,
	"multiplication": Multiplication,
	"mul":            Multiplication,
	"x":              Multiplication,
	"*":              Multiplication,
	"×":              Multiplication,
	"division":       Division,
	"div":            Division,
	"/":              Division,
	"÷":              Division,
	"mixed":          Mixed,
}

// ParseOperation accepts the display name, a short alias or a glyph.
func ParseOperation(s string) (Operation, error) {
	if op, ok := operationAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return op, nil
	}
	return OperationUnset, fmt.Errorf("unknown operation %q", s)
}

// OperationSet is the selection eligible for problem generation, kept in
// selection order. It is either empty, {Mixed}, or a subset of the base
// operations with no duplicates. Methods never modify the receiver.
type OperationSet []Operation

// Contains reports whether op is selected.
func (s OperationSet) Contains(op Operation) bool {
	return slices.Contains(s, op)
}

// IsMixed reports whether the set is the Mixed sentinel.
func (s OperationSet) IsMixed() bool {
	return s.Contains(Mixed)
}

// Toggle returns the set after the player clicks op.
func (s OperationSet) Toggle(op Operation) OperationSet {
	if op == Mixed {
		return OperationSet{Mixed}
	}
	if !op.IsBase() {
		return slices.Clone(s)
	}

	var next OperationSet
	if s.Contains(op) {
		next = slices.DeleteFunc(slices.Clone(s), func(o Operation) bool { return o == op })
	} else {
		next = slices.DeleteFunc(slices.Clone(s), func(o Operation) bool { return o == Mixed })
		next = append(next, op)
	}

	if next.hasAllBase() {
		return OperationSet{Mixed}
	}
	return next
}

func (s OperationSet) hasAllBase() bool {
	for _, op := range BaseOperations {
		if !s.Contains(op) {
			return false
		}
	}
	return true
}

// Effective returns the base operations a problem may be drawn from.
func (s OperationSet) Effective() []Operation {
	if s.IsMixed() {
		return slices.Clone(BaseOperations)
	}
	out := make([]Operation, 0, len(s))
	for _, op := range s {
		if op.IsBase() {
			out = append(out, op)
		}
	}
	return out
}

// Label is the text shown in the results summary.
func (s OperationSet) Label() string {
	if s.IsMixed() {
		return Mixed.String()
	}
	return strings.Join(s.Names(), ", ")
}

// Names returns the display name of each selected operation.
func (s OperationSet) Names() []string {
	names := make([]string, len(s))
	for i, op := range s {
		names[i] = op.String()
	}
	return names
}

// ParseOperationSet rebuilds a set from names. An empty input yields an
// empty set; unknown names are rejected.
func ParseOperationSet(names []string) (OperationSet, error) {
	set := make(OperationSet, 0, len(names))
	for _, name := range names {
		op, err := ParseOperation(name)
		if err != nil {
			return nil, err
		}
		if !set.Contains(op) {
			set = append(set, op)
		}
	}
	if set.IsMixed() {
		return OperationSet{Mixed}, nil
	}
	return set, nil
}
