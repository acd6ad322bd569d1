// Package generator builds randomized arithmetic problems.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// Problem is one generated question: a rendered prompt and its expected answer.
type Problem struct {
	Prompt  string
	Answer  int
	Op      model.Operation
	Pattern model.Mode
	Fact    string
}

// Generator produces randomized addition/subtraction problems.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator drawing from the given source.
// Fixing the source makes the output sequence deterministic.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Generate produces the next problem for the given limits and filters.
// Inputs are pre-validated by the caller: maxNumber >= 0 and the filter
// values are members of their enumerated sets.
func (g *Generator) Generate(maxNumber int, operation model.Operation, mode model.Mode) Problem {
	op := g.resolveOperation(operation)
	hidden := g.resolvePattern(mode)
	if op == model.OpAddition {
		a := g.rnd.Intn(maxNumber + 1)
		b := g.rnd.Intn(maxNumber + 1)
		return buildProblem(a, b, model.OpAddition, hidden)
	}
	// operand_b <= operand_a keeps subtraction results non-negative.
	a := g.rnd.Intn(maxNumber + 1)
	b := g.rnd.Intn(a + 1)
	return buildProblem(a, b, model.OpSubtraction, hidden)
}

// GenerateFocused biases generation toward a weak-fact set. With probability
// factor/(factor+1) it rebuilds a problem from a weak fact (re-rolling the
// hide pattern), otherwise it falls back to a fresh draw. Weak facts whose
// operands exceed maxNumber or whose operation is filtered out are ignored.
func (g *Generator) GenerateFocused(maxNumber int, operation model.Operation, mode model.Mode, weak []string, factor float64) Problem {
	eligible := filterFacts(weak, maxNumber, operation)
	if len(eligible) == 0 || factor <= 0 {
		return g.Generate(maxNumber, operation, mode)
	}
	if g.rnd.Float64() >= factor/(factor+1) {
		return g.Generate(maxNumber, operation, mode)
	}
	a, b, op, _ := parseFact(eligible[g.rnd.Intn(len(eligible))])
	return buildProblem(a, b, op, g.resolvePattern(mode))
}

func (g *Generator) resolveOperation(operation model.Operation) model.Operation {
	if operation != model.OpBoth {
		return operation
	}
	if g.rnd.Intn(2) == 0 {
		return model.OpAddition
	}
	return model.OpSubtraction
}

func (g *Generator) resolvePattern(mode model.Mode) bool {
	switch mode {
	case model.ModeMissing:
		return true
	case model.ModeMixed:
		return g.rnd.Intn(2) == 0
	default:
		return false
	}
}

func buildProblem(a, b int, op model.Operation, hidden bool) Problem {
	sign := "+"
	result := a + b
	if op == model.OpSubtraction {
		sign = "-"
		result = a - b
	}
	p := Problem{
		Op:      op,
		Pattern: model.ModeStandard,
		Fact:    fmt.Sprintf("%d%s%d", a, sign, b),
	}
	if hidden {
		p.Pattern = model.ModeMissing
		p.Prompt = fmt.Sprintf("%d %s _ = %d", a, sign, result)
		p.Answer = b
		return p
	}
	p.Prompt = fmt.Sprintf("%d %s %d = ", a, sign, b)
	p.Answer = result
	return p
}

func filterFacts(facts []string, maxNumber int, operation model.Operation) []string {
	out := make([]string, 0, len(facts))
	for _, fact := range facts {
		a, b, op, ok := parseFact(fact)
		if !ok {
			continue
		}
		if a > maxNumber || b > maxNumber {
			continue
		}
		if operation != model.OpBoth && op != operation {
			continue
		}
		out = append(out, fact)
	}
	return out
}

func parseFact(fact string) (a, b int, op model.Operation, ok bool) {
	if n, err := fmt.Sscanf(fact, "%d+%d", &a, &b); err == nil && n == 2 {
		return a, b, model.OpAddition, true
	}
	if n, err := fmt.Sscanf(fact, "%d-%d", &a, &b); err == nil && n == 2 {
		return a, b, model.OpSubtraction, true
	}
	return 0, 0, "", false
}
