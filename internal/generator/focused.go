package generator

import "github.com/verte-zerg/mathdrill/internal/model"

// Focused wraps a Generator so every draw is biased toward a weak-fact set.
type Focused struct {
	gen    *Generator
	weak   []string
	factor float64
}

// NewFocused builds a focused source over the given weak facts.
func NewFocused(gen *Generator, weak []string, factor float64) *Focused {
	return &Focused{gen: gen, weak: weak, factor: factor}
}

// Generate draws the next problem with weak-fact bias.
func (f *Focused) Generate(maxNumber int, operation model.Operation, mode model.Mode) Problem {
	return f.gen.GenerateFocused(maxNumber, operation, mode, f.weak, f.factor)
}
