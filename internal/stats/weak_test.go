package stats

import (
	"testing"

	"github.com/verte-zerg/mathdrill/internal/model"
)

func TestSelectWeakFacts(t *testing.T) {
	aggs := []model.FactAggregate{
		{Fact: "7+3", Correct: 9, Incorrect: 1},
		{Fact: "9-4", Correct: 1, Incorrect: 4},
		{Fact: "6+6", Correct: 2, Incorrect: 2},
	}
	weak := SelectWeakFacts(aggs, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 facts, got %d", len(weak))
	}
	if weak[0] != "9-4" || weak[1] != "6+6" {
		t.Fatalf("unexpected order: %v", weak)
	}
}

func TestSelectWeakFactsTopZeroTakesAll(t *testing.T) {
	aggs := []model.FactAggregate{
		{Fact: "7+3", Correct: 1, Incorrect: 0},
		{Fact: "9-4", Correct: 0, Incorrect: 1},
	}
	weak := SelectWeakFacts(aggs, 0)
	if len(weak) != 2 {
		t.Fatalf("expected all facts, got %v", weak)
	}
}

func TestSelectWeakFactsEmpty(t *testing.T) {
	if weak := SelectWeakFacts(nil, 3); weak != nil {
		t.Fatalf("expected nil, got %v", weak)
	}
}

func TestFactRows(t *testing.T) {
	aggs := []model.FactAggregate{
		{Fact: "7+3", Correct: 9, Incorrect: 1, LatencySumMs: 30000, LatencyCount: 10},
		{Fact: "9-4", Correct: 1, Incorrect: 4, LatencySumMs: 10000, LatencyCount: 5},
		{Fact: "6+6", Correct: 1, Incorrect: 4},
	}
	rows := FactRows(aggs)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	// Lowest accuracy first, ties broken by fact.
	if rows[0].Fact != "6+6" || rows[1].Fact != "9-4" || rows[2].Fact != "7+3" {
		t.Fatalf("unexpected order: %+v", rows)
	}
	if rows[2].Accuracy != 0.9 {
		t.Fatalf("expected accuracy 0.9, got %v", rows[2].Accuracy)
	}
	if rows[2].AvgSeconds != 3.0 {
		t.Fatalf("expected 3.0s avg, got %v", rows[2].AvgSeconds)
	}
	if rows[0].AvgSeconds != 0 {
		t.Fatalf("expected zero avg without latency samples, got %v", rows[0].AvgSeconds)
	}
}
