package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "mathdrill.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func insertTestSession(t *testing.T, st *Store, user string, endedAt time.Time, facts []model.FactStats) int64 {
	t.Helper()
	rec := model.SessionRecord{
		User:       user,
		StartedAt:  endedAt.Add(-time.Minute),
		EndedAt:    endedAt,
		MaxNumber:  10,
		Questions:  len(facts),
		Operation:  model.OpBoth,
		Mode:       model.ModeMixed,
		Correct:    0,
		DurationMs: 60000,
	}
	id, err := st.InsertSession(context.Background(), rec, facts)
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
	return id
}

func TestInsertAndAggregate(t *testing.T) {
	st := openTestStore(t)
	base := time.Unix(0, 0)
	insertTestSession(t, st, "julie", base, []model.FactStats{
		{Fact: "7+3", Correct: 1, Incorrect: 0, LatencySumMs: 1000, LatencyCount: 1},
		{Fact: "9-4", Correct: 0, Incorrect: 1, LatencySumMs: 3000, LatencyCount: 1},
	})
	insertTestSession(t, st, "julie", base.Add(time.Hour), []model.FactStats{
		{Fact: "7+3", Correct: 0, Incorrect: 1, LatencySumMs: 2000, LatencyCount: 1},
	})

	aggs, err := st.ListFactAggregates(context.Background(), "julie")
	if err != nil {
		t.Fatalf("list aggregates: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 facts, got %d", len(aggs))
	}
	byFact := map[string]model.FactAggregate{}
	for _, agg := range aggs {
		byFact[agg.Fact] = agg
	}
	if agg := byFact["7+3"]; agg.Correct != 1 || agg.Incorrect != 1 || agg.LatencySumMs != 3000 || agg.LatencyCount != 2 {
		t.Fatalf("unexpected 7+3 aggregate %+v", agg)
	}
}

func TestGetWeakFactsWindow(t *testing.T) {
	st := openTestStore(t)
	base := time.Unix(0, 0)
	// Oldest session is the only one containing 2+2; window 2 must exclude it.
	insertTestSession(t, st, "julie", base, []model.FactStats{
		{Fact: "2+2", Correct: 0, Incorrect: 5},
	})
	insertTestSession(t, st, "julie", base.Add(time.Hour), []model.FactStats{
		{Fact: "7+3", Correct: 1, Incorrect: 1},
	})
	insertTestSession(t, st, "julie", base.Add(2*time.Hour), []model.FactStats{
		{Fact: "9-4", Correct: 2, Incorrect: 0},
	})

	aggs, err := st.GetWeakFacts(context.Background(), 2, "julie")
	if err != nil {
		t.Fatalf("get weak facts: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 facts in window, got %d", len(aggs))
	}
	for _, agg := range aggs {
		if agg.Fact == "2+2" {
			t.Fatalf("window leaked oldest session")
		}
	}
}

func TestGetWeakFactsIsolatesUsers(t *testing.T) {
	st := openTestStore(t)
	base := time.Unix(0, 0)
	insertTestSession(t, st, "julie", base, []model.FactStats{
		{Fact: "7+3", Correct: 0, Incorrect: 1},
	})
	insertTestSession(t, st, "jasmina", base.Add(time.Hour), []model.FactStats{
		{Fact: "9-4", Correct: 0, Incorrect: 1},
	})

	aggs, err := st.GetWeakFacts(context.Background(), 10, "jasmina")
	if err != nil {
		t.Fatalf("get weak facts: %v", err)
	}
	if len(aggs) != 1 || aggs[0].Fact != "9-4" {
		t.Fatalf("unexpected aggregates: %+v", aggs)
	}
}

func TestGetWeakFactsZeroWindow(t *testing.T) {
	st := openTestStore(t)
	aggs, err := st.GetWeakFacts(context.Background(), 0, "julie")
	if err != nil {
		t.Fatalf("get weak facts: %v", err)
	}
	if aggs != nil {
		t.Fatalf("expected nil for zero window, got %+v", aggs)
	}
}
