package stats

import (
	"sort"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// FactRow is one per-fact line ready for display.
type FactRow struct {
	Fact       string
	Accuracy   float64 // fraction in [0, 1]
	AvgSeconds float64
	Correct    int
	Incorrect  int
}

// FactRows converts aggregates into display rows sorted by lowest accuracy,
// ties broken by fact.
func FactRows(aggs []model.FactAggregate) []FactRow {
	rows := make([]FactRow, 0, len(aggs))
	for _, agg := range aggs {
		lat := 0.0
		if agg.LatencyCount > 0 {
			lat = float64(agg.LatencySumMs) / float64(agg.LatencyCount) / 1000
		}
		rows = append(rows, FactRow{
			Fact:       agg.Fact,
			Accuracy:   factAccuracy(agg),
			AvgSeconds: lat,
			Correct:    agg.Correct,
			Incorrect:  agg.Incorrect,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Accuracy == rows[j].Accuracy {
			return rows[i].Fact < rows[j].Fact
		}
		return rows[i].Accuracy < rows[j].Accuracy
	})
	return rows
}

// SelectWeakFacts selects the lowest-accuracy facts from aggregates.
func SelectWeakFacts(aggs []model.FactAggregate, top int) []string {
	rows := FactRows(aggs)
	if len(rows) == 0 {
		return nil
	}
	if top <= 0 || top > len(rows) {
		top = len(rows)
	}
	out := make([]string, 0, top)
	for _, row := range rows[:top] {
		out = append(out, row.Fact)
	}
	return out
}

func factAccuracy(agg model.FactAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
