package stats

import (
	"math"
	"testing"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"
)

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	out := MovingAverage(values, 2)
	want := []float64{1, 1.5, 2.5, 3.5, 4.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: got %v, want %v", i, out[i], want[i])
		}
	}
}

func TestMovingAverageWindowOne(t *testing.T) {
	values := []float64{3, 1, 4}
	out := MovingAverage(values, 1)
	for i := range values {
		if out[i] != values[i] {
			t.Fatalf("window 1 altered values: %v", out)
		}
	}
}

func TestLifetimeStats(t *testing.T) {
	rows := []model.HistoryRow{
		{Accuracy: 80, AvgTime: 2, Questions: 10},
		{Accuracy: 100, AvgTime: 4, Questions: 20},
	}
	lt := LifetimeStats(rows)
	if lt.Sessions != 2 || lt.TotalQuestions != 30 {
		t.Fatalf("unexpected lifetime %+v", lt)
	}
	if lt.AvgAccuracy != 90 || lt.AvgTimeSeconds != 3 {
		t.Fatalf("unexpected lifetime %+v", lt)
	}
}

func TestLifetimeStatsEmpty(t *testing.T) {
	lt := LifetimeStats(nil)
	if lt.Sessions != 0 || lt.AvgAccuracy != 0 {
		t.Fatalf("unexpected lifetime %+v", lt)
	}
}

func TestAggregateDaily(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	day2 := time.Date(2024, 3, 2, 0, 0, 0, 0, time.Local)
	rows := []model.HistoryRow{
		{Timestamp: day2.Add(8 * time.Hour), Accuracy: 70, AvgTime: 5, Questions: 10},
		{Timestamp: day1.Add(10 * time.Hour), Accuracy: 80, AvgTime: 2, Questions: 10},
		{Timestamp: day1.Add(16 * time.Hour), Accuracy: 100, AvgTime: 4, Questions: 20},
	}
	daily := AggregateDaily(rows)
	if len(daily) != 2 {
		t.Fatalf("expected 2 days, got %d", len(daily))
	}
	if !daily[0].Day.Equal(day1) || !daily[1].Day.Equal(day2) {
		t.Fatalf("days out of order: %+v", daily)
	}
	first := daily[0]
	if first.Sessions != 2 || first.Accuracy != 90 || first.AvgTime != 3 || first.Questions != 30 {
		t.Fatalf("unexpected day aggregate %+v", first)
	}
	second := daily[1]
	if second.Sessions != 1 || second.Accuracy != 70 || second.Questions != 10 {
		t.Fatalf("unexpected day aggregate %+v", second)
	}
}
