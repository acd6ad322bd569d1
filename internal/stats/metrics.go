// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// Lifetime aggregates a user's entire history.
type Lifetime struct {
	Sessions       int
	TotalQuestions int
	AvgAccuracy    float64
	AvgTimeSeconds float64
}

// DailyAggregate summarizes all sessions of one calendar day.
type DailyAggregate struct {
	Day       time.Time
	Sessions  int
	Accuracy  float64
	AvgTime   float64
	Questions int
}

// LifetimeStats computes overall aggregates across history rows.
func LifetimeStats(rows []model.HistoryRow) Lifetime {
	if len(rows) == 0 {
		return Lifetime{}
	}
	var accSum, timeSum float64
	totalQ := 0
	for _, row := range rows {
		accSum += row.Accuracy
		timeSum += row.AvgTime
		totalQ += row.Questions
	}
	n := float64(len(rows))
	return Lifetime{
		Sessions:       len(rows),
		TotalQuestions: totalQ,
		AvgAccuracy:    accSum / n,
		AvgTimeSeconds: timeSum / n,
	}
}

// AggregateDaily groups history rows by calendar day: mean accuracy, mean
// avg-time, summed question count.
func AggregateDaily(rows []model.HistoryRow) []DailyAggregate {
	type bucket struct {
		accSum  float64
		timeSum float64
		count   int
		qSum    int
	}
	buckets := map[time.Time]*bucket{}
	for _, row := range rows {
		day := time.Date(row.Timestamp.Year(), row.Timestamp.Month(), row.Timestamp.Day(), 0, 0, 0, 0, row.Timestamp.Location())
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.accSum += row.Accuracy
		b.timeSum += row.AvgTime
		b.count++
		b.qSum += row.Questions
	}
	out := make([]DailyAggregate, 0, len(buckets))
	for day, b := range buckets {
		out = append(out, DailyAggregate{
			Day:       day,
			Sessions:  b.count,
			Accuracy:  b.accSum / float64(b.count),
			AvgTime:   b.timeSum / float64(b.count),
			Questions: b.qSum,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Day.Before(out[j].Day)
	})
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}
