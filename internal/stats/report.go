// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"
	"errors"

	"github.com/verte-zerg/mathdrill/internal/history"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	User     string
	Rows     []model.HistoryRow
	Daily    []DailyAggregate
	Lifetime Lifetime
	Facts    []model.FactAggregate
}

// BuildReport loads and prepares a user's data for stats rendering. A missing
// history log yields an empty report, not an error. The attempt store is
// optional; when nil the fact table is left empty.
func BuildReport(ctx context.Context, log *history.Log, st *store.Store, cfg model.StatsConfig) (Report, error) {
	report := Report{User: history.SanitizeUser(cfg.User)}

	rows, err := log.Load(cfg.User)
	if err != nil && !errors.Is(err, history.ErrNoHistory) {
		return Report{}, err
	}
	if cfg.Since != nil {
		filtered := rows[:0]
		for _, row := range rows {
			if row.Timestamp.Before(*cfg.Since) {
				continue
			}
			filtered = append(filtered, row)
		}
		rows = filtered
	}
	if cfg.Last > 0 && len(rows) > cfg.Last {
		rows = rows[len(rows)-cfg.Last:]
	}

	report.Rows = rows
	report.Daily = AggregateDaily(rows)
	report.Lifetime = LifetimeStats(rows)

	if st != nil {
		facts, err := st.ListFactAggregates(ctx, report.User)
		if err != nil {
			return Report{}, err
		}
		report.Facts = facts
	}
	return report, nil
}

// AccuracySeries extracts the per-session accuracy series from the report.
func (r Report) AccuracySeries() []float64 {
	out := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Accuracy
	}
	return out
}

// AvgTimeSeries extracts the per-session avg-time series from the report.
func (r Report) AvgTimeSeries() []float64 {
	out := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.AvgTime
	}
	return out
}
