package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/mathdrill/internal/history"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/store"
)

func seedHistory(t *testing.T, log *history.Log, user string, n int) {
	t.Helper()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	for i := 0; i < n; i++ {
		summary := model.SessionSummary{
			Timestamp:       base.AddDate(0, 0, i),
			AccuracyPercent: float64(50 + 10*i),
			AvgTimeSeconds:  2,
			Questions:       10,
			Operation:       model.OpBoth,
			Mode:            model.ModeMixed,
		}
		if err := log.Append(user, summary); err != nil {
			t.Fatalf("append session %d: %v", i, err)
		}
	}
}

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	log := history.NewLog(filepath.Join(dir, "history"))
	seedHistory(t, log, "julie", 4)

	st, err := store.Open(filepath.Join(dir, "mathdrill.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	rec := model.SessionRecord{
		User: "julie", StartedAt: time.Unix(0, 0), EndedAt: time.Unix(60, 0),
		MaxNumber: 10, Questions: 2, Operation: model.OpBoth, Mode: model.ModeMixed,
		Correct: 1, DurationMs: 60000,
	}
	facts := []model.FactStats{
		{Fact: "7+3", Correct: 1, Incorrect: 0, LatencySumMs: 1500, LatencyCount: 1},
		{Fact: "9-4", Correct: 0, Incorrect: 1, LatencySumMs: 2500, LatencyCount: 1},
	}
	if _, err := st.InsertSession(ctx, rec, facts); err != nil {
		t.Fatalf("insert session: %v", err)
	}

	cfg := model.StatsConfig{User: "Julie", Last: 2, CurveWindow: 2}
	report, err := BuildReport(ctx, log, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.User != "julie" {
		t.Fatalf("user %q", report.User)
	}
	if len(report.Rows) != 2 {
		t.Fatalf("expected 2 rows after --last, got %d", len(report.Rows))
	}
	if report.Rows[0].Accuracy != 70 || report.Rows[1].Accuracy != 80 {
		t.Fatalf("unexpected rows: %+v", report.Rows)
	}
	if report.Lifetime.Sessions != 2 || report.Lifetime.TotalQuestions != 20 {
		t.Fatalf("unexpected lifetime: %+v", report.Lifetime)
	}
	if len(report.Daily) != 2 {
		t.Fatalf("expected 2 daily aggregates, got %d", len(report.Daily))
	}
	if len(report.Facts) != 2 {
		t.Fatalf("expected 2 fact aggregates, got %d", len(report.Facts))
	}
}

func TestBuildReportSinceFilter(t *testing.T) {
	dir := t.TempDir()
	log := history.NewLog(dir)
	seedHistory(t, log, "julie", 3)

	since := time.Date(2024, 3, 2, 0, 0, 0, 0, time.Local)
	cfg := model.StatsConfig{User: "julie", Since: &since}
	report, err := BuildReport(context.Background(), log, nil, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Rows) != 2 {
		t.Fatalf("expected 2 rows after --since, got %d", len(report.Rows))
	}
}

func TestBuildReportNoHistory(t *testing.T) {
	log := history.NewLog(t.TempDir())
	report, err := BuildReport(context.Background(), log, nil, model.StatsConfig{User: "nobody"})
	if err != nil {
		t.Fatalf("missing history should not fail: %v", err)
	}
	if len(report.Rows) != 0 || report.Lifetime.Sessions != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
