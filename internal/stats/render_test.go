package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/mathdrill/internal/model"
)

func TestRenderFactTable(t *testing.T) {
	report := Report{Facts: []model.FactAggregate{
		{Fact: "7+3", Correct: 9, Incorrect: 1, LatencySumMs: 30000, LatencyCount: 10},
		{Fact: "9-4", Correct: 1, Incorrect: 4, LatencySumMs: 10000, LatencyCount: 5},
	}}
	var buf bytes.Buffer
	if err := RenderFactTable(&buf, report); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Per-Fact") {
		t.Fatalf("missing title:\n%s", out)
	}
	weak := strings.Index(out, "9-4")
	strong := strings.Index(out, "7+3")
	if weak < 0 || strong < 0 || weak > strong {
		t.Fatalf("expected weakest fact first:\n%s", out)
	}
	if !strings.Contains(out, "20.00%") || !strings.Contains(out, "2.00") {
		t.Fatalf("unexpected accuracy or latency:\n%s", out)
	}
}

func TestRenderFactTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderFactTable(&buf, Report{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No fact stats found.") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
