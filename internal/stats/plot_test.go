package stats

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Learning Curves", []Series{
		{Name: "Accuracy %", Values: []float64{50, 60, 80, 70, 90}},
		{Name: "Avg Time s", Values: []float64{5, 4.5, 4, 3.5, 3}},
	}, 12, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Learning Curves") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Scaled per series") {
		t.Fatalf("expected scale note in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 1 + 2 + 4 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
}

func TestPlotSeriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", nil, 10, 4); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty series, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	axisWidth := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	total := 80
	expected := total - axisWidth
	if expected < minPlotWidth {
		expected = minPlotWidth
	}
	if got := PlotWidthFor(total); got != expected {
		t.Fatalf("expected width %d, got %d", expected, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}
