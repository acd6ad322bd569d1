// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/mathdrill/internal/history"
)

// RenderSummary prints lifetime aggregates for a user.
func RenderSummary(w io.Writer, report Report) error {
	if len(report.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	lt := report.Lifetime
	lines := []string{
		"Lifetime",
		fmt.Sprintf("Sessions: %d", lt.Sessions),
		fmt.Sprintf("Total Questions: %d", lt.TotalQuestions),
		fmt.Sprintf("Avg Accuracy: %.1f%%", lt.AvgAccuracy),
		fmt.Sprintf("Avg Speed: %.2fs/q", lt.AvgTimeSeconds),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints learning curves for accuracy and avg time per question,
// smoothed with a moving average and sized to the given total width.
func RenderCurves(w io.Writer, report Report, window, totalWidth, height int, useColor bool) error {
	if len(report.Rows) == 0 {
		return nil
	}
	accs := MovingAverage(report.AccuracySeries(), window)
	times := MovingAverage(report.AvgTimeSeries(), window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Learning Curves", []Series{
		{Name: "Accuracy %", Values: accs},
		{Name: "Avg Time s", Values: times},
	}, width, height, useColor)
}

// RenderSessionTable prints one row per recorded session.
func RenderSessionTable(w io.Writer, report Report) error {
	if len(report.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Sessions"); err != nil {
		return err
	}
	headers := []string{"Timestamp", "Accuracy", "AvgTime", "Questions", "Operation", "Mode"}
	rows := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, []string{
			row.Timestamp.Format(history.TimestampLayout),
			fmt.Sprintf("%.2f%%", row.Accuracy),
			fmt.Sprintf("%.2fs", row.AvgTime),
			strconv.Itoa(row.Questions),
			row.Operation,
			row.Mode,
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderDailyTable prints per-day aggregates: mean accuracy, mean avg time,
// summed question count.
func RenderDailyTable(w io.Writer, report Report) error {
	if len(report.Daily) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Daily Progress"); err != nil {
		return err
	}
	headers := []string{"Day", "Sessions", "Accuracy", "AvgTime", "Questions"}
	rows := make([][]string, 0, len(report.Daily))
	for _, day := range report.Daily {
		rows = append(rows, []string{
			day.Day.Format("2006-01-02"),
			strconv.Itoa(day.Sessions),
			fmt.Sprintf("%.2f%%", day.Accuracy),
			fmt.Sprintf("%.2fs", day.AvgTime),
			strconv.Itoa(day.Questions),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderFactTable prints per-fact aggregates sorted by lowest accuracy.
func RenderFactTable(w io.Writer, report Report) error {
	if len(report.Facts) == 0 {
		_, err := fmt.Fprintln(w, "No fact stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Fact"); err != nil {
		return err
	}
	headers := []string{"Fact", "Accuracy", "Avg Time (s)", "Correct", "Incorrect"}
	rows := FactRows(report.Facts)
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.Fact,
			fmt.Sprintf("%.2f%%", r.Accuracy*100),
			fmt.Sprintf("%.2f", r.AvgSeconds),
			strconv.Itoa(r.Correct),
			strconv.Itoa(r.Incorrect),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
