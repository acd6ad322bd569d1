// Package history handles the per-user CSV session log.
package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// ErrNoHistory reports that a user has no history log yet. It is a normal
// condition, not a failure.
var ErrNoHistory = errors.New("no history for user")

// TimestampLayout is the on-disk timestamp format.
const TimestampLayout = "2006-01-02 15:04:05"

var header = []string{"Timestamp", "Accuracy", "AvgTime", "Questions", "Operation", "Mode"}

// Log reads and appends per-user history files in a single directory.
type Log struct {
	dir string
}

// NewLog returns a Log rooted at dir. The directory is created lazily on the
// first append.
func NewLog(dir string) *Log {
	return &Log{dir: dir}
}

// SanitizeUser reduces a user identifier to lowercase alphanumerics.
func SanitizeUser(user string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(user) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FileFor returns the log path for a user.
func (l *Log) FileFor(user string) string {
	return filepath.Join(l.dir, SanitizeUser(user)+".csv")
}

// Append writes one summary row to the user's log, creating the file with a
// header row when it does not exist yet.
func (l *Log) Append(user string, summary model.SessionSummary) error {
	name := SanitizeUser(user)
	if name == "" {
		return fmt.Errorf("user %q is empty after sanitizing", user)
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}
	path := l.FileFor(name)
	_, statErr := os.Stat(path)
	if statErr != nil && !os.IsNotExist(statErr) {
		return fmt.Errorf("failed to stat history: %w", statErr)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close after flush.
			_ = cerr
		}
	}()

	writer := csv.NewWriter(file)
	if os.IsNotExist(statErr) {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("failed to write history header: %w", err)
		}
	}
	row := []string{
		summary.Timestamp.Format(TimestampLayout),
		fmt.Sprintf("%.2f", summary.AccuracyPercent),
		fmt.Sprintf("%.2f", summary.AvgTimeSeconds),
		strconv.Itoa(summary.Questions),
		string(summary.Operation),
		string(summary.Mode),
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("failed to write history row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush history: %w", err)
	}
	return nil
}

// Load parses a user's log in file order. Malformed rows are skipped
// individually. A missing log yields ErrNoHistory.
func (l *Log) Load(user string) ([]model.HistoryRow, error) {
	name := SanitizeUser(user)
	if name == "" {
		return nil, fmt.Errorf("user %q is empty after sanitizing", user)
	}
	file, err := os.Open(l.FileFor(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoHistory
		}
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	var rows []model.HistoryRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A row with broken quoting only loses itself, not the log.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("failed to read history: %w", err)
		}
		row, ok := parseRow(record)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ListUsers returns the users with a history log, sorted.
func (l *Log) ListUsers() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history dir: %w", err)
	}
	users := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".csv") {
			continue
		}
		users = append(users, strings.TrimSuffix(name, ".csv"))
	}
	sort.Strings(users)
	return users, nil
}

func parseRow(record []string) (model.HistoryRow, bool) {
	if len(record) < 6 {
		return model.HistoryRow{}, false
	}
	ts, err := time.ParseInLocation(TimestampLayout, record[0], time.Local)
	if err != nil {
		return model.HistoryRow{}, false
	}
	acc, err := strconv.ParseFloat(record[1], 64)
	if err != nil {
		return model.HistoryRow{}, false
	}
	avg, err := strconv.ParseFloat(record[2], 64)
	if err != nil {
		return model.HistoryRow{}, false
	}
	questions, err := strconv.Atoi(record[3])
	if err != nil {
		return model.HistoryRow{}, false
	}
	return model.HistoryRow{
		Timestamp: ts,
		Accuracy:  acc,
		AvgTime:   avg,
		Questions: questions,
		Operation: record[4],
		Mode:      record[5],
	}, true
}
