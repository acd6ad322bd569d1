package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"
)

func TestSanitizeUser(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Julie", "julie"},
		{"Jasmina", "jasmina"},
		{"J. Doe 2", "jdoe2"},
		{"user_name", "username"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeUser(tc.in); got != tc.want {
			t.Fatalf("SanitizeUser(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAppendAndLoadRoundTrip(t *testing.T) {
	log := NewLog(t.TempDir())
	first := model.SessionSummary{
		Timestamp:       time.Date(2024, 3, 1, 10, 30, 0, 0, time.Local),
		AccuracyPercent: 87.5,
		AvgTimeSeconds:  3.21,
		Questions:       8,
		Operation:       model.OpAddition,
		Mode:            model.ModeStandard,
	}
	second := model.SessionSummary{
		Timestamp:       time.Date(2024, 3, 2, 9, 0, 0, 0, time.Local),
		AccuracyPercent: 100,
		AvgTimeSeconds:  2.5,
		Questions:       10,
		Operation:       model.OpBoth,
		Mode:            model.ModeMixed,
	}
	if err := log.Append("Julie", first); err != nil {
		t.Fatalf("append first: %v", err)
	}
	if err := log.Append("Julie", second); err != nil {
		t.Fatalf("append second: %v", err)
	}

	rows, err := log.Load("Julie")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !rows[0].Timestamp.Equal(first.Timestamp) || rows[0].Accuracy != 87.5 || rows[0].AvgTime != 3.21 {
		t.Fatalf("first row mangled: %+v", rows[0])
	}
	if rows[0].Questions != 8 || rows[0].Operation != "addition" || rows[0].Mode != "standard" {
		t.Fatalf("first row mangled: %+v", rows[0])
	}
	if rows[1].Accuracy != 100 || rows[1].Questions != 10 {
		t.Fatalf("second row mangled: %+v", rows[1])
	}
}

func TestHeaderWrittenOnce(t *testing.T) {
	dir := t.TempDir()
	log := NewLog(dir)
	summary := model.SessionSummary{
		Timestamp: time.Now(), AccuracyPercent: 50, AvgTimeSeconds: 1,
		Questions: 2, Operation: model.OpAddition, Mode: model.ModeStandard,
	}
	if err := log.Append("kid", summary); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := log.Append("kid", summary); err != nil {
		t.Fatalf("append: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "kid.csv"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if got := strings.Count(string(data), "Timestamp,Accuracy"); got != 1 {
		t.Fatalf("expected 1 header, found %d", got)
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	content := strings.Join([]string{
		"Timestamp,Accuracy,AvgTime,Questions,Operation,Mode",
		"2024-03-01 10:30:00,90.00,2.00,10,addition,standard",
		"not-a-date,90.00,2.00,10,addition,standard",
		"2024-03-01 11:00:00,abc,2.00,10,addition,standard",
		`2024-03-01 11:30:00,9"0.00,2.00,10,addition,standard`,
		"2024-03-02 10:30:00,80.00,3.00,5,subtraction,missing",
		`"2024-03-02 11:00:00,70.00,3.00,5,subtraction,missing`,
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(dir, "kid.csv"), []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	log := NewLog(dir)
	rows, err := log.Load("kid")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 valid rows, got %d", len(rows))
	}
	if rows[0].Accuracy != 90 || rows[1].Accuracy != 80 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestLoadMissingHistory(t *testing.T) {
	log := NewLog(t.TempDir())
	if _, err := log.Load("nobody"); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
}

func TestAppendRejectsUnsanitizableUser(t *testing.T) {
	log := NewLog(t.TempDir())
	err := log.Append("!!!", model.SessionSummary{Questions: 1})
	if err == nil {
		t.Fatalf("expected error for unsanitizable user")
	}
}

func TestListUsers(t *testing.T) {
	dir := t.TempDir()
	log := NewLog(dir)
	summary := model.SessionSummary{
		Timestamp: time.Now(), AccuracyPercent: 50, AvgTimeSeconds: 1,
		Questions: 2, Operation: model.OpAddition, Mode: model.ModeStandard,
	}
	for _, user := range []string{"Julie", "Jasmina"} {
		if err := log.Append(user, summary); err != nil {
			t.Fatalf("append %s: %v", user, err)
		}
	}
	users, err := log.ListUsers()
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 || users[0] != "jasmina" || users[1] != "julie" {
		t.Fatalf("unexpected users: %v", users)
	}
}

func TestListUsersMissingDir(t *testing.T) {
	log := NewLog(filepath.Join(t.TempDir(), "does-not-exist"))
	users, err := log.ListUsers()
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected no users, got %v", users)
	}
}
