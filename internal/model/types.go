// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Operation restricts which arithmetic operations a session generates.
type Operation string

// Operation filter values.
const (
	OpAddition    Operation = "addition"
	OpSubtraction Operation = "subtraction"
	OpBoth        Operation = "both"
)

// ParseOperation validates an operation filter string.
func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case OpAddition, OpSubtraction, OpBoth:
		return Operation(s), nil
	}
	return "", fmt.Errorf("operation must be 'addition', 'subtraction', or 'both', got %q", s)
}

// Mode controls whether a problem hides the result or an operand.
type Mode string

// Pattern mode values.
const (
	ModeStandard Mode = "standard"
	ModeMissing  Mode = "missing"
	ModeMixed    Mode = "mixed"
)

// ParseMode validates a pattern mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeStandard, ModeMissing, ModeMixed:
		return Mode(s), nil
	}
	return "", fmt.Errorf("mode must be 'standard', 'missing', or 'mixed', got %q", s)
}

// Config defines practice settings.
type Config struct {
	User       string
	MaxNumber  int
	Questions  int
	Operation  Operation
	Mode       Mode
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	User        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Mistake records a wrongly answered question.
type Mistake struct {
	Prompt  string
	Given   int
	Correct int
}

// SessionSummary aggregates a completed session. Immutable once computed.
type SessionSummary struct {
	Timestamp       time.Time
	AccuracyPercent float64
	AvgTimeSeconds  float64
	Questions       int
	Operation       Operation
	Mode            Mode
}

// HistoryRow is one parsed line of a user's history log.
type HistoryRow struct {
	Timestamp time.Time
	Accuracy  float64
	AvgTime   float64
	Questions int
	Operation string
	Mode      string
}

// FactStats stores per-fact stats for a session. A fact is the underlying
// equation irrespective of which slot was hidden, e.g. "7+3" or "9-4".
type FactStats struct {
	Fact         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// FactAggregate aggregates fact stats across sessions.
type FactAggregate struct {
	Fact         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionRecord captures a completed session for the attempt store.
type SessionRecord struct {
	User       string
	StartedAt  time.Time
	EndedAt    time.Time
	MaxNumber  int
	Questions  int
	Operation  Operation
	Mode       Mode
	Correct    int
	DurationMs int64
}
