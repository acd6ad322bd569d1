// Package session sequences problem generation, scoring, and mistake
// tracking across a fixed number of questions.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/mathdrill/internal/generator"
	"github.com/verte-zerg/mathdrill/internal/history"
	"github.com/verte-zerg/mathdrill/internal/model"
)

// ErrNotInteger reports an answer that could not be parsed as an integer.
// It is recoverable: the caller re-prompts without advancing the question.
var ErrNotInteger = errors.New("answer is not an integer")

// ErrNotCompleted reports a summary request before the session finished.
var ErrNotCompleted = errors.New("session is not completed")

// Source produces the next problem for a session. Satisfied by
// *generator.Generator; tests supply scripted sources.
type Source interface {
	Generate(maxNumber int, operation model.Operation, mode model.Mode) generator.Problem
}

// State tracks session lifecycle.
type State int

// Session lifecycle states.
const (
	NotStarted State = iota
	InProgress
	Completed
)

// Result reports the outcome of one submitted answer.
type Result struct {
	Correct  bool
	Expected int
	Given    int
}

// Session drives a single practice run. One instance per session; Completed
// is terminal and a new run requires a fresh instance.
type Session struct {
	cfg    model.Config
	source Source

	state   State
	index   int
	correct int

	current       generator.Problem
	questionStart time.Time
	startedAt     time.Time

	latencies []float64
	mistakes  []model.Mistake
	factStats map[string]*model.FactStats

	now func() time.Time
}

// New validates the configuration and returns a fresh session in NotStarted.
func New(cfg model.Config, source Source) (*Session, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &Session{
		cfg:       cfg,
		source:    source,
		factStats: map[string]*model.FactStats{},
		now:       time.Now,
	}, nil
}

// ValidateConfig rejects invalid practice settings before a session starts.
func ValidateConfig(cfg model.Config) error {
	if cfg.Questions <= 0 {
		return fmt.Errorf("questions must be > 0, got %d", cfg.Questions)
	}
	if cfg.MaxNumber < 0 {
		return fmt.Errorf("max number must be >= 0, got %d", cfg.MaxNumber)
	}
	if _, err := model.ParseOperation(string(cfg.Operation)); err != nil {
		return err
	}
	if _, err := model.ParseMode(string(cfg.Mode)); err != nil {
		return err
	}
	if history.SanitizeUser(cfg.User) == "" {
		return fmt.Errorf("user %q is empty after sanitizing", cfg.User)
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("weak-top must be >= 0, got %d", cfg.WeakTop)
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("weak-factor must be >= 0, got %v", cfg.WeakFactor)
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("weak-window must be >= 0, got %d", cfg.WeakWindow)
	}
	return nil
}

// Start transitions NotStarted -> InProgress and draws the first problem.
func (s *Session) Start() {
	if s.state != NotStarted {
		return
	}
	s.state = InProgress
	s.startedAt = s.now()
	s.nextProblem()
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Config returns the session configuration.
func (s *Session) Config() model.Config {
	return s.cfg
}

// Current returns the pending problem. Valid only while InProgress.
func (s *Session) Current() generator.Problem {
	return s.current
}

// QuestionNumber returns the 1-based index of the pending question.
func (s *Session) QuestionNumber() int {
	return s.index + 1
}

// CorrectCount returns the number of correctly answered questions so far.
func (s *Session) CorrectCount() int {
	return s.correct
}

// SubmitText parses a raw answer and submits it. A non-integer input yields
// ErrNotInteger and leaves the question, timer sample, and index untouched.
func (s *Session) SubmitText(input string) (Result, error) {
	answer, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return Result{}, ErrNotInteger
	}
	return s.Submit(answer)
}

// Submit scores one answer for the pending question, records its latency,
// and advances the session. After the final question the session transitions
// to Completed.
func (s *Session) Submit(answer int) (Result, error) {
	if s.state != InProgress {
		return Result{}, fmt.Errorf("cannot submit in state %d", s.state)
	}
	elapsed := s.now().Sub(s.questionStart)
	s.latencies = append(s.latencies, elapsed.Seconds())

	res := Result{Correct: answer == s.current.Answer, Expected: s.current.Answer, Given: answer}
	entry := s.factEntry(s.current.Fact)
	if res.Correct {
		s.correct++
		entry.Correct++
	} else {
		entry.Incorrect++
		s.mistakes = append(s.mistakes, model.Mistake{
			Prompt:  s.current.Prompt,
			Given:   answer,
			Correct: s.current.Answer,
		})
	}
	entry.LatencySumMs += elapsed.Milliseconds()
	entry.LatencyCount++

	s.index++
	if s.index >= s.cfg.Questions {
		s.state = Completed
		return res, nil
	}
	s.nextProblem()
	return res, nil
}

// Summary computes the final aggregates. Valid only once Completed.
func (s *Session) Summary() (model.SessionSummary, error) {
	if s.state != Completed {
		return model.SessionSummary{}, ErrNotCompleted
	}
	var total float64
	for _, v := range s.latencies {
		total += v
	}
	return model.SessionSummary{
		Timestamp:       s.now(),
		AccuracyPercent: 100 * float64(s.correct) / float64(s.cfg.Questions),
		AvgTimeSeconds:  total / float64(len(s.latencies)),
		Questions:       s.cfg.Questions,
		Operation:       s.cfg.Operation,
		Mode:            s.cfg.Mode,
	}, nil
}

// Mistakes returns the recorded mistakes in question order.
func (s *Session) Mistakes() []model.Mistake {
	return s.mistakes
}

// Record builds the attempt-store row for a completed session.
func (s *Session) Record() (model.SessionRecord, []model.FactStats, error) {
	if s.state != Completed {
		return model.SessionRecord{}, nil, ErrNotCompleted
	}
	endedAt := s.now()
	facts := make([]model.FactStats, 0, len(s.factStats))
	for _, fs := range s.factStats {
		facts = append(facts, *fs)
	}
	return model.SessionRecord{
		User:       history.SanitizeUser(s.cfg.User),
		StartedAt:  s.startedAt,
		EndedAt:    endedAt,
		MaxNumber:  s.cfg.MaxNumber,
		Questions:  s.cfg.Questions,
		Operation:  s.cfg.Operation,
		Mode:       s.cfg.Mode,
		Correct:    s.correct,
		DurationMs: endedAt.Sub(s.startedAt).Milliseconds(),
	}, facts, nil
}

func (s *Session) nextProblem() {
	s.current = s.source.Generate(s.cfg.MaxNumber, s.cfg.Operation, s.cfg.Mode)
	s.questionStart = s.now()
}

func (s *Session) factEntry(fact string) *model.FactStats {
	entry, ok := s.factStats[fact]
	if !ok {
		entry = &model.FactStats{Fact: fact}
		s.factStats[fact] = entry
	}
	return entry
}
