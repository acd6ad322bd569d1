// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mathdrill/internal/history"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/session"
	statsPkg "github.com/verte-zerg/mathdrill/internal/stats"
	"github.com/verte-zerg/mathdrill/internal/store"
)

const answerLogLimit = 8

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	counterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mistakesStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
)

type logEntry struct {
	text    string
	correct bool
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	sess *session.Session
	hist *history.Log
	st   *store.Store

	input textinput.Model

	width  int
	height int

	answerLog []logEntry
	warnMsg   string

	done        bool
	summary     model.SessionSummary
	saveNotices []string

	lastAcc float64
	hasLast bool
	allAcc  float64
	allTime float64
	hasAll  bool
}

// NewModel constructs a practice TUI model. The store may be nil when the
// attempt database could not be opened.
func NewModel(sess *session.Session, hist *history.Log, st *store.Store) *Model {
	input := textinput.New()
	input.Placeholder = "answer"
	input.CharLimit = 12
	input.Width = 14
	input.Focus()

	m := &Model{
		sess:  sess,
		hist:  hist,
		st:    st,
		input: input,
	}
	m.loadFooterStats()
	m.sess.Start()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.done {
				return m, tea.Quit
			}
			m.submitAnswer()
			return m, nil
		}
		if m.done && msg.String() == "q" {
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	if m.done {
		content = m.viewSummary()
	} else {
		content = m.viewQuestion()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) submitAnswer() {
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return
	}
	problem := m.sess.Current()
	res, err := m.sess.SubmitText(raw)
	if err != nil {
		if errors.Is(err, session.ErrNotInteger) {
			m.warnMsg = "Integers only!"
			m.input.SetValue("")
			return
		}
		m.warnMsg = err.Error()
		return
	}
	m.warnMsg = ""
	m.input.SetValue("")
	m.pushLogEntry(problem.Prompt, res)
	if m.sess.State() == session.Completed {
		m.finish()
	}
}

func (m *Model) pushLogEntry(prompt string, res session.Result) {
	text := compactEquation(prompt, res.Given)
	if !res.Correct {
		text = fmt.Sprintf("%s (%d)", text, res.Expected)
	}
	m.answerLog = append(m.answerLog, logEntry{text: text, correct: res.Correct})
	if len(m.answerLog) > answerLogLimit {
		m.answerLog = m.answerLog[len(m.answerLog)-answerLogLimit:]
	}
}

// compactEquation substitutes the user's answer into the prompt blank.
func compactEquation(prompt string, given int) string {
	answer := strconv.Itoa(given)
	if strings.Contains(prompt, "_") {
		return strings.Replace(prompt, "_", answer, 1)
	}
	return strings.TrimRight(prompt, " ") + " " + answer
}

func (m *Model) finish() {
	summary, err := m.sess.Summary()
	if err != nil {
		m.saveNotices = append(m.saveNotices, fmt.Sprintf("failed to compute summary: %v", err))
		m.done = true
		return
	}
	m.summary = summary
	m.done = true

	user := m.sess.Config().User
	if err := m.hist.Append(user, summary); err != nil {
		m.saveNotices = append(m.saveNotices, fmt.Sprintf("could not save history: %v", err))
	} else {
		m.saveNotices = append(m.saveNotices, fmt.Sprintf("Stats saved to %s", m.hist.FileFor(user)))
	}
	if m.st != nil {
		rec, facts, err := m.sess.Record()
		if err != nil {
			m.saveNotices = append(m.saveNotices, fmt.Sprintf("could not record attempts: %v", err))
		} else if _, err := m.st.InsertSession(context.Background(), rec, facts); err != nil {
			m.saveNotices = append(m.saveNotices, fmt.Sprintf("could not save attempts: %v", err))
		}
	}
	m.lastAcc = summary.AccuracyPercent
	m.hasLast = true
}

func (m *Model) viewQuestion() string {
	var b strings.Builder
	counter := fmt.Sprintf("Question %d of %d", m.sess.QuestionNumber(), m.sess.Config().Questions)
	b.WriteString(counterStyle.Render(counter))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render(m.sess.Current().Prompt))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.warnMsg != "" {
		b.WriteString(warnStyle.Render(m.warnMsg))
		b.WriteString("\n")
	}
	if len(m.answerLog) > 0 {
		b.WriteString("\n")
		for i := len(m.answerLog) - 1; i >= 0; i-- {
			entry := m.answerLog[i]
			if entry.correct {
				b.WriteString(correctStyle.Render("✔ " + entry.text))
			} else {
				b.WriteString(wrongStyle.Render("✘ " + entry.text))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) viewSummary() string {
	var b strings.Builder
	b.WriteString(summaryStyle.Render("Session complete!"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Accuracy: %.1f%%\n", m.summary.AccuracyPercent))
	b.WriteString(fmt.Sprintf("Avg Time: %.2fs\n", m.summary.AvgTimeSeconds))
	mistakes := m.sess.Mistakes()
	if len(mistakes) > 0 {
		b.WriteString("\nMistakes:\n")
		for _, mk := range mistakes {
			line := fmt.Sprintf("  %s -> You said %d (Correct: %d)", mk.Prompt, mk.Given, mk.Correct)
			b.WriteString(mistakesStyle.Render(line))
			b.WriteString("\n")
		}
	}
	for _, notice := range m.saveNotices {
		b.WriteString("\n")
		b.WriteString(footerStyle.Render(notice))
	}
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("Press Enter or q to exit."))
	return b.String()
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if !m.done {
		correct := m.sess.CorrectCount()
		answered := m.sess.QuestionNumber() - 1
		if m.sess.State() == session.Completed {
			answered = m.sess.Config().Questions
		}
		if answered > 0 {
			segments = append(segments, fmt.Sprintf("Session %d/%d correct", correct, answered))
		}
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f%%", m.lastAcc))
	}
	if m.hasAll {
		segments = append(segments, fmt.Sprintf("All-time %.1f%% · %.2fs/q", m.allAcc, m.allTime))
	}
	if len(segments) == 0 {
		return ""
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) loadFooterStats() {
	rows, err := m.hist.Load(m.sess.Config().User)
	if err != nil {
		if !errors.Is(err, history.ErrNoHistory) {
			logErrf("failed to load history stats: %v\n", err)
		}
		return
	}
	if len(rows) == 0 {
		return
	}
	m.lastAcc = rows[len(rows)-1].Accuracy
	m.hasLast = true
	lt := statsPkg.LifetimeStats(rows)
	m.allAcc = lt.AvgAccuracy
	m.allTime = lt.AvgTimeSeconds
	m.hasAll = true
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
