// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mathdrill/internal/history"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/stats"
	"github.com/verte-zerg/mathdrill/internal/store"
)

const (
	tabOverview = iota
	tabSessions
	tabDaily
	tabFacts
)

const plotHeight = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	log *history.Log
	st  *store.Store
	cfg model.StatsConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	factTable table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model. The store may be nil when the attempt
// database could not be opened; the Facts tab then stays empty.
func NewModel(log *history.Log, st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		log:  log,
		st:   st,
		cfg:  cfg,
		tabs: []string{"Overview", "Sessions", "Daily", "Facts"},
	}
	m.initViewports()
	m.initFactTable()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.renderTabs()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.activeTab = (m.activeTab + 1) % len(m.tabs)
			return m, nil
		case "shift+tab", "left", "h":
			m.activeTab = (m.activeTab + len(m.tabs) - 1) % len(m.tabs)
			return m, nil
		case "r":
			m.refreshReport()
			return m, nil
		}
	}
	var cmd tea.Cmd
	if m.activeTab == tabFacts {
		m.factTable, cmd = m.factTable.Update(msg)
		return m, cmd
	}
	vp := m.viewports[m.activeTab]
	vp, cmd = vp.Update(msg)
	m.viewports[m.activeTab] = vp
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	nav := m.renderNav()
	header := headerStyle.Render(fmt.Sprintf("User: %s  ·  tab/arrows switch, r reload, q quit", m.report.User))
	body := ""
	if m.errMsg != "" {
		body = errorStyle.Render(m.errMsg)
	} else if m.activeTab == tabFacts {
		body = m.factTable.View()
	} else {
		body = m.viewports[m.activeTab].View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, nav, header, body)
}

func (m *Model) renderNav() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(80, 20)
	}
}

func (m *Model) initFactTable() {
	columns := []table.Column{
		{Title: "Fact", Width: 8},
		{Title: "Accuracy", Width: 10},
		{Title: "Avg Time (s)", Width: 12},
		{Title: "Correct", Width: 8},
		{Title: "Incorrect", Width: 10},
	}
	m.factTable = table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
}

func (m *Model) resize() {
	bodyHeight := m.height - 5
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.factTable.SetHeight(bodyHeight)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.log, m.st, m.cfg)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to build report: %v", err)
		return
	}
	m.errMsg = ""
	m.report = report
	m.renderTabs()
	m.fillFactTable()
}

func (m *Model) renderTabs() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}

	var overview bytes.Buffer
	if err := stats.RenderSummary(&overview, m.report); err == nil {
		_ = stats.RenderCurves(&overview, m.report, m.cfg.CurveWindow, width, plotHeight, true)
	}
	m.viewports[tabOverview].SetContent(overview.String())

	var sessions bytes.Buffer
	_ = stats.RenderSessionTable(&sessions, m.report)
	m.viewports[tabSessions].SetContent(sessions.String())

	var daily bytes.Buffer
	_ = stats.RenderDailyTable(&daily, m.report)
	m.viewports[tabDaily].SetContent(daily.String())
}

func (m *Model) fillFactTable() {
	rows := make([]table.Row, 0, len(m.report.Facts))
	for _, r := range stats.FactRows(m.report.Facts) {
		rows = append(rows, table.Row{
			r.Fact,
			fmt.Sprintf("%.2f%%", r.Accuracy*100),
			fmt.Sprintf("%.2f", r.AvgSeconds),
			strconv.Itoa(r.Correct),
			strconv.Itoa(r.Incorrect),
		})
	}
	m.factTable.SetRows(rows)
}
