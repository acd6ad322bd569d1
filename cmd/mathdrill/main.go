// Package main provides the CLI entrypoint for mathdrill.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/mathdrill/internal/config"
	"github.com/verte-zerg/mathdrill/internal/generator"
	"github.com/verte-zerg/mathdrill/internal/history"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/session"
	"github.com/verte-zerg/mathdrill/internal/stats"
	"github.com/verte-zerg/mathdrill/internal/statsui"
	"github.com/verte-zerg/mathdrill/internal/store"
	"github.com/verte-zerg/mathdrill/internal/tui"
)

const (
	defaultUser        = "default"
	defaultMaxNumber   = 10
	defaultQuestions   = 20
	defaultOperation   = "both"
	defaultMode        = "mixed"
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 10
)

var (
	practiceUser       string
	practiceMax        int
	practiceQuestions  int
	practiceOperation  string
	practiceMode       string
	practicePlain      bool
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int

	statsUser        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mathdrill",
		Short:         "Terminal arithmetic drill trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceUser, "user", defaultUser, "user the session is recorded for")
	rootCmd.Flags().IntVar(&practiceMax, "max", defaultMaxNumber, "maximum operand value")
	rootCmd.Flags().IntVar(&practiceQuestions, "questions", defaultQuestions, "questions per session")
	rootCmd.Flags().StringVar(&practiceOperation, "operation", defaultOperation, "'addition', 'subtraction', or 'both'")
	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "'standard', 'missing', or 'mixed'")
	rootCmd.Flags().BoolVar(&practicePlain, "plain", false, "line-oriented front end instead of the TUI")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias generation toward weak facts")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak facts to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak facts")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak facts")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newUsersCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "user", &practiceUser, fileCfg.Practice.User)
	applyIntConfig(cmd, "max", &practiceMax, fileCfg.Practice.MaxNumber)
	applyIntConfig(cmd, "questions", &practiceQuestions, fileCfg.Practice.Questions)
	applyStringConfig(cmd, "operation", &practiceOperation, fileCfg.Practice.Operation)
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)

	cfg := model.Config{
		User:       practiceUser,
		MaxNumber:  practiceMax,
		Questions:  practiceQuestions,
		Operation:  model.Operation(practiceOperation),
		Mode:       model.Mode(practiceMode),
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
	}
	if err := session.ValidateConfig(cfg); err != nil {
		return err
	}

	hist := history.NewLog(config.DefaultHistoryDir())

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open attempt db: %v\n", err)
		st = nil
	} else {
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close attempt db: %v\n", cerr)
			}
		}()
	}

	gen := generator.New()
	var source session.Source = gen
	if cfg.FocusWeak {
		weak := loadWeakFacts(st, cfg)
		if len(weak) == 0 {
			logErrln("no stats available for weak-fact focus yet; using normal generator")
		} else {
			source = generator.NewFocused(gen, weak, cfg.WeakFactor)
		}
	}

	sess, err := session.New(cfg, source)
	if err != nil {
		return err
	}

	if practicePlain {
		return runPlain(sess, hist, st)
	}

	model := tui.NewModel(sess, hist, st)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func loadWeakFacts(st *store.Store, cfg model.Config) []string {
	if st == nil {
		return nil
	}
	aggs, err := st.GetWeakFacts(context.Background(), cfg.WeakWindow, history.SanitizeUser(cfg.User))
	if err != nil {
		logErrf("failed to load weak facts: %v\n", err)
		return nil
	}
	return stats.SelectWeakFacts(aggs, cfg.WeakTop)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show historical progress",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsUser, "user", defaultUser, "user to report on")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print the report instead of opening the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "user", &statsUser, fileCfg.Practice.User)
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if history.SanitizeUser(statsUser) == "" {
		return fmt.Errorf("user %q is empty after sanitizing", statsUser)
	}

	cfg := model.StatsConfig{
		User:        statsUser,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	hist := history.NewLog(config.DefaultHistoryDir())
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open attempt db: %v\n", err)
		st = nil
	} else {
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close attempt db: %v\n", cerr)
			}
		}()
	}

	if statsPlain {
		return renderPlainStats(hist, st, cfg)
	}

	model := statsui.NewModel(hist, st, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(hist *history.Log, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(context.Background(), hist, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := os.Stdout
	if err := stats.RenderSummary(out, report); err != nil {
		return err
	}
	if err := stats.RenderCurves(out, report, cfg.CurveWindow, 0, 0, false); err != nil {
		return err
	}
	if err := stats.RenderSessionTable(out, report); err != nil {
		return err
	}
	if err := stats.RenderDailyTable(out, report); err != nil {
		return err
	}
	return stats.RenderFactTable(out, report)
}

func newUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users with history",
		Args:  cobra.NoArgs,
		RunE:  runUsersCmd,
	}
}

func runUsersCmd(cmd *cobra.Command, _ []string) error {
	hist := history.NewLog(config.DefaultHistoryDir())
	users, err := hist.ListUsers()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		logErrln("No history found! Run the trainer first.")
		return nil
	}
	for _, user := range users {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), user); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# mathdrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# user = %q           # User the sessions are recorded for
# max = %d                 # Maximum operand value
# questions = %d           # Questions per session
# operation = %q        # 'addition', 'subtraction', or 'both'
# mode = %q             # 'standard', 'missing', or 'mixed'
# focus-weak = false       # Bias generation toward weak facts
# weak-top = %d             # Number of weak facts to focus on
# weak-factor = %.1f        # Weight factor for weak facts
# weak-window = %d         # Number of recent sessions to compute weak facts

[stats]
# curve-window = %d        # Moving average window for learning curves
`,
		defaultUser,
		defaultMaxNumber,
		defaultQuestions,
		defaultOperation,
		defaultMode,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		defaultCurveWindow,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
