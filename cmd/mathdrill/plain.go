package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/mathdrill/internal/history"
	"github.com/verte-zerg/mathdrill/internal/session"
	"github.com/verte-zerg/mathdrill/internal/store"
)

// runPlain drives a session over stdin/stdout, the line-oriented counterpart
// of the TUI front end.
func runPlain(sess *session.Session, hist *history.Log, st *store.Store) error {
	cfg := sess.Config()
	fmt.Printf("Starting Training: %s | %s\n", capitalize(string(cfg.Operation)), capitalize(string(cfg.Mode)))
	fmt.Println(strings.Repeat("-", 40))

	reader := bufio.NewReader(os.Stdin)
	sess.Start()
	for sess.State() == session.InProgress {
		fmt.Printf("Q%d: %s ", sess.QuestionNumber(), sess.Current().Prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println()
				return fmt.Errorf("session abandoned")
			}
			return fmt.Errorf("failed to read answer: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		res, err := sess.SubmitText(line)
		if err != nil {
			if errors.Is(err, session.ErrNotInteger) {
				fmt.Println("Integers only!")
				continue
			}
			return err
		}
		if res.Correct {
			fmt.Println("Correct!")
		} else {
			fmt.Printf("Wrong! Answer: %d\n", res.Expected)
		}
		fmt.Println()
	}

	summary, err := sess.Summary()
	if err != nil {
		return err
	}
	fmt.Println(strings.Repeat("=", 40))
	fmt.Printf("Accuracy: %.1f%%\n", summary.AccuracyPercent)
	fmt.Printf("Avg Time: %.2fs\n", summary.AvgTimeSeconds)

	if mistakes := sess.Mistakes(); len(mistakes) > 0 {
		fmt.Println("\nMistakes:")
		for _, m := range mistakes {
			fmt.Printf("  %s -> You said %d (Correct: %d)\n", m.Prompt, m.Given, m.Correct)
		}
	}

	if err := hist.Append(cfg.User, summary); err != nil {
		logErrf("could not save history: %v\n", err)
	} else {
		fmt.Printf("Stats saved to %s\n", hist.FileFor(cfg.User))
	}
	if st != nil {
		rec, facts, err := sess.Record()
		if err != nil {
			logErrf("could not record attempts: %v\n", err)
		} else if _, err := st.InsertSession(context.Background(), rec, facts); err != nil {
			logErrf("could not save attempts: %v\n", err)
		}
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
