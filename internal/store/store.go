// Package store handles SQLite persistence for per-question attempts.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for attempt data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			user TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			max_number INTEGER NOT NULL,
			questions INTEGER NOT NULL,
			operation TEXT NOT NULL,
			mode TEXT NOT NULL,
			correct INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_fact_stats (
			session_id INTEGER NOT NULL,
			fact TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			latency_sum_ms INTEGER NOT NULL,
			latency_count INTEGER NOT NULL,
			PRIMARY KEY (session_id, fact)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_ended_at ON sessions(user, ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_fact_stats_fact ON session_fact_stats(fact);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed session and its per-fact stats.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord, facts []model.FactStats) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (user, started_at, ended_at, max_number, questions, operation, mode, correct, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.User,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.MaxNumber,
		rec.Questions,
		string(rec.Operation),
		string(rec.Mode),
		rec.Correct,
		rec.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(facts) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO session_fact_stats (session_id, fact, correct, incorrect, latency_sum_ms, latency_count)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, fs := range facts {
			if _, err := stmt.ExecContext(ctx, id, fs.Fact, fs.Correct, fs.Incorrect, fs.LatencySumMs, fs.LatencyCount); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetWeakFacts aggregates fact stats over the user's most recent sessions.
func (s *Store) GetWeakFacts(ctx context.Context, window int, user string) ([]model.FactAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		WHERE user = ?
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT fs.fact, SUM(fs.correct) AS correct, SUM(fs.incorrect) AS incorrect,
		SUM(fs.latency_sum_ms) AS latency_sum_ms, SUM(fs.latency_count) AS latency_count
	FROM session_fact_stats fs
	JOIN recent_sessions r ON r.id = fs.session_id
	GROUP BY fs.fact`

	rows, err := s.db.QueryContext(ctx, query, user, window)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.FactAggregate
	for rows.Next() {
		var agg model.FactAggregate
		if err := rows.Scan(&agg.Fact, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListFactAggregates aggregates fact stats across all of a user's sessions.
func (s *Store) ListFactAggregates(ctx context.Context, user string) ([]model.FactAggregate, error) {
	query := `SELECT fs.fact, SUM(fs.correct) AS correct, SUM(fs.incorrect) AS incorrect,
		SUM(fs.latency_sum_ms) AS latency_sum_ms, SUM(fs.latency_count) AS latency_count
	FROM session_fact_stats fs
	JOIN sessions s ON s.id = fs.session_id
	WHERE s.user = ?
	GROUP BY fs.fact`

	rows, err := s.db.QueryContext(ctx, query, user)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.FactAggregate
	for rows.Next() {
		var agg model.FactAggregate
		if err := rows.Scan(&agg.Fact, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
