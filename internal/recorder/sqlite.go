package recorder

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	cols := make([]string, len(scoreColumns))
	for i, c := range scoreColumns {
		cols[i] = c.Column + " REAL"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id      TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			status      TEXT NOT NULL,
			pairs       INTEGER,
			countries   INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS pair_metrics (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id           TEXT NOT NULL,
			pair             TEXT NOT NULL,
			region           TEXT,
			country          TEXT,
			observations     INTEGER,
			volatility       REAL,
			drawdown         REAL,
			var              REAL,
			arima_forecast   REAL,
			prophet_forecast REAL,
			failures         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pair_metrics_run ON pair_metrics(run_id)`,

		`CREATE TABLE IF NOT EXISTS risk_scores (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL,
			rank       INTEGER NOT NULL,
			country    TEXT NOT NULL,
			region     TEXT,
			risk_score REAL,
			` + strings.Join(cols, ",\n\t\t\t") + `
		)`,
		`CREATE INDEX IF NOT EXISTS idx_risk_scores_run ON risk_scores(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes the run row, its per-pair metrics and its scores in one transaction.
func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs
		(run_id, started_at, finished_at, status, pairs, countries, error)
		VALUES (?,?,?,?,?,?,?)`,
		snap.RunID, snap.StartedAt.Unix(), snap.FinishedAt.Unix(), snap.Status,
		len(snap.Metrics), len(snap.Scores), snap.Err,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, m := range snap.Metrics {
		if _, err := tx.Exec(`INSERT INTO pair_metrics
			(run_id, pair, region, country, observations,
			 volatility, drawdown, var, arima_forecast, prophet_forecast, failures)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			snap.RunID, m.Pair, m.Region, m.Country, m.Observations,
			nullable(m.Volatility), nullable(m.Drawdown), nullable(m.VaR),
			nullable(m.ARIMAForecast), nullable(m.ProphetForecast),
			formatFailures(m.Failures),
		); err != nil {
			return fmt.Errorf("insert pair metrics %s: %w", m.Pair, err)
		}
	}

	cols := make([]string, len(scoreColumns))
	marks := make([]string, len(scoreColumns))
	for i, c := range scoreColumns {
		cols[i] = c.Column
		marks[i] = "?"
	}
	insertScore := `INSERT INTO risk_scores (run_id, rank, country, region, risk_score, ` +
		strings.Join(cols, ", ") + `) VALUES (?,?,?,?,?,` + strings.Join(marks, ",") + `)`
	for i := range snap.Scores {
		s := &snap.Scores[i]
		args := []any{snap.RunID, s.Rank, s.Country, s.Region, nullable(s.RiskScore)}
		for _, c := range scoreColumns {
			args = append(args, nullable(s.Score(c.Component)))
		}
		if _, err := tx.Exec(insertScore, args...); err != nil {
			return fmt.Errorf("insert score %s: %w", s.Country, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.log.Debug().Str("run_id", snap.RunID).Int("scores", len(snap.Scores)).Msg("run recorded")
	return nil
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// formatFailures renders estimator failures as "est=reason" pairs sorted by estimator.
func formatFailures(f map[string]string) string {
	if len(f) == 0 {
		return ""
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + f[k]
	}
	return strings.Join(parts, ";")
}
