// Package store persists a run history in a local SQLite database so
// successive reconciliations can be compared over time. The store is
// optional: a nil *History is safe to call and does nothing.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	tool        TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL,
	analyzed    INTEGER NOT NULL,
	matched     INTEGER NOT NULL,
	errored     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS verdicts (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	delivery_id TEXT NOT NULL,
	file        TEXT NOT NULL,
	overall     TEXT NOT NULL,
	score       INTEGER NOT NULL,
	issues      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_verdicts_run ON verdicts(run_id);
`

// History is the run-history store backed by one SQLite file.
type History struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the history database at path and applies
// the schema. An empty path disables history: Open returns nil, nil and all
// methods on the nil receiver are no-ops.
func Open(ctx context.Context, path string, logger *slog.Logger) (*History, error) {
	if path == "" {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &History{db: db, logger: logger}, nil
}

func (h *History) Close() error {
	if h == nil {
		return nil
	}
	return h.db.Close()
}

// Run is one recorded invocation.
type Run struct {
	ID         uuid.UUID
	Tool       string
	StartedAt  time.Time
	FinishedAt time.Time
	Analyzed   int
	Matched    int
	Errored    int
}

// VerdictRow is one per-document outcome within a run.
type VerdictRow struct {
	DeliveryID string
	File       string
	Overall    string
	Score      int
	Issues     []string
}

// RecordRun writes a run and its verdict rows in one transaction and
// returns the new run id. On a nil receiver it returns uuid.Nil, nil.
func (h *History) RecordRun(ctx context.Context, run Run, verdicts []VerdictRow) (uuid.UUID, error) {
	if h == nil {
		return uuid.Nil, nil
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin history tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, tool, started_at, finished_at, analyzed, matched, errored)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.Tool, run.StartedAt.UTC(), run.FinishedAt.UTC(),
		run.Analyzed, run.Matched, run.Errored)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert run: %w", err)
	}

	for _, v := range verdicts {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO verdicts (run_id, delivery_id, file, overall, score, issues)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID.String(), v.DeliveryID, v.File, v.Overall, v.Score,
			strings.Join(v.Issues, "; "))
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert verdict for %s: %w", v.DeliveryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit history tx: %w", err)
	}
	h.logger.Info("run recorded", "run_id", run.ID.String(), "tool", run.Tool, "verdicts", len(verdicts))
	return run.ID, nil
}

// LastRun returns the most recent run for a tool, or false when none exists.
func (h *History) LastRun(ctx context.Context, tool string) (Run, bool, error) {
	if h == nil {
		return Run{}, false, nil
	}

	var run Run
	var id string
	err := h.db.QueryRowContext(ctx,
		`SELECT id, tool, started_at, finished_at, analyzed, matched, errored
		 FROM runs WHERE tool = ? ORDER BY started_at DESC LIMIT 1`, tool).
		Scan(&id, &run.Tool, &run.StartedAt, &run.FinishedAt, &run.Analyzed, &run.Matched, &run.Errored)
	if err == sql.ErrNoRows {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("query last run: %w", err)
	}
	run.ID, err = uuid.Parse(id)
	if err != nil {
		return Run{}, false, fmt.Errorf("parse run id: %w", err)
	}
	return run, true, nil
}

// Verdicts returns all verdict rows for one run.
func (h *History) Verdicts(ctx context.Context, runID uuid.UUID) ([]VerdictRow, error) {
	if h == nil {
		return nil, nil
	}

	rows, err := h.db.QueryContext(ctx,
		`SELECT delivery_id, file, overall, score, issues
		 FROM verdicts WHERE run_id = ? ORDER BY delivery_id`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("query verdicts: %w", err)
	}
	defer rows.Close()

	var out []VerdictRow
	for rows.Next() {
		var v VerdictRow
		var issues string
		if err := rows.Scan(&v.DeliveryID, &v.File, &v.Overall, &v.Score, &issues); err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		if issues != "" {
			v.Issues = strings.Split(issues, "; ")
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
