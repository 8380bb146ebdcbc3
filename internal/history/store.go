package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"crate/internal/reconcile"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Store records pipeline runs and per-category sync outcomes in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun inserts a new running record and returns its id.
func (s *Store) StartRun(ctx context.Context) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, started_at, status) VALUES (?, ?, ?)",
		id, now, StatusRunning)
	if err != nil {
		return "", fmt.Errorf("record run start: %w", err)
	}
	return id, nil
}

// Summary carries the final numbers of one pipeline run.
type Summary struct {
	TrackTotal int
	CacheHits  int
	Classified int
	Status     string
	Error      string
	Report     *reconcile.Report
}

// FinishRun closes a running record and writes its per-category outcomes in
// one transaction.
func (s *Store) FinishRun(ctx context.Context, runID string, summary Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin finish tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = tx.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, track_total = ?, cache_hits = ?, classified = ?, error = ?
		 WHERE id = ?`,
		now, summary.Status, summary.TrackTotal, summary.CacheHits, summary.Classified, summary.Error, runID)
	if err != nil {
		return fmt.Errorf("record run finish: %w", err)
	}

	if summary.Report != nil {
		for _, outcome := range summary.Report.Outcomes {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO run_categories (run_id, category, playlist_id, track_count, outcome, reason)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				runID, outcome.Category, outcome.PlaylistID, outcome.TrackCount, outcome.Status, outcome.Reason)
			if err != nil {
				return fmt.Errorf("record category outcome %q: %w", outcome.Category, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run finish: %w", err)
	}
	return nil
}

// Run is one recorded pipeline run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	TrackTotal int
	CacheHits  int
	Classified int
	Error      string
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, COALESCE(finished_at, ''), status, track_total, cache_hits, classified, error
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(&run.ID, &started, &finished, &run.Status, &run.TrackTotal, &run.CacheHits, &run.Classified, &run.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished != "" {
			run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CategoryOutcome is one recorded per-category sync result.
type CategoryOutcome struct {
	Category   string
	PlaylistID string
	TrackCount int
	Outcome    string
	Reason     string
}

// Categories returns the recorded outcomes of one run in recorded order.
func (s *Store) Categories(ctx context.Context, runID string) ([]CategoryOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, playlist_id, track_count, outcome, reason
		 FROM run_categories WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run categories: %w", err)
	}
	defer rows.Close()

	var outcomes []CategoryOutcome
	for rows.Next() {
		var outcome CategoryOutcome
		if err := rows.Scan(&outcome.Category, &outcome.PlaylistID, &outcome.TrackCount, &outcome.Outcome, &outcome.Reason); err != nil {
			return nil, fmt.Errorf("scan category outcome: %w", err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}
