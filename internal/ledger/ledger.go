// Package ledger persists lint-run history in SQLite. The daemon appends
// a run after every lint pass; `blogkit history` and the status API read
// it back.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/blogkit/internal/lint"
)

// Trigger records what started a lint run.
type Trigger string

const (
	TriggerCLI      Trigger = "cli"
	TriggerWatch    Trigger = "watch"
	TriggerSchedule Trigger = "schedule"
)

// Run is one recorded lint pass.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Files      int
	Errors     int
	Warnings   int
	Infos      int
	Trigger    Trigger
}

// Issue is one recorded finding, denormalized from lint.Issue.
type Issue struct {
	RunID    string
	File     string
	Line     int
	Rule     string
	Severity string
	Message  string
}

// Store is a SQLite-backed run ledger. Use ":memory:" for tests.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens the ledger database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize ledger schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		files INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		infos INTEGER NOT NULL,
		"trigger" TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE TABLE IF NOT EXISTS issues (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		file TEXT NOT NULL,
		line INTEGER NOT NULL,
		rule TEXT NOT NULL,
		severity TEXT NOT NULL,
		message TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_issues_run ON issues(run_id);
	`
	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}
	_, err := s.db.Exec(schema)
	return err
}

// Append records a finished lint run and its issues. The generated run id
// is returned.
func (s *Store) Append(ctx context.Context, trigger Trigger, started, finished time.Time, result *lint.Result) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin ledger transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, files, errors, warnings, infos, "trigger") VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, started.UnixMilli(), finished.UnixMilli(),
		result.FilesTotal, result.ErrorCount(), result.WarningCount(), result.InfoCount(),
		string(trigger),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, issue := range result.Issues {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO issues (run_id, file, line, rule, severity, message) VALUES (?, ?, ?, ?, ?, ?)",
			id, issue.FilePath, issue.Line, issue.Rule, issue.Severity.String(), issue.Message,
		)
		if err != nil {
			return "", fmt.Errorf("insert issue: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	return id, nil
}

// Recent returns the n most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, files, errors, warnings, infos, "trigger" FROM runs ORDER BY started_at DESC, id LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Last returns the most recent run, or nil when the ledger is empty.
func (s *Store) Last(ctx context.Context) (*Run, error) {
	runs, err := s.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// RunIssues returns the issues recorded for one run.
func (s *Store) RunIssues(ctx context.Context, runID string) ([]Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id, file, line, rule, severity, message FROM issues WHERE run_id = ? ORDER BY file, line, rule",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query issues: %w", err)
	}
	defer rows.Close()

	var issues []Issue
	for rows.Next() {
		var issue Issue
		if err := rows.Scan(&issue.RunID, &issue.File, &issue.Line, &issue.Rule, &issue.Severity, &issue.Message); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issues: %w", err)
	}
	return issues, nil
}

// Prune deletes all but the newest keep runs, cascading their issues.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM runs WHERE id NOT IN (SELECT id FROM runs ORDER BY started_at DESC, id LIMIT ?)",
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		var trigger string
		if err := rows.Scan(&r.ID, &started, &finished, &r.Files, &r.Errors, &r.Warnings, &r.Infos, &trigger); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(started)
		r.FinishedAt = time.UnixMilli(finished)
		r.Trigger = Trigger(trigger)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
