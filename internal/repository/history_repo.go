package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opencart-qa/storefront-suite/internal/database"
	"github.com/opencart-qa/storefront-suite/internal/models"
)

// HistoryRepository persists runs and their results
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a repository on the shared connection
func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{
		db: database.DB,
	}
}

// NewHistoryRepositoryWithDB creates a history repository with a specific database connection
func NewHistoryRepositoryWithDB(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{
		db: db,
	}
}

// CreateRun inserts a run that has just started
func (r *HistoryRepository) CreateRun(run *models.Run) error {
	query := `
		INSERT INTO runs (id, suite, browser, os, groups, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(query,
		run.ID,
		run.Suite,
		run.Browser,
		run.OS,
		joinGroups(run.Groups),
		run.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun stores the end time and totals of a run
func (r *HistoryRepository) FinishRun(run *models.Run) error {
	query := `
		UPDATE runs
		SET finished_at = $1, passed = $2, failed = $3, skipped = $4
		WHERE id = $5
	`

	result, err := r.db.Exec(query, run.FinishedAt.UTC(), run.Passed, run.Failed, run.Skipped, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrRunNotFound
	}
	return nil
}

// CreateResult inserts a finished result
func (r *HistoryRepository) CreateResult(res *models.Result) error {
	query := `
		INSERT INTO results (id, run_id, class, name, groups, status, message, screenshot, started_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(query,
		res.ID,
		res.RunID,
		res.Class,
		res.Name,
		joinGroups(res.Groups),
		res.Status,
		nullString(res.Message),
		nullString(res.Screenshot),
		res.StartedAt.UTC(),
		res.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first
func (r *HistoryRepository) ListRuns(limit int) ([]*models.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, suite, browser, os, groups, started_at, finished_at, passed, failed, skipped
		FROM runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// GetRun retrieves a run by ID
func (r *HistoryRepository) GetRun(id string) (*models.Run, error) {
	query := `
		SELECT id, suite, browser, os, groups, started_at, finished_at, passed, failed, skipped
		FROM runs
		WHERE id = $1
	`

	run, err := scanRun(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListResults returns the results of a run in recording order
func (r *HistoryRepository) ListResults(runID string) ([]*models.Result, error) {
	query := `
		SELECT id, run_id, class, name, groups, status,
		       COALESCE(message, ''), COALESCE(screenshot, ''), started_at, duration_ms
		FROM results
		WHERE run_id = $1
		ORDER BY started_at, name
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []*models.Result
	for rows.Next() {
		res := &models.Result{}
		var groups string
		var durationMS int64
		if err := rows.Scan(
			&res.ID,
			&res.RunID,
			&res.Class,
			&res.Name,
			&groups,
			&res.Status,
			&res.Message,
			&res.Screenshot,
			&res.StartedAt,
			&durationMS,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		res.Groups = splitGroups(groups)
		res.Duration = time.Duration(durationMS) * time.Millisecond
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*models.Run, error) {
	run := &models.Run{}
	var groups string
	var finished sql.NullTime
	err := s.Scan(
		&run.ID,
		&run.Suite,
		&run.Browser,
		&run.OS,
		&groups,
		&run.StartedAt,
		&finished,
		&run.Passed,
		&run.Failed,
		&run.Skipped,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Groups = splitGroups(groups)
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	return run, nil
}

func joinGroups(groups []string) string {
	return strings.Join(groups, ",")
}

func splitGroups(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
