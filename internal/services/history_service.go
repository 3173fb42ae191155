package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/opencart-qa/storefront-suite/internal/models"
	"github.com/opencart-qa/storefront-suite/internal/runner"
)

var ErrRunNotStarted = errors.New("run not started")

// HistoryRepository defines the interface for run history persistence
type HistoryRepository interface {
	CreateRun(run *models.Run) error
	FinishRun(run *models.Run) error
	CreateResult(result *models.Result) error
	ListRuns(limit int) ([]*models.Run, error)
	GetRun(id string) (*models.Run, error)
	ListResults(runID string) ([]*models.Result, error)
}

// RunDetails is a run together with its results
type RunDetails struct {
	Run     *models.Run
	Results []*models.Result
}

// HistoryService records runs and serves them back to the report server
type HistoryService interface {
	StartRun(info runner.SuiteInfo) (*models.Run, error)
	RecordResult(run *models.Run, result *models.Result) error
	FinishRun(run *models.Run, at time.Time) error
	RecentRuns(limit int) ([]*models.Run, error)
	RunDetails(id string) (*RunDetails, error)
}

// HistoryServiceImpl implements HistoryService
type HistoryServiceImpl struct {
	historyRepo HistoryRepository
}

// NewHistoryService creates a new history service
func NewHistoryService(historyRepo HistoryRepository) HistoryService {
	return &HistoryServiceImpl{
		historyRepo: historyRepo,
	}
}

// StartRun persists a run for the suite described by info. The run keeps
// the runner's ID so results can reference it.
func (s *HistoryServiceImpl) StartRun(info runner.SuiteInfo) (*models.Run, error) {
	run, err := models.NewRun(info.Name, info.Browser, info.OS, info.Groups)
	if err != nil {
		return nil, fmt.Errorf("invalid run: %w", err)
	}
	if info.RunID != "" {
		run.ID = info.RunID
	}
	if !info.StartedAt.IsZero() {
		run.StartedAt = info.StartedAt
	}

	if err := s.historyRepo.CreateRun(run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// RecordResult stores a finished result and counts it on the run
func (s *HistoryServiceImpl) RecordResult(run *models.Run, result *models.Result) error {
	if run == nil {
		return ErrRunNotStarted
	}
	if !result.IsFinished() {
		return fmt.Errorf("%w: result %s is still %s", models.ErrInvalidStatusTransition, result.Name, result.Status)
	}
	if result.RunID != run.ID {
		return fmt.Errorf("result %s belongs to run %s, not %s", result.Name, result.RunID, run.ID)
	}

	if err := s.historyRepo.CreateResult(result); err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	run.Record(result)
	return nil
}

// FinishRun closes the run and stores its totals
func (s *HistoryServiceImpl) FinishRun(run *models.Run, at time.Time) error {
	if run == nil {
		return ErrRunNotStarted
	}
	if err := run.Finish(at); err != nil {
		return err
	}
	if err := s.historyRepo.FinishRun(run); err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RecentRuns returns the latest runs, newest first
func (s *HistoryServiceImpl) RecentRuns(limit int) ([]*models.Run, error) {
	runs, err := s.historyRepo.ListRuns(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// RunDetails loads a run and its results
func (s *HistoryServiceImpl) RunDetails(id string) (*RunDetails, error) {
	run, err := s.historyRepo.GetRun(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	results, err := s.historyRepo.ListResults(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	return &RunDetails{Run: run, Results: results}, nil
}
