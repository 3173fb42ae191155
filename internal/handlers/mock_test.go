package handlers

import (
	"time"

	"github.com/opencart-qa/storefront-suite/internal/models"
	"github.com/opencart-qa/storefront-suite/internal/runner"
	"github.com/opencart-qa/storefront-suite/internal/services"
)

// MockHistoryService is a mock implementation of services.HistoryService
type MockHistoryService struct {
	RecentRunsFunc func(int) ([]*models.Run, error)
	RunDetailsFunc func(string) (*services.RunDetails, error)
}

func (m *MockHistoryService) StartRun(info runner.SuiteInfo) (*models.Run, error) {
	return &models.Run{ID: info.RunID, Suite: info.Name}, nil
}

func (m *MockHistoryService) RecordResult(*models.Run, *models.Result) error {
	return nil
}

func (m *MockHistoryService) FinishRun(*models.Run, time.Time) error {
	return nil
}

func (m *MockHistoryService) RecentRuns(limit int) ([]*models.Run, error) {
	if m.RecentRunsFunc != nil {
		return m.RecentRunsFunc(limit)
	}
	return nil, nil
}

func (m *MockHistoryService) RunDetails(id string) (*services.RunDetails, error) {
	if m.RunDetailsFunc != nil {
		return m.RunDetailsFunc(id)
	}
	return &services.RunDetails{Run: &models.Run{ID: id}}, nil
}
