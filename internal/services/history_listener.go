package services

import (
	"sync"

	"go.uber.org/zap"

	"github.com/opencart-qa/storefront-suite/internal/models"
	"github.com/opencart-qa/storefront-suite/internal/runner"
)

// HistoryListener records a run through a HistoryService while it
// executes. Storage failures are logged and never fail the suite.
type HistoryListener struct {
	history HistoryService
	logger  *zap.Logger

	mu  sync.Mutex
	run *models.Run
}

var _ runner.Listener = (*HistoryListener)(nil)

// NewHistoryListener creates a listener backed by history
func NewHistoryListener(history HistoryService, logger *zap.Logger) *HistoryListener {
	return &HistoryListener{
		history: history,
		logger:  logger,
	}
}

// Run returns the run being recorded, or nil when it could not be started
func (l *HistoryListener) Run() *models.Run {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.run
}

func (l *HistoryListener) OnStart(info runner.SuiteInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	run, err := l.history.StartRun(info)
	if err != nil {
		l.logger.Error("Failed to record run start, history disabled for this run", zap.Error(err))
		l.run = nil
		return
	}
	l.run = run
}

func (l *HistoryListener) OnTestSuccess(result *models.Result) { l.record(result) }

func (l *HistoryListener) OnTestFailure(result *models.Result) { l.record(result) }

func (l *HistoryListener) OnTestSkipped(result *models.Result) { l.record(result) }

func (l *HistoryListener) OnFinish(summary runner.Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.run == nil {
		return
	}
	if err := l.history.FinishRun(l.run, summary.FinishedAt); err != nil {
		l.logger.Error("Failed to record run end", zap.String("run", l.run.ID), zap.Error(err))
	}
}

func (l *HistoryListener) record(result *models.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.run == nil {
		return
	}
	if err := l.history.RecordResult(l.run, result); err != nil {
		l.logger.Error("Failed to record result",
			zap.String("run", l.run.ID),
			zap.String("test", result.FullName()),
			zap.Error(err))
	}
}
