package runner

import (
	"time"

	"github.com/opencart-qa/storefront-suite/internal/models"
)

// SuiteInfo describes a run to listeners
type SuiteInfo struct {
	RunID     string
	Name      string
	OS        string
	Browser   string
	Groups    []string
	StartedAt time.Time
}

// Summary is handed to listeners when the run ends
type Summary struct {
	Info       SuiteInfo
	Results    []*models.Result
	Passed     int
	Failed     int
	Skipped    int
	FinishedAt time.Time
}

// Succeeded returns true when no invocation failed
func (s Summary) Succeeded() bool {
	return s.Failed == 0
}

// Duration returns the wall time of the run
func (s Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.Info.StartedAt)
}

// Listener observes a run, in the order of TestNG's ITestListener
type Listener interface {
	OnStart(info SuiteInfo)
	OnTestSuccess(result *models.Result)
	OnTestFailure(result *models.Result)
	OnTestSkipped(result *models.Result)
	OnFinish(summary Summary)
}
