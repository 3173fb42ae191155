package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResultStatus represents the outcome of one test invocation
type ResultStatus string

// Result statuses
const (
	ResultStatusPending ResultStatus = "pending"
	ResultStatusPassed  ResultStatus = "passed"
	ResultStatusFailed  ResultStatus = "failed"
	ResultStatusSkipped ResultStatus = "skipped"
)

// Result is the recorded outcome of one test invocation
type Result struct {
	ID         string
	RunID      string
	Class      string
	Name       string
	Groups     []string
	Status     ResultStatus
	Message    string
	Screenshot string
	StartedAt  time.Time
	Duration   time.Duration
}

// Domain errors
var (
	ErrInvalidRunID            = errors.New("run id cannot be empty")
	ErrInvalidTestName         = errors.New("test name cannot be empty")
	ErrInvalidStatusTransition = errors.New("invalid result status transition")
	ErrInvalidSuiteName        = errors.New("suite name cannot be empty")
	ErrRunAlreadyFinished      = errors.New("run is already finished")
	ErrRunNotFound             = errors.New("run not found")
)

// NewResult creates a pending result for a test invocation
func NewResult(runID, class, name string, groups []string) (*Result, error) {
	if runID == "" {
		return nil, ErrInvalidRunID
	}
	if name == "" {
		return nil, ErrInvalidTestName
	}

	return &Result{
		ID:        uuid.New().String(),
		RunID:     runID,
		Class:     class,
		Name:      name,
		Groups:    append([]string(nil), groups...),
		Status:    ResultStatusPending,
		StartedAt: time.Now(),
	}, nil
}

// Pass marks the result as passed
func (r *Result) Pass(duration time.Duration) error {
	return r.finish(ResultStatusPassed, "", duration)
}

// Fail marks the result as failed with a reason
func (r *Result) Fail(message string, duration time.Duration) error {
	return r.finish(ResultStatusFailed, message, duration)
}

// Skip marks the result as skipped with a reason
func (r *Result) Skip(message string, duration time.Duration) error {
	return r.finish(ResultStatusSkipped, message, duration)
}

func (r *Result) finish(status ResultStatus, message string, duration time.Duration) error {
	if r.Status != ResultStatusPending {
		return fmt.Errorf("%w: cannot move result from %s to %s", ErrInvalidStatusTransition, r.Status, status)
	}
	r.Status = status
	r.Message = message
	r.Duration = duration
	return nil
}

// AttachScreenshot records the screenshot taken for a failed result
func (r *Result) AttachScreenshot(path string) error {
	if r.Status != ResultStatusFailed {
		return fmt.Errorf("%w: screenshots are only attached to failed results", ErrInvalidStatusTransition)
	}
	r.Screenshot = path
	return nil
}

// FullName returns "<Class> - <Name>" as shown in reports
func (r *Result) FullName() string {
	if r.Class == "" {
		return r.Name
	}
	return r.Class + " - " + r.Name
}

// GroupList returns the groups joined for storage and display
func (r *Result) GroupList() string {
	return strings.Join(r.Groups, ", ")
}

// IsFinished returns true once the result left the pending status
func (r *Result) IsFinished() bool {
	return r.Status != ResultStatusPending
}
