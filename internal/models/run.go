package models

import (
	"time"

	"github.com/google/uuid"
)

// Run is one execution of a suite
type Run struct {
	ID         string
	Suite      string
	Browser    string
	OS         string
	Groups     []string
	StartedAt  time.Time
	FinishedAt time.Time
	Passed     int
	Failed     int
	Skipped    int
}

// NewRun starts a new run
func NewRun(suite, browser, os string, groups []string) (*Run, error) {
	if suite == "" {
		return nil, ErrInvalidSuiteName
	}
	return &Run{
		ID:        uuid.New().String(),
		Suite:     suite,
		Browser:   browser,
		OS:        os,
		Groups:    append([]string(nil), groups...),
		StartedAt: time.Now(),
	}, nil
}

// Record counts a finished result towards the run totals
func (r *Run) Record(result *Result) {
	switch result.Status {
	case ResultStatusPassed:
		r.Passed++
	case ResultStatusFailed:
		r.Failed++
	case ResultStatusSkipped:
		r.Skipped++
	}
}

// Finish closes the run
func (r *Run) Finish(at time.Time) error {
	if r.IsFinished() {
		return ErrRunAlreadyFinished
	}
	r.FinishedAt = at
	return nil
}

// IsFinished returns true once Finish was called
func (r *Run) IsFinished() bool {
	return !r.FinishedAt.IsZero()
}

// Total returns the number of recorded results
func (r *Run) Total() int {
	return r.Passed + r.Failed + r.Skipped
}

// Succeeded returns true when nothing failed
func (r *Run) Succeeded() bool {
	return r.Failed == 0
}
