// Package runner sequences UI test cases the way TestNG does: cases belong
// to classes that share a fixture, carry groups and priorities, may be fed
// by a data provider, and report to listeners.
package runner

import (
	"context"
	"strings"
)

// Func is the body of a test case
type Func func(t *T)

// DataProvider returns one row of string parameters per invocation
type DataProvider func() ([][]string, error)

// Case is a single test method
type Case struct {
	Name         string
	Groups       []string
	Priority     int
	DataProvider DataProvider
	Func         Func
}

// Class groups cases that share a fixture. BeforeClass runs once before the
// first selected case and AfterClass once after the last one.
type Class struct {
	Name        string
	BeforeClass func(ctx context.Context) error
	AfterClass  func(ctx context.Context) error
	// Capture is called when an invocation fails and returns the path of a
	// screenshot to attach to the result.
	Capture func(ctx context.Context, name string) (string, error)
	Cases   []Case
}

// Suite is an ordered set of classes
type Suite struct {
	Name    string
	Classes []*Class
}

// NewSuite creates an empty suite
func NewSuite(name string) *Suite {
	return &Suite{Name: name}
}

// Add appends a class to the suite
func (s *Suite) Add(c *Class) {
	s.Classes = append(s.Classes, c)
}

// Filter selects cases by group. A case is selected when it has at least
// one included group (or Include is empty) and no excluded group.
type Filter struct {
	Include []string
	Exclude []string
}

// Matches reports whether a case with groups is selected
func (f Filter) Matches(groups []string) bool {
	for _, g := range groups {
		if containsFold(f.Exclude, g) {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, g := range groups {
		if containsFold(f.Include, g) {
			return true
		}
	}
	return false
}

// ParseGroups splits a comma separated group list, dropping blanks
func ParseGroups(s string) []string {
	var groups []string
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
