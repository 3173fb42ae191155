package runner

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// T is handed to every invocation. Fatalf and Skipf stop the invocation
// immediately, like their testing.T counterparts.
type T struct {
	ctx    context.Context
	name   string
	index  int
	params []string
	logger *zap.Logger

	mu       sync.Mutex
	failed   bool
	skipped  bool
	messages []string
}

func newT(ctx context.Context, name string, index int, params []string, logger *zap.Logger) *T {
	return &T{
		ctx:    ctx,
		name:   name,
		index:  index,
		params: params,
		logger: logger.With(zap.String("test", name)),
	}
}

// Context returns the invocation context
func (t *T) Context() context.Context { return t.ctx }

// Name returns the invocation name
func (t *T) Name() string { return t.name }

// Index returns the data provider row number, or -1 without a provider
func (t *T) Index() int { return t.index }

// Params returns the data provider row, or nil
func (t *T) Params() []string { return t.params }

// Param returns the i-th data provider value or "" when absent
func (t *T) Param(i int) string {
	if i < 0 || i >= len(t.params) {
		return ""
	}
	return t.params[i]
}

// Logger returns the invocation logger
func (t *T) Logger() *zap.Logger { return t.logger }

// Log writes an info line for the invocation
func (t *T) Log(msg string, fields ...zap.Field) {
	t.logger.Info(msg, fields...)
}

// Errorf records a failure and continues
func (t *T) Errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	t.logger.Error(msg)
	t.fail(msg)
}

// Fatalf records a failure and stops the invocation
func (t *T) Fatalf(format string, args ...interface{}) {
	t.Errorf(format, args...)
	runtime.Goexit()
}

// Skip marks the invocation as skipped with reason and stops it
func (t *T) Skip(reason string) {
	t.Skipf("%s", reason)
}

// Skipf marks the invocation as skipped and stops it
func (t *T) Skipf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	t.logger.Warn(msg)
	t.mu.Lock()
	t.skipped = true
	t.messages = append(t.messages, msg)
	t.mu.Unlock()
	runtime.Goexit()
}

// AssertTrue fails the invocation with msg when cond is false
func (t *T) AssertTrue(cond bool, msg string) bool {
	if !cond {
		t.Errorf("%s", msg)
	}
	return cond
}

// AssertEqual fails the invocation when got and want differ
func (t *T) AssertEqual(got, want interface{}, msg string) bool {
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s expected [%v] but found [%v]", msg, want, got)
		return false
	}
	return true
}

// Failed reports whether the invocation has failed so far
func (t *T) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failed
}

func (t *T) fail(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed = true
	t.messages = append(t.messages, msg)
}

func (t *T) message() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.messages, "; ")
}
