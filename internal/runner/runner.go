package runner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opencart-qa/storefront-suite/internal/models"
)

// Runner executes suites and notifies listeners
type Runner struct {
	logger    *zap.Logger
	listeners []Listener
	now       func() time.Time
}

// New creates a runner
func New(logger *zap.Logger, listeners ...Listener) *Runner {
	return &Runner{
		logger:    logger,
		listeners: listeners,
		now:       time.Now,
	}
}

// AddListener registers another listener
func (r *Runner) AddListener(l Listener) {
	r.listeners = append(r.listeners, l)
}

// Run executes every selected case of the suite. The returned error is only
// set when the suite could not run at all; test failures are in the summary.
func (r *Runner) Run(ctx context.Context, suite *Suite, info SuiteInfo, filter Filter) (Summary, error) {
	if suite == nil || suite.Name == "" {
		return Summary{}, fmt.Errorf("suite name is required")
	}
	if info.RunID == "" {
		info.RunID = uuid.New().String()
	}
	if info.Name == "" {
		info.Name = suite.Name
	}
	if info.StartedAt.IsZero() {
		info.StartedAt = r.now()
	}

	summary := Summary{Info: info}
	for _, l := range r.listeners {
		l.OnStart(info)
	}

	for _, class := range suite.Classes {
		cases := selectCases(class, filter)
		if len(cases) == 0 {
			continue
		}
		r.runClass(ctx, info.RunID, class, cases, &summary)
	}

	summary.FinishedAt = r.now()
	r.logger.Info("Suite finished",
		zap.String("suite", info.Name),
		zap.Int("passed", summary.Passed),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("duration", summary.Duration()))

	for _, l := range r.listeners {
		l.OnFinish(summary)
	}
	return summary, nil
}

// selectCases filters a class by group and orders it by priority, keeping
// registration order between equal priorities.
func selectCases(class *Class, filter Filter) []Case {
	var cases []Case
	for _, c := range class.Cases {
		if filter.Matches(c.Groups) {
			cases = append(cases, c)
		}
	}
	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].Priority < cases[j].Priority
	})
	return cases
}

func (r *Runner) runClass(ctx context.Context, runID string, class *Class, cases []Case, summary *Summary) {
	logger := r.logger.With(zap.String("class", class.Name))

	if class.BeforeClass != nil {
		if err := class.BeforeClass(ctx); err != nil {
			logger.Error("Class setup failed, skipping its tests", zap.Error(err))
			for _, c := range cases {
				r.skip(runID, class, c.Name, c.Groups, fmt.Sprintf("setup of %s failed: %v", class.Name, err), summary)
			}
			r.teardown(ctx, class, logger)
			return
		}
	}
	defer r.teardown(ctx, class, logger)

	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			r.skip(runID, class, c.Name, c.Groups, fmt.Sprintf("run cancelled: %v", err), summary)
			continue
		}

		if c.DataProvider == nil {
			r.invoke(ctx, runID, class, c, c.Name, -1, nil, summary, logger)
			continue
		}

		rows, err := c.DataProvider()
		if err != nil {
			r.record(ctx, runID, class, c.Name, c.Groups, r.now(), summary, func(res *models.Result) {
				res.Fail(fmt.Sprintf("data provider failed: %v", err), 0)
			})
			continue
		}
		for i, row := range rows {
			if err := ctx.Err(); err != nil {
				r.skip(runID, class, fmt.Sprintf("%s[%d]", c.Name, i), c.Groups, fmt.Sprintf("run cancelled: %v", err), summary)
				continue
			}
			r.invoke(ctx, runID, class, c, fmt.Sprintf("%s[%d]", c.Name, i), i, row, summary, logger)
		}
	}
}

func (r *Runner) teardown(ctx context.Context, class *Class, logger *zap.Logger) {
	if class.AfterClass == nil {
		return
	}
	// Teardown runs even when the run was cancelled.
	if err := class.AfterClass(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("Class teardown failed", zap.Error(err))
	}
}

// invoke runs one invocation on its own goroutine so that Fatalf and
// Skipf can stop it with runtime.Goexit.
func (r *Runner) invoke(ctx context.Context, runID string, class *Class, c Case, name string, index int, params []string, summary *Summary, logger *zap.Logger) {
	t := newT(ctx, name, index, params, logger)
	start := r.now()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if p := recover(); p != nil {
				t.fail(fmt.Sprintf("panic: %v", p))
			}
		}()
		c.Func(t)
	}()
	<-done

	elapsed := r.now().Sub(start)
	r.record(ctx, runID, class, name, c.Groups, start, summary, func(res *models.Result) {
		switch {
		case t.Failed():
			res.Fail(t.message(), elapsed)
		case t.skipped:
			res.Skip(t.message(), elapsed)
		default:
			res.Pass(elapsed)
		}
	})
}

func (r *Runner) skip(runID string, class *Class, name string, groups []string, reason string, summary *Summary) {
	r.record(context.Background(), runID, class, name, groups, r.now(), summary, func(res *models.Result) {
		res.Skip(reason, 0)
	})
}

// record builds the result started at start, captures a screenshot on
// failure and dispatches it to the listeners.
func (r *Runner) record(ctx context.Context, runID string, class *Class, name string, groups []string, start time.Time, summary *Summary, finish func(*models.Result)) {
	res, err := models.NewResult(runID, class.Name, name, groups)
	if err != nil {
		r.logger.Error("Failed to create result", zap.String("test", name), zap.Error(err))
		return
	}
	res.StartedAt = start
	finish(res)
	summary.Results = append(summary.Results, res)

	switch res.Status {
	case models.ResultStatusPassed:
		summary.Passed++
		for _, l := range r.listeners {
			l.OnTestSuccess(res)
		}
	case models.ResultStatusFailed:
		summary.Failed++
		r.capture(ctx, class, res)
		for _, l := range r.listeners {
			l.OnTestFailure(res)
		}
	case models.ResultStatusSkipped:
		summary.Skipped++
		for _, l := range r.listeners {
			l.OnTestSkipped(res)
		}
	}
}

func (r *Runner) capture(ctx context.Context, class *Class, res *models.Result) {
	if class.Capture == nil {
		return
	}
	path, err := class.Capture(context.WithoutCancel(ctx), res.Name)
	if err != nil {
		r.logger.Warn("Screenshot capture failed", zap.String("test", res.Name), zap.Error(err))
		return
	}
	res.AttachScreenshot(path)
}
