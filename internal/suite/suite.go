// Package suite holds the storefront test cases: login, data-driven login,
// registration, product search and the add-to-cart flow.
package suite

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/opencart-qa/storefront-suite/internal/browser"
	"github.com/opencart-qa/storefront-suite/internal/config"
	"github.com/opencart-qa/storefront-suite/internal/runner"
)

// Groups used by the cases
const (
	GroupMaster     = "Master"
	GroupSmoke      = "Smoke"
	GroupSanity     = "Sanity"
	GroupRegression = "Regression"
	GroupMonkey     = "Monkey"
	GroupGorilla    = "Gorilla"
)

// Pauses after submitting a search, before the results are inspected
const (
	cartSettle   = 2 * time.Second
	searchSettle = 5 * time.Second
)

// OpenFunc starts a prepared browser session on startURL
type OpenFunc func(ctx context.Context, opts browser.Options, startURL string, logger *zap.Logger) (browser.Driver, error)

// Env is everything the cases need from the outside
type Env struct {
	Store         *config.StoreConfig
	Browser       browser.Options
	ScreenshotDir string
	Logger        *zap.Logger

	// Open defaults to browser.Open
	Open OpenFunc
	// Sleep defaults to a context-aware timer
	Sleep func(ctx context.Context, d time.Duration) error
	// Now defaults to time.Now and stamps screenshot file names
	Now func() time.Time
}

func (e *Env) defaults() {
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	if e.Open == nil {
		e.Open = browser.Open
	}
	if e.Sleep == nil {
		e.Sleep = sleep
	}
	if e.Now == nil {
		e.Now = time.Now
	}
}

// New builds the storefront suite. Every class gets its own browser session.
func New(name string, env Env) *runner.Suite {
	env.defaults()
	s := runner.NewSuite(name)
	s.Add(addToCartClass(&env))
	s.Add(loginClass(&env))
	s.Add(loginDDTClass(&env))
	s.Add(registrationClass(&env))
	s.Add(searchClass(&env))
	return s
}

// session is the per-class browser fixture
type session struct {
	env    *Env
	logger *zap.Logger
	driver browser.Driver
}

func newSession(env *Env, class string) *session {
	return &session{env: env, logger: env.Logger.Named(class)}
}

func (s *session) setUp(ctx context.Context) error {
	d, err := s.env.Open(ctx, s.env.Browser, s.env.Store.URL, s.logger)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.env.Browser.Name, err)
	}
	s.driver = d
	return nil
}

func (s *session) tearDown(context.Context) error {
	if s.driver == nil {
		return nil
	}
	err := s.driver.Close()
	s.driver = nil
	return err
}

func (s *session) capture(ctx context.Context, name string) (string, error) {
	return browser.SaveScreenshot(ctx, s.driver, s.env.ScreenshotDir, name, s.env.Now())
}

func (s *session) class(name string, cases ...runner.Case) *runner.Class {
	return &runner.Class{
		Name:        name,
		BeforeClass: s.setUp,
		AfterClass:  s.tearDown,
		Capture:     s.capture,
		Cases:       cases,
	}
}

// settle pauses after a search. SETTLE_DELAY replaces the per-flow default.
func (s *session) settle(t *runner.T, def time.Duration) {
	d := def
	if s.env.Store.SettleDelay > 0 {
		d = s.env.Store.SettleDelay
	}
	if err := s.env.Sleep(t.Context(), d); err != nil {
		t.Fatalf("Test interrupted: %v", err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// banner logs the start of a case and returns the matching finish log
func banner(t *runner.T, title string) func() {
	t.Log("**** Starting " + title + " ****")
	return func() { t.Log("**** Finished " + title + " ****") }
}
