package cli

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/opencart-qa/storefront-suite/internal/browser"
	"github.com/opencart-qa/storefront-suite/internal/config"
	"github.com/opencart-qa/storefront-suite/internal/database"
	"github.com/opencart-qa/storefront-suite/internal/report"
	"github.com/opencart-qa/storefront-suite/internal/repository"
	"github.com/opencart-qa/storefront-suite/internal/runner"
	"github.com/opencart-qa/storefront-suite/internal/services"
	"github.com/opencart-qa/storefront-suite/internal/suite"
)

// ErrTestsFailed is returned when at least one case failed
var ErrTestsFailed = errors.New("test run failed")

// RunOptions are the command line overrides for a run. Empty values keep
// the suite file and environment settings.
type RunOptions struct {
	SuiteFile     string
	Groups        []string
	ExcludeGroups []string
	Browser       string
	Driver        string
	OS            string
	OpenReport    bool
}

// RunDependencies holds everything a suite run needs
type RunDependencies struct {
	Suite   *config.SuiteFile
	Browser *config.BrowserConfig
	Store   *config.StoreConfig
	Report  *config.ReportConfig

	// Listeners are notified in addition to the HTML report
	Listeners []runner.Listener
	// Open replaces browser.Open when set
	Open suite.OpenFunc
}

// LoadRunDependencies loads the configuration for a run. Settings are
// layered environment first, then suite file parameters, then flags.
func LoadRunDependencies(getenv func(string) string, opts RunOptions) (RunDependencies, error) {
	var deps RunDependencies

	suiteFile := config.DefaultSuite()
	if opts.SuiteFile != "" {
		loaded, err := config.LoadSuiteFile(opts.SuiteFile)
		if err != nil {
			return deps, err
		}
		suiteFile = loaded
	}
	if len(opts.Groups) > 0 {
		suiteFile.Groups.Include = opts.Groups
	}
	if len(opts.ExcludeGroups) > 0 {
		suiteFile.Groups.Exclude = opts.ExcludeGroups
	}
	deps.Suite = suiteFile

	browserConfig, err := config.LoadBrowserConfig(getenv)
	if err != nil {
		return deps, fmt.Errorf("invalid browser configuration: %w", err)
	}
	browserConfig.OS = suiteFile.Parameter("os", browserConfig.OS)
	browserConfig.Browser = suiteFile.Parameter("br", suiteFile.Parameter("browser", browserConfig.Browser))
	if opts.OS != "" {
		browserConfig.OS = opts.OS
	}
	if opts.Browser != "" {
		browserConfig.Browser = opts.Browser
	}
	if opts.Driver != "" {
		browserConfig.Driver = opts.Driver
	}
	deps.Browser = browserConfig

	storeConfig, err := config.LoadStoreConfig(getenv)
	if err != nil {
		return deps, fmt.Errorf("invalid store configuration: %w", err)
	}
	deps.Store = storeConfig

	reportConfig, err := config.LoadReportConfig(getenv)
	if err != nil {
		return deps, fmt.Errorf("invalid report configuration: %w", err)
	}
	if opts.OpenReport {
		reportConfig.OpenReport = true
	}
	deps.Report = reportConfig

	return deps, nil
}

// ConnectHistory connects to the history database when POSTGRES_* is set.
// It returns a nil service when history is not configured. The returned
// close func is always safe to call.
func ConnectHistory(getenv func(string) string, logger *zap.Logger) (services.HistoryService, func(), error) {
	noop := func() {}
	if !config.PostgresConfigured(getenv) {
		logger.Debug("History database not configured")
		return nil, noop, nil
	}

	pgConfig, err := config.LoadPostgresConfig(getenv)
	if err != nil {
		return nil, noop, fmt.Errorf("invalid history database configuration: %w", err)
	}
	if err := database.Connect(pgConfig); err != nil {
		return nil, noop, fmt.Errorf("failed to connect to database: %w", err)
	}
	closeDB := func() {
		if err := database.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}
	if err := database.RunMigrations(); err != nil {
		closeDB()
		return nil, noop, fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("Recording run history", zap.String("host", pgConfig.Host), zap.String("database", pgConfig.Database))

	return services.NewHistoryService(repository.NewHistoryRepository()), closeDB, nil
}

// RunSuite runs the storefront suite and writes the HTML report. It
// returns ErrTestsFailed when any case failed.
func RunSuite(ctx context.Context, deps RunDependencies, logger *zap.Logger) (runner.Summary, error) {
	reporter := report.New(deps.Report, logger.Named("report"))
	r := runner.New(logger.Named("runner"), reporter)
	for _, l := range deps.Listeners {
		r.AddListener(l)
	}

	env := suite.Env{
		Store:         deps.Store,
		Browser:       browser.OptionsFromConfig(deps.Browser),
		ScreenshotDir: deps.Report.ScreenshotDir,
		Logger:        logger,
		Open:          deps.Open,
	}
	info := runner.SuiteInfo{
		Name:    deps.Suite.Name,
		OS:      deps.Browser.OS,
		Browser: deps.Browser.Browser,
		Groups:  deps.Suite.Groups.Include,
	}
	filter := runner.Filter{
		Include: deps.Suite.Groups.Include,
		Exclude: deps.Suite.Groups.Exclude,
	}

	summary, err := r.Run(ctx, suite.New(deps.Suite.Name, env), info, filter)
	if err != nil {
		return summary, err
	}
	if err := reporter.Err(); err != nil {
		return summary, fmt.Errorf("failed to write report: %w", err)
	}

	logger.Info("Suite finished",
		zap.String("suite", summary.Info.Name),
		zap.Int("passed", summary.Passed),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.String("report", reporter.Path()))

	if !summary.Succeeded() {
		return summary, fmt.Errorf("%w: %d of %d cases failed", ErrTestsFailed, summary.Failed, len(summary.Results))
	}
	return summary, nil
}
