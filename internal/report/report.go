// Package report renders a run as a standalone HTML page once the suite
// finishes.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/browser"
	"github.com/tdewolff/minify/v2/minify"
	"go.uber.org/zap"

	"github.com/opencart-qa/storefront-suite/internal/config"
	"github.com/opencart-qa/storefront-suite/internal/models"
	"github.com/opencart-qa/storefront-suite/internal/runner"
)

const (
	DocumentTitle = "OpenCart Automation Report"
	ReportName    = "OpenCart Functional Testing"

	fileTimeLayout = "2006.01.02.15.04.05"
)

var (
	//go:embed report.css
	rawCSS      string
	minifiedCSS = panicOnError(minify.CSS(rawCSS))

	//go:embed report.gohtml
	rawHTMLTemplate string

	parsedHTMLTemplate = template.Must(template.New("report.gohtml").Funcs(template.FuncMap{
		"minifiedCSS": func() template.CSS { return template.CSS(minifiedCSS) },
	}).Parse(rawHTMLTemplate))
)

func panicOnError(s string, err error) string {
	if err != nil {
		panic(err)
	}
	return s
}

// FileName returns the report file name for a run started at t
func FileName(t time.Time) string {
	return "Test-Report-" + t.Format(fileTimeLayout) + ".html"
}

// Reporter is a runner.Listener that writes the HTML report when the run
// finishes.
type Reporter struct {
	cfg     *config.ReportConfig
	logger  *zap.Logger
	openURL func(string) error

	mu      sync.Mutex
	info    runner.SuiteInfo
	entries []entry
	path    string
	err     error
}

var _ runner.Listener = (*Reporter)(nil)

// New creates a reporter writing into cfg.ReportDir
func New(cfg *config.ReportConfig, logger *zap.Logger) *Reporter {
	return &Reporter{
		cfg:     cfg,
		logger:  logger,
		openURL: browser.OpenURL,
	}
}

type entry struct {
	Name       string
	Categories []string
	Status     string
	Class      string
	Duration   string
	Log        []string
	Screenshot string
}

type systemInfo struct {
	Key   string
	Value string
}

type page struct {
	DocumentTitle string
	ReportName    string
	Suite         string
	StartedAt     string
	Duration      string
	Passed        int
	Failed        int
	Skipped       int
	SystemInfo    []systemInfo
	Entries       []entry
}

// OnStart fixes the report file name
func (r *Reporter) OnStart(info runner.SuiteInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.info = info
	r.entries = nil
	r.path = filepath.Join(r.cfg.ReportDir, FileName(info.StartedAt))
}

// OnTestSuccess adds a PASS entry
func (r *Reporter) OnTestSuccess(res *models.Result) {
	r.add(res, "PASS", "pass", res.Name+" got successfully executed")
}

// OnTestFailure adds a FAIL entry with the failure message and screenshot
func (r *Reporter) OnTestFailure(res *models.Result) {
	r.add(res, "FAIL", "fail", res.Name+" got failed")
}

// OnTestSkipped adds a SKIP entry
func (r *Reporter) OnTestSkipped(res *models.Result) {
	r.add(res, "SKIP", "skip", res.Name+" got skipped")
}

// OnFinish renders and writes the report, then opens it when configured
func (r *Reporter) OnFinish(summary runner.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.write(summary); err != nil {
		r.err = err
		r.logger.Error("Failed to write report", zap.Error(err))
		return
	}
	r.logger.Info("Report written", zap.String("path", r.path))

	if !r.cfg.OpenReport {
		return
	}
	abs, err := filepath.Abs(r.path)
	if err != nil {
		abs = r.path
	}
	if err := r.openURL("file://" + filepath.ToSlash(abs)); err != nil {
		r.logger.Warn("Could not open report, open it manually", zap.String("path", abs), zap.Error(err))
	}
}

// Path returns the report file of the current run
func (r *Reporter) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// Err returns the error of the last write, if any
func (r *Reporter) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Reporter) add(res *models.Result, status, class, line string) {
	e := entry{
		Name:       res.FullName(),
		Categories: append([]string(nil), res.Groups...),
		Status:     status,
		Class:      class,
		Duration:   res.Duration.Round(time.Millisecond).String(),
		Log:        []string{line},
	}
	if res.Message != "" {
		e.Log = append(e.Log, res.Message)
	}
	if res.Screenshot != "" {
		e.Screenshot = r.relative(res.Screenshot)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// relative makes a screenshot path usable as a link from the report dir
func (r *Reporter) relative(path string) string {
	absReport, err := filepath.Abs(r.cfg.ReportDir)
	if err != nil {
		return filepath.ToSlash(path)
	}
	absShot, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(absReport, absShot)
	if err != nil {
		return filepath.ToSlash(absShot)
	}
	return filepath.ToSlash(rel)
}

func (r *Reporter) write(summary runner.Summary) error {
	if r.path == "" {
		return fmt.Errorf("report was not started")
	}

	var buf bytes.Buffer
	if err := parsedHTMLTemplate.Execute(&buf, r.page(summary)); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	html, err := minify.HTML(buf.String())
	if err != nil {
		return fmt.Errorf("failed to minify report: %w", err)
	}

	if err := os.MkdirAll(r.cfg.ReportDir, 0o755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}
	if err := os.WriteFile(r.path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (r *Reporter) page(summary runner.Summary) page {
	info := []systemInfo{
		{"Application", "OpenCart"},
		{"Module", "Admin"},
		{"Sub Module", "Customers"},
		{"User Name", r.userName()},
		{"Environment", r.cfg.Environment},
		{"Operating System", r.info.OS},
		{"Browser", r.info.Browser},
	}
	if len(r.info.Groups) > 0 {
		info = append(info, systemInfo{"Groups", strings.Join(r.info.Groups, ", ")})
	}

	return page{
		DocumentTitle: DocumentTitle,
		ReportName:    ReportName,
		Suite:         r.info.Name,
		StartedAt:     r.info.StartedAt.Format(time.RFC1123),
		Duration:      summary.Duration().Round(time.Millisecond).String(),
		Passed:        summary.Passed,
		Failed:        summary.Failed,
		Skipped:       summary.Skipped,
		SystemInfo:    info,
		Entries:       r.entries,
	}
}

func (r *Reporter) userName() string {
	if r.cfg.UserName != "" {
		return r.cfg.UserName
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
