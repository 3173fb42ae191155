package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/opencart-qa/storefront-suite/internal/models"
	"github.com/opencart-qa/storefront-suite/internal/services"
)

// recentRunLimit is how many runs the index page lists
const recentRunLimit = 20

// ReportFile is a rendered report in the report directory
type ReportFile struct {
	Name     string
	Modified string
}

type indexPage struct {
	Title          string
	Reports        []ReportFile
	HistoryEnabled bool
	Runs           []*models.Run
}

// IndexHandler lists the reports on disk and, when history is recorded,
// the latest runs.
type IndexHandler struct {
	template  *template.Template
	reportDir string
	history   services.HistoryService
	logger    *zap.Logger
}

// NewIndexHandler creates a new IndexHandler. history may be nil.
func NewIndexHandler(templatePath, reportDir string, history services.HistoryService, logger *zap.Logger) (*IndexHandler, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return nil, err
	}

	return &IndexHandler{
		template:  tmpl,
		reportDir: reportDir,
		history:   history,
		logger:    logger,
	}, nil
}

// ServeHTTP handles the GET / request
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reports, err := ListReports(h.reportDir)
	if err != nil {
		h.logger.Error("Failed to list reports", zap.String("dir", h.reportDir), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	page := indexPage{
		Title:          "OpenCart Automation Reports",
		Reports:        reports,
		HistoryEnabled: h.history != nil,
	}
	if h.history != nil {
		runs, err := h.history.RecentRuns(recentRunLimit)
		if err != nil {
			// The report list is still useful without history
			h.logger.Warn("Failed to load recent runs", zap.Error(err))
		}
		page.Runs = runs
	}

	if err := h.template.Execute(w, page); err != nil {
		h.logger.Error("Failed to render index", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// ListReports returns the HTML reports in dir, newest first. A missing
// directory has no reports.
func ListReports(dir string) ([]ReportFile, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	type report struct {
		name    string
		modTime time.Time
	}
	var found []report
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, report{name: e.Name(), modTime: info.ModTime()})
	}

	// Report names embed their start time, so name order is start order
	sort.Slice(found, func(i, j int) bool { return found[i].name > found[j].name })

	reports := make([]ReportFile, 0, len(found))
	for _, f := range found {
		reports = append(reports, ReportFile{Name: f.name, Modified: f.modTime.Format(time.RFC1123)})
	}
	return reports, nil
}
