package e2e

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"go.uber.org/zap"

	internalcli "github.com/opencart-qa/storefront-suite/internal/cli"
	"github.com/opencart-qa/storefront-suite/internal/config"
	"github.com/opencart-qa/storefront-suite/internal/handlers"
	"github.com/opencart-qa/storefront-suite/internal/report"
)

// TestSearchSuiteReport runs the search class against the live store and
// browses the resulting report through the report server.
// Feature: Suite report
//
//	Scenario: Run the Gorilla group and read the report
//	  Given the storefront is reachable
//	  When I run the Gorilla group with the playwright driver
//	  Then the product search case passes
//	  And the report server lists the new report
//	  And the report shows the passed case
func TestSearchSuiteReport(t *testing.T) {
	dir := t.TempDir()
	getenv := func(key string) string {
		switch key {
		case "STORE_URL":
			return storeURL
		case "REPORT_DIR":
			return filepath.Join(dir, "reports")
		case "SCREENSHOT_DIR":
			return filepath.Join(dir, "screenshots")
		case "SETTLE_DELAY":
			return "1s"
		}
		return os.Getenv(key)
	}

	// When I run the Gorilla group with the playwright driver
	deps, err := internalcli.LoadRunDependencies(getenv, internalcli.RunOptions{
		Groups: []string{"Gorilla"},
		Driver: "playwright",
	})
	if err != nil {
		t.Fatalf("Failed to load run configuration: %v", err)
	}
	summary, err := internalcli.RunSuite(context.Background(), deps, zap.NewNop())

	// Then the product search case passes
	if err != nil {
		t.Fatalf("Suite run failed: %v", err)
	}
	if summary.Passed != 1 {
		t.Fatalf("Expected the search case to pass, got %+v", summary)
	}

	// And the report server lists the new report
	reports, err := handlers.ListReports(deps.Report.ReportDir)
	if err != nil || len(reports) != 1 {
		t.Fatalf("Expected one report, got %v (%v)", reports, err)
	}
	if !strings.HasPrefix(reports[0].Name, "Test-Report-") {
		t.Errorf("Unexpected report name %s", reports[0].Name)
	}

	indexHandler, err := handlers.NewIndexHandler("../templates/index.html", deps.Report.ReportDir, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create index handler: %v", err)
	}
	listener, server, err := internalcli.StartServer(internalcli.ServerDependencies{
		ServerConfig:  config.ServerConfig{Port: "0"},
		ReportDir:     deps.Report.ReportDir,
		ScreenshotDir: deps.Report.ScreenshotDir,
		IndexHandler:  indexHandler,
	})
	if err != nil {
		t.Fatalf("Failed to start report server: %v", err)
	}
	defer listener.Close()
	shutdown := make(chan os.Signal, 1)
	done := make(chan error, 1)
	go func() { done <- internalcli.WaitForShutdownWithTimeout(server, shutdown, 5*time.Second) }()
	defer func() {
		shutdown <- syscall.SIGTERM
		<-done
	}()
	base := fmt.Sprintf("http://localhost:%d", listener.Addr().(*net.TCPAddr).Port)

	page, err := browser.NewPage()
	if err != nil {
		t.Fatal(err)
	}
	defer page.Close()

	if _, err = page.Goto(base + "/"); err != nil {
		t.Fatalf("Failed to open report index: %v", err)
	}
	link := page.Locator("a[href^='/reports/']")
	if count, err := link.Count(); err != nil || count != 1 {
		t.Fatalf("Expected one report link, got %d (%v)", count, err)
	}

	// And the report shows the passed case
	if err := link.Click(); err != nil {
		t.Fatalf("Failed to open report: %v", err)
	}
	title, err := page.Title()
	if err != nil {
		t.Fatalf("Failed to read report title: %v", err)
	}
	if title != report.DocumentTitle {
		t.Errorf("Expected title %q, got %q", report.DocumentTitle, title)
	}
	body, err := page.Locator("body").TextContent()
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	if !strings.Contains(body, "SearchPageTest - VerifyProductDisplay") {
		t.Error("Report does not list the search case")
	}
	if !strings.Contains(body, "VerifyProductDisplay got successfully executed") {
		t.Error("Report does not show the search case as passed")
	}
}
