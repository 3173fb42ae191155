package config

import (
	"fmt"
	"strconv"
)

// ReportConfig holds output locations and the report header details
type ReportConfig struct {
	ReportDir     string
	ScreenshotDir string
	UserName      string
	Environment   string
	OpenReport    bool
}

// LoadReportConfig loads report configuration from environment variables
func LoadReportConfig(getenv func(string) string) (*ReportConfig, error) {
	config := &ReportConfig{
		ReportDir:     getenv("REPORT_DIR"),
		ScreenshotDir: getenv("SCREENSHOT_DIR"),
		UserName:      getenv("REPORT_USER"),
		Environment:   getenv("REPORT_ENVIRONMENT"),
	}

	if config.ReportDir == "" {
		config.ReportDir = "reports"
	}
	if config.ScreenshotDir == "" {
		config.ScreenshotDir = "screenshots"
	}
	if config.Environment == "" {
		config.Environment = "QA"
	}

	if v := getenv("OPEN_REPORT"); v != "" {
		open, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("OPEN_REPORT must be a boolean: %w", err)
		}
		config.OpenReport = open
	}

	return config, nil
}
