package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// screenshotStamp is appended to screenshot file names
const screenshotStamp = "20060102150405"

// SaveScreenshot captures the current page into dir as
// <name>_<timestamp>.png and returns the written path.
func SaveScreenshot(ctx context.Context, d Driver, dir, name string, now time.Time) (string, error) {
	if d == nil {
		return "", fmt.Errorf("browser is not initialized, cannot capture screenshot")
	}

	data, err := d.Screenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to capture screenshot: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", name, now.Format(screenshotStamp)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return path, nil
}
