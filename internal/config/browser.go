package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BrowserConfig holds the browser session settings
type BrowserConfig struct {
	Driver          string
	Browser         string
	OS              string
	Headless        bool
	SeleniumURL     string
	ImplicitWait    time.Duration
	PageLoadTimeout time.Duration
}

// LoadBrowserConfig loads browser configuration from environment variables
func LoadBrowserConfig(getenv func(string) string) (*BrowserConfig, error) {
	config := &BrowserConfig{
		Driver:          strings.ToLower(getenv("BROWSER_DRIVER")),
		Browser:         strings.ToLower(getenv("BROWSER")),
		OS:              getenv("OS"),
		Headless:        true,
		SeleniumURL:     getenv("SELENIUM_URL"),
		ImplicitWait:    10 * time.Second,
		PageLoadTimeout: 10 * time.Second,
	}

	if config.Driver == "" {
		config.Driver = "playwright"
	}
	if config.Browser == "" {
		config.Browser = "chrome"
	}
	if config.OS == "" {
		config.OS = "Windows"
	}
	if config.SeleniumURL == "" {
		config.SeleniumURL = "http://localhost:4444/wd/hub"
	}

	if v := getenv("HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("HEADLESS must be a boolean: %w", err)
		}
		config.Headless = headless
	}

	var err error
	if config.ImplicitWait, err = durationOrDefault(getenv, "IMPLICIT_WAIT", config.ImplicitWait); err != nil {
		return nil, err
	}
	if config.PageLoadTimeout, err = durationOrDefault(getenv, "PAGE_LOAD_TIMEOUT", config.PageLoadTimeout); err != nil {
		return nil, err
	}

	return config, nil
}

// durationOrDefault parses key as a time.Duration when it is set
func durationOrDefault(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
