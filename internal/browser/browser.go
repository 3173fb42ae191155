// Package browser binds the suite to a browser-automation library. Page
// objects only see the Driver and Element interfaces; the backend is
// chosen at launch time.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/opencart-qa/storefront-suite/internal/config"
)

// Locator is an XPath expression identifying one element.
type Locator string

// Kind names a backend library
type Kind string

// Supported backends
const (
	KindPlaywright Kind = "playwright"
	KindSelenium   Kind = "selenium"
	KindChromedp   Kind = "chromedp"
	KindRod        Kind = "rod"
)

// Name is the browser to drive
type Name string

// Supported browsers
const (
	Chrome  Name = "chrome"
	Edge    Name = "edge"
	Firefox Name = "firefox"
)

// Window size used when maximising headless sessions
const (
	windowWidth  = 1920
	windowHeight = 1080
)

// Errors returned by Open and by element lookups
var (
	ErrUnknownDriver      = errors.New("unknown browser driver")
	ErrUnknownBrowser     = errors.New("invalid browser name")
	ErrUnsupportedBrowser = errors.New("browser not supported by driver")
	ErrElementNotFound    = errors.New("element not found")
)

// Element is a located element on the current page
type Element interface {
	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	Submit(ctx context.Context) error
	Text(ctx context.Context) (string, error)
	IsDisplayed(ctx context.Context) (bool, error)
	SelectByVisibleText(ctx context.Context, text string) error
}

// Driver controls one browser window
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Find(ctx context.Context, loc Locator) (Element, error)
	DeleteAllCookies(ctx context.Context) error
	Maximize(ctx context.Context) error
	Screenshot(ctx context.Context) ([]byte, error)
	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	Close() error
}

// Options configures a browser session
type Options struct {
	Kind            Kind
	Name            Name
	Headless        bool
	SeleniumURL     string
	ImplicitWait    time.Duration
	PageLoadTimeout time.Duration
}

// OptionsFromConfig converts the environment configuration into Options
func OptionsFromConfig(cfg *config.BrowserConfig) Options {
	return Options{
		Kind:            Kind(strings.ToLower(cfg.Driver)),
		Name:            Name(strings.ToLower(cfg.Browser)),
		Headless:        cfg.Headless,
		SeleniumURL:     cfg.SeleniumURL,
		ImplicitWait:    cfg.ImplicitWait,
		PageLoadTimeout: cfg.PageLoadTimeout,
	}
}

type launchFunc func(ctx context.Context, opts Options) (Driver, error)

var launchers = map[Kind]launchFunc{
	KindPlaywright: launchPlaywright,
	KindSelenium:   launchSelenium,
	KindChromedp:   launchChromedp,
	KindRod:        launchRod,
}

// validate checks the backend and browser names before anything is launched
func (o Options) validate() error {
	if _, ok := launchers[o.Kind]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDriver, o.Kind)
	}
	switch o.Name {
	case Chrome, Edge, Firefox:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBrowser, o.Name)
	}
	return nil
}

// Open launches a browser and prepares it for a test class: cookies
// cleared, window maximised and startURL loaded.
func Open(ctx context.Context, opts Options, startURL string, logger *zap.Logger) (Driver, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	logger.Info("Launching browser",
		zap.String("driver", string(opts.Kind)),
		zap.String("browser", string(opts.Name)),
		zap.Bool("headless", opts.Headless))

	d, err := launchers[opts.Kind](ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s via %s: %w", opts.Name, opts.Kind, err)
	}

	if err := Prepare(ctx, d, startURL, logger); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// Prepare resets a fresh session and loads the start page
func Prepare(ctx context.Context, d Driver, startURL string, logger *zap.Logger) error {
	if err := d.DeleteAllCookies(ctx); err != nil {
		return fmt.Errorf("failed to delete cookies: %w", err)
	}
	logger.Debug("Deleted all cookies")

	if err := d.Maximize(ctx); err != nil {
		return fmt.Errorf("failed to maximize window: %w", err)
	}
	logger.Debug("Maximized browser window")

	if startURL == "" {
		return nil
	}
	if err := d.Navigate(ctx, startURL); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", startURL, err)
	}
	logger.Info("Navigated to URL", zap.String("url", startURL))
	return nil
}

// notFound wraps a backend lookup error
func notFound(loc Locator, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrElementNotFound, loc, err)
}

// xpathLiteral quotes s for use inside an XPath expression
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		quoted = append(quoted, "'"+p+"'")
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// optionLocator finds an <option> of a select by its visible text
func optionLocator(text string) string {
	return fmt.Sprintf(".//option[normalize-space()=%s]", xpathLiteral(text))
}
