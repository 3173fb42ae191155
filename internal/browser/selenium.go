package browser

import (
	"context"
	"fmt"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
)

type seleniumDriver struct {
	wd selenium.WebDriver
}

// seleniumCapabilities builds the remote capabilities for the requested browser
func seleniumCapabilities(opts Options) selenium.Capabilities {
	var args []string
	if opts.Headless {
		args = append(args, "--headless")
	}

	caps := selenium.Capabilities{}
	switch opts.Name {
	case Chrome:
		caps["browserName"] = "chrome"
		caps.AddChrome(chrome.Capabilities{Args: args})
	case Edge:
		caps["browserName"] = "MicrosoftEdge"
		caps["ms:edgeOptions"] = map[string]interface{}{"args": args}
	case Firefox:
		caps["browserName"] = "firefox"
		caps.AddFirefox(firefox.Capabilities{Args: args})
	}
	return caps
}

func launchSelenium(ctx context.Context, opts Options) (Driver, error) {
	wd, err := selenium.NewRemote(seleniumCapabilities(opts), opts.SeleniumURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open webdriver session at %s: %w", opts.SeleniumURL, err)
	}

	if err := wd.SetImplicitWaitTimeout(opts.ImplicitWait); err != nil {
		wd.Quit()
		return nil, fmt.Errorf("failed to set implicit wait: %w", err)
	}
	if err := wd.SetPageLoadTimeout(opts.PageLoadTimeout); err != nil {
		wd.Quit()
		return nil, fmt.Errorf("failed to set page load timeout: %w", err)
	}

	return &seleniumDriver{wd: wd}, nil
}

func (d *seleniumDriver) Navigate(ctx context.Context, url string) error {
	return d.wd.Get(url)
}

func (d *seleniumDriver) Find(ctx context.Context, loc Locator) (Element, error) {
	el, err := d.wd.FindElement(selenium.ByXPATH, string(loc))
	if err != nil {
		return nil, notFound(loc, err)
	}
	return &seleniumElement{el: el}, nil
}

func (d *seleniumDriver) DeleteAllCookies(ctx context.Context) error {
	return d.wd.DeleteAllCookies()
}

func (d *seleniumDriver) Maximize(ctx context.Context) error {
	return d.wd.MaximizeWindow("")
}

func (d *seleniumDriver) Screenshot(ctx context.Context) ([]byte, error) {
	return d.wd.Screenshot()
}

func (d *seleniumDriver) CurrentURL(ctx context.Context) (string, error) {
	return d.wd.CurrentURL()
}

func (d *seleniumDriver) Title(ctx context.Context) (string, error) {
	return d.wd.Title()
}

func (d *seleniumDriver) Close() error {
	return d.wd.Quit()
}

type seleniumElement struct {
	el selenium.WebElement
}

func (e *seleniumElement) Click(ctx context.Context) error {
	return e.el.Click()
}

func (e *seleniumElement) Clear(ctx context.Context) error {
	return e.el.Clear()
}

func (e *seleniumElement) SendKeys(ctx context.Context, text string) error {
	return e.el.SendKeys(text)
}

func (e *seleniumElement) Submit(ctx context.Context) error {
	return e.el.Submit()
}

func (e *seleniumElement) Text(ctx context.Context) (string, error) {
	return e.el.Text()
}

func (e *seleniumElement) IsDisplayed(ctx context.Context) (bool, error) {
	return e.el.IsDisplayed()
}

func (e *seleniumElement) SelectByVisibleText(ctx context.Context, text string) error {
	option, err := e.el.FindElement(selenium.ByXPATH, optionLocator(text))
	if err != nil {
		return fmt.Errorf("%w: option %q: %v", ErrElementNotFound, text, err)
	}
	return option.Click()
}
