package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// submitScript submits the element's form the way WebDriver's submit does
const submitScript = `el => {
	if (el.form) {
		if (el.form.requestSubmit) { el.form.requestSubmit(); } else { el.form.submit(); }
	} else {
		el.click();
	}
}`

type playwrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	opts    Options
}

func launchPlaywright(ctx context.Context, opts Options) (Driver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	var browserType playwright.BrowserType
	switch opts.Name {
	case Chrome:
		browserType = pw.Chromium
	case Edge:
		browserType = pw.Chromium
		launch.Channel = playwright.String("msedge")
	case Firefox:
		browserType = pw.Firefox
	}

	b, err := browserType.Launch(launch)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := b.NewContext()
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	page.SetDefaultTimeout(float64(opts.ImplicitWait.Milliseconds()))
	page.SetDefaultNavigationTimeout(float64(opts.PageLoadTimeout.Milliseconds()))

	return &playwrightDriver{pw: pw, browser: b, context: bctx, page: page, opts: opts}, nil
}

func (d *playwrightDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.page.Goto(url)
	return err
}

func (d *playwrightDriver) Find(ctx context.Context, loc Locator) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := d.page.Locator("xpath=" + string(loc)).First()
	err := l.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(d.opts.ImplicitWait.Milliseconds())),
	})
	if err != nil {
		return nil, notFound(loc, err)
	}
	return &playwrightElement{locator: l}, nil
}

func (d *playwrightDriver) DeleteAllCookies(ctx context.Context) error {
	return d.context.ClearCookies()
}

func (d *playwrightDriver) Maximize(ctx context.Context) error {
	return d.page.SetViewportSize(windowWidth, windowHeight)
}

func (d *playwrightDriver) Screenshot(ctx context.Context) ([]byte, error) {
	return d.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
}

func (d *playwrightDriver) CurrentURL(ctx context.Context) (string, error) {
	return d.page.URL(), nil
}

func (d *playwrightDriver) Title(ctx context.Context) (string, error) {
	return d.page.Title()
}

func (d *playwrightDriver) Close() error {
	var firstErr error
	if err := d.context.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := d.browser.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := d.pw.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

type playwrightElement struct {
	locator playwright.Locator
}

func (e *playwrightElement) Click(ctx context.Context) error {
	return e.locator.Click()
}

func (e *playwrightElement) Clear(ctx context.Context) error {
	return e.locator.Clear()
}

func (e *playwrightElement) SendKeys(ctx context.Context, text string) error {
	return e.locator.PressSequentially(text)
}

func (e *playwrightElement) Submit(ctx context.Context) error {
	_, err := e.locator.Evaluate(submitScript, nil)
	return err
}

func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	return e.locator.InnerText()
}

func (e *playwrightElement) IsDisplayed(ctx context.Context) (bool, error) {
	return e.locator.IsVisible()
}

func (e *playwrightElement) SelectByVisibleText(ctx context.Context, text string) error {
	labels := []string{text}
	_, err := e.locator.SelectOption(playwright.SelectOptionValues{Labels: &labels})
	return err
}
