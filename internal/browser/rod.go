package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const (
	clearScript = `() => {
	this.value = '';
	this.dispatchEvent(new Event('input', { bubbles: true }));
}`
	rodSubmitScript = `() => {
	if (this.form) {
		if (this.form.requestSubmit) { this.form.requestSubmit(); } else { this.form.submit(); }
	} else {
		this.click();
	}
}`
)

type rodDriver struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	opts     Options
}

func launchRod(ctx context.Context, opts Options) (Driver, error) {
	if opts.Name != Chrome {
		return nil, fmt.Errorf("%w: %s with %s", ErrUnsupportedBrowser, opts.Name, KindRod)
	}

	l := launcher.New().Headless(opts.Headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch chrome: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to chrome: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &rodDriver{launcher: l, browser: b, page: page, opts: opts}, nil
}

func (d *rodDriver) Navigate(ctx context.Context, url string) error {
	p := d.page.Context(ctx).Timeout(d.opts.PageLoadTimeout)
	if err := p.Navigate(url); err != nil {
		return err
	}
	return p.WaitLoad()
}

func (d *rodDriver) Find(ctx context.Context, loc Locator) (Element, error) {
	el, err := d.page.Context(ctx).Timeout(d.opts.ImplicitWait).ElementX(string(loc))
	if err != nil {
		return nil, notFound(loc, err)
	}
	return &rodElement{el: el.CancelTimeout(), opts: d.opts}, nil
}

func (d *rodDriver) DeleteAllCookies(ctx context.Context) error {
	return d.browser.Context(ctx).SetCookies(nil)
}

func (d *rodDriver) Maximize(ctx context.Context) error {
	return d.page.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  windowWidth,
		Height: windowHeight,
	})
}

func (d *rodDriver) Screenshot(ctx context.Context) ([]byte, error) {
	return d.page.Context(ctx).Screenshot(true, nil)
}

func (d *rodDriver) CurrentURL(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (d *rodDriver) Title(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

func (d *rodDriver) Close() error {
	err := d.browser.Close()
	d.launcher.Kill()
	return err
}

type rodElement struct {
	el   *rod.Element
	opts Options
}

// bound returns the element scoped to ctx and the implicit wait
func (e *rodElement) bound(ctx context.Context) *rod.Element {
	return e.el.Context(ctx).Timeout(e.opts.ImplicitWait)
}

func (e *rodElement) Click(ctx context.Context) error {
	return e.bound(ctx).Click(proto.InputMouseButtonLeft, 1)
}

func (e *rodElement) Clear(ctx context.Context) error {
	_, err := e.bound(ctx).Eval(clearScript)
	return err
}

func (e *rodElement) SendKeys(ctx context.Context, text string) error {
	return e.bound(ctx).Input(text)
}

func (e *rodElement) Submit(ctx context.Context) error {
	_, err := e.bound(ctx).Eval(rodSubmitScript)
	return err
}

func (e *rodElement) Text(ctx context.Context) (string, error) {
	return e.bound(ctx).Text()
}

func (e *rodElement) IsDisplayed(ctx context.Context) (bool, error) {
	return e.bound(ctx).Visible()
}

func (e *rodElement) SelectByVisibleText(ctx context.Context, text string) error {
	return e.bound(ctx).Select([]string{text}, true, rod.SelectorTypeText)
}
