package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// visibilityProbe bounds IsDisplayed so a hidden element answers quickly
const visibilityProbe = 500 * time.Millisecond

// selectScript picks the option whose trimmed text matches and fires change
const selectScript = `(function(xpath, label) {
	const el = document.evaluate(xpath, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	if (!el) { return false; }
	for (const opt of el.options) {
		if (opt.text.trim() === label) {
			el.value = opt.value;
			el.dispatchEvent(new Event('change', { bubbles: true }));
			return true;
		}
	}
	return false;
})(%q, %q)`

type chromedpDriver struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
	opts        Options
}

func launchChromedp(ctx context.Context, opts Options) (Driver, error) {
	if opts.Name != Chrome {
		return nil, fmt.Errorf("%w: %s with %s", ErrUnsupportedBrowser, opts.Name, KindChromedp)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.WindowSize(windowWidth, windowHeight),
	)

	// The browser outlives the launch context; it is torn down by Close.
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	return &chromedpDriver{
		ctx:         browserCtx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
		opts:        opts,
	}, nil
}

// run executes actions against the browser bounded by timeout and ctx
func (d *chromedpDriver) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(d.ctx, timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (d *chromedpDriver) Navigate(ctx context.Context, url string) error {
	return d.run(ctx, d.opts.PageLoadTimeout, chromedp.Navigate(url))
}

func (d *chromedpDriver) Find(ctx context.Context, loc Locator) (Element, error) {
	var nodes []*cdp.Node
	if err := d.run(ctx, d.opts.ImplicitWait, chromedp.Nodes(string(loc), &nodes, chromedp.BySearch)); err != nil {
		return nil, notFound(loc, err)
	}
	return &chromedpElement{driver: d, xpath: string(loc)}, nil
}

func (d *chromedpDriver) DeleteAllCookies(ctx context.Context) error {
	return d.run(ctx, d.opts.ImplicitWait, network.ClearBrowserCookies())
}

func (d *chromedpDriver) Maximize(ctx context.Context) error {
	return d.run(ctx, d.opts.ImplicitWait, chromedp.EmulateViewport(windowWidth, windowHeight))
}

func (d *chromedpDriver) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := d.run(ctx, d.opts.PageLoadTimeout, chromedp.FullScreenshot(&buf, 90))
	return buf, err
}

func (d *chromedpDriver) CurrentURL(ctx context.Context) (string, error) {
	var url string
	err := d.run(ctx, d.opts.ImplicitWait, chromedp.Location(&url))
	return url, err
}

func (d *chromedpDriver) Title(ctx context.Context) (string, error) {
	var title string
	err := d.run(ctx, d.opts.ImplicitWait, chromedp.Title(&title))
	return title, err
}

func (d *chromedpDriver) Close() error {
	d.cancelCtx()
	d.cancelAlloc()
	return nil
}

type chromedpElement struct {
	driver *chromedpDriver
	xpath  string
}

func (e *chromedpElement) do(ctx context.Context, action chromedp.Action) error {
	return e.driver.run(ctx, e.driver.opts.ImplicitWait, action)
}

func (e *chromedpElement) Click(ctx context.Context) error {
	return e.do(ctx, chromedp.Click(e.xpath, chromedp.BySearch))
}

func (e *chromedpElement) Clear(ctx context.Context) error {
	return e.do(ctx, chromedp.Clear(e.xpath, chromedp.BySearch))
}

func (e *chromedpElement) SendKeys(ctx context.Context, text string) error {
	return e.do(ctx, chromedp.SendKeys(e.xpath, text, chromedp.BySearch))
}

func (e *chromedpElement) Submit(ctx context.Context) error {
	return e.do(ctx, chromedp.Submit(e.xpath, chromedp.BySearch))
}

func (e *chromedpElement) Text(ctx context.Context) (string, error) {
	var text string
	err := e.do(ctx, chromedp.Text(e.xpath, &text, chromedp.BySearch))
	return text, err
}

func (e *chromedpElement) IsDisplayed(ctx context.Context) (bool, error) {
	err := e.driver.run(ctx, visibilityProbe, chromedp.WaitVisible(e.xpath, chromedp.BySearch))
	if errors.Is(err, context.DeadlineExceeded) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (e *chromedpElement) SelectByVisibleText(ctx context.Context, text string) error {
	var ok bool
	if err := e.do(ctx, chromedp.Evaluate(fmt.Sprintf(selectScript, e.xpath, text), &ok)); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: option %q", ErrElementNotFound, text)
	}
	return nil
}
