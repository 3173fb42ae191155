// Package browsertest provides an in-memory browser.Driver so page objects
// and test cases can be exercised without launching a browser.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/opencart-qa/storefront-suite/internal/browser"
)

// Driver is a scripted fake. Elements are registered per locator; every
// interaction is appended to Calls.
type Driver struct {
	mu sync.Mutex

	elements map[browser.Locator]*Element

	URL        string
	PageTitle  string
	Cookies    int
	Maximized  bool
	Closed     bool
	Calls      []string
	Image      []byte
	ImageErr   error
	NavigateFn func(url string) error
}

// NewDriver returns an empty fake with a small PNG-ish screenshot payload
func NewDriver() *Driver {
	return &Driver{
		elements: map[browser.Locator]*Element{},
		Image:    []byte("\x89PNG fake"),
		Cookies:  1,
	}
}

// Add registers an element under loc and returns it for further scripting
func (d *Driver) Add(loc browser.Locator, el *Element) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	el.driver = d
	el.loc = loc
	d.elements[loc] = el
	return el
}

// Remove makes loc unresolvable, as if the element left the DOM
func (d *Driver) Remove(loc browser.Locator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, loc)
}

// Element returns the registered element for loc, or nil
func (d *Driver) Element(loc browser.Locator) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.elements[loc]
}

// Called reports whether an exact call was recorded
func (d *Driver) Called(call string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.Calls {
		if c == call {
			return true
		}
	}
	return false
}

// CallsWithPrefix returns the recorded calls starting with prefix, in order
func (d *Driver) CallsWithPrefix(prefix string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []string
	for _, c := range d.Calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (d *Driver) record(format string, args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	d.record("navigate %s", url)
	if d.NavigateFn != nil {
		if err := d.NavigateFn(url); err != nil {
			return err
		}
	}
	d.mu.Lock()
	d.URL = url
	d.mu.Unlock()
	return nil
}

func (d *Driver) Find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	el, ok := d.elements[loc]
	d.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", browser.ErrElementNotFound, loc)
	}
	return el, nil
}

func (d *Driver) DeleteAllCookies(ctx context.Context) error {
	d.record("delete cookies")
	d.mu.Lock()
	d.Cookies = 0
	d.mu.Unlock()
	return nil
}

func (d *Driver) Maximize(ctx context.Context) error {
	d.record("maximize")
	d.mu.Lock()
	d.Maximized = true
	d.mu.Unlock()
	return nil
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	d.record("screenshot")
	return d.Image, d.ImageErr
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.URL, nil
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.PageTitle, nil
}

func (d *Driver) Close() error {
	d.record("close")
	d.mu.Lock()
	d.Closed = true
	d.mu.Unlock()
	return nil
}

// Element is a scripted element. Hooks run after the interaction is recorded
// and may mutate the driver, e.g. to reveal the next page's elements.
type Element struct {
	driver *Driver
	loc    browser.Locator

	Value    string
	Content  string
	Hidden   bool
	Options  []string
	Selected string
	Err      error
	OnClick  func(d *Driver)
	OnSubmit func(d *Driver)
	OnChange func(d *Driver, value string)
}

func (e *Element) Click(ctx context.Context) error {
	e.driver.record("click %s", e.loc)
	if e.Err != nil {
		return e.Err
	}
	if e.OnClick != nil {
		e.OnClick(e.driver)
	}
	return nil
}

func (e *Element) Clear(ctx context.Context) error {
	e.driver.record("clear %s", e.loc)
	if e.Err != nil {
		return e.Err
	}
	e.Value = ""
	return nil
}

func (e *Element) SendKeys(ctx context.Context, text string) error {
	e.driver.record("type %s %s", e.loc, text)
	if e.Err != nil {
		return e.Err
	}
	e.Value += text
	if e.OnChange != nil {
		e.OnChange(e.driver, e.Value)
	}
	return nil
}

func (e *Element) Submit(ctx context.Context) error {
	e.driver.record("submit %s", e.loc)
	if e.Err != nil {
		return e.Err
	}
	if e.OnSubmit != nil {
		e.OnSubmit(e.driver)
	}
	return nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if e.Err != nil {
		return "", e.Err
	}
	return e.Content, nil
}

func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	if e.Err != nil {
		return false, e.Err
	}
	return !e.Hidden, nil
}

func (e *Element) SelectByVisibleText(ctx context.Context, text string) error {
	e.driver.record("select %s %s", e.loc, text)
	if e.Err != nil {
		return e.Err
	}
	for _, o := range e.Options {
		if o == text {
			e.Selected = text
			if e.OnChange != nil {
				e.OnChange(e.driver, text)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: option %q", browser.ErrElementNotFound, text)
}
