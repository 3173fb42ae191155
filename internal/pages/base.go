// Package pages models the OpenCart storefront as page objects. Each page
// is a named set of XPath locators with one method per user action.
package pages

import (
	"context"
	"fmt"

	"github.com/opencart-qa/storefront-suite/internal/browser"
)

// Base is embedded by every page and wraps the shared driver
type Base struct {
	driver browser.Driver
}

func (b Base) find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	return b.driver.Find(ctx, loc)
}

func (b Base) click(ctx context.Context, loc browser.Locator) error {
	el, err := b.find(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Click(ctx); err != nil {
		return fmt.Errorf("failed to click %s: %w", loc, err)
	}
	return nil
}

func (b Base) typeInto(ctx context.Context, loc browser.Locator, text string) error {
	el, err := b.find(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.SendKeys(ctx, text); err != nil {
		return fmt.Errorf("failed to type into %s: %w", loc, err)
	}
	return nil
}

func (b Base) selectText(ctx context.Context, loc browser.Locator, text string) error {
	el, err := b.find(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.SelectByVisibleText(ctx, text); err != nil {
		return fmt.Errorf("failed to select %q in %s: %w", text, loc, err)
	}
	return nil
}

// displayed reports visibility; any lookup failure counts as not displayed
func (b Base) displayed(ctx context.Context, loc browser.Locator) bool {
	el, err := b.find(ctx, loc)
	if err != nil {
		return false
	}
	ok, err := el.IsDisplayed(ctx)
	return err == nil && ok
}
