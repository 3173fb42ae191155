package pages

import (
	"context"
	"fmt"

	"github.com/opencart-qa/storefront-suite/internal/browser"
)

// Shopping cart locators
const (
	CartQuantityInput       browser.Locator = "//div[@class='input-group btn-block']/input"
	CartShippingTaxLink     browser.Locator = "//a[normalize-space()='Estimate Shipping & Taxes']"
	CartCountrySelect       browser.Locator = "//select[@id='input-country']"
	CartStateSelect         browser.Locator = "//select[@id='input-zone']"
	CartPostcodeInput       browser.Locator = "//input[@id='input-postcode']"
	CartQuoteButton         browser.Locator = "//button[@id='button-quote']"
	CartShippingMethodRadio browser.Locator = "//input[@name='shipping_method']"
	CartApplyShippingButton browser.Locator = "//input[@id='button-shipping']"
	CartSuccessAlert        browser.Locator = "//div[@class='alert alert-success alert-dismissible']"
	CartAvailabilityAlert   browser.Locator = "//div[@class='alert alert-danger alert-dismissible']"
	CartContinueShopping    browser.Locator = "//a[normalize-space()='Continue Shopping']"
	CartCheckoutButton      browser.Locator = "//a[@class='btn btn-primary']"
)

// CartPage is the shopping cart with the shipping estimator
type CartPage struct {
	Base
}

// NewCartPage creates a new cart page
func NewCartPage(d browser.Driver) *CartPage {
	return &CartPage{Base{driver: d}}
}

// SetProductQuantity replaces the quantity of the first cart line
func (p *CartPage) SetProductQuantity(ctx context.Context, value string) error {
	el, err := p.find(ctx, CartQuantityInput)
	if err != nil {
		return err
	}
	if err := el.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear quantity: %w", err)
	}
	if err := el.SendKeys(ctx, value); err != nil {
		return fmt.Errorf("failed to type quantity: %w", err)
	}
	return nil
}

// ClickShippingTax expands the shipping estimator
func (p *CartPage) ClickShippingTax(ctx context.Context) error {
	return p.click(ctx, CartShippingTaxLink)
}

func (p *CartPage) SelectCountry(ctx context.Context, country string) error {
	return p.selectText(ctx, CartCountrySelect, country)
}

func (p *CartPage) SelectState(ctx context.Context, state string) error {
	return p.selectText(ctx, CartStateSelect, state)
}

func (p *CartPage) SetPostcode(ctx context.Context, postcode string) error {
	return p.typeInto(ctx, CartPostcodeInput, postcode)
}

// ClickQuote requests shipping quotes
func (p *CartPage) ClickQuote(ctx context.Context) error {
	return p.click(ctx, CartQuoteButton)
}

func (p *CartPage) ClickShippingMethod(ctx context.Context) error {
	return p.click(ctx, CartShippingMethodRadio)
}

func (p *CartPage) ClickApplyShipping(ctx context.Context) error {
	return p.click(ctx, CartApplyShippingButton)
}

// VerifyApplySuccessMessage reports whether the shipping estimate was applied
func (p *CartPage) VerifyApplySuccessMessage(ctx context.Context) bool {
	return p.displayed(ctx, CartSuccessAlert)
}

// VerifyAvailabilityWarning reports whether the out-of-stock warning is shown
func (p *CartPage) VerifyAvailabilityWarning(ctx context.Context) bool {
	return p.displayed(ctx, CartAvailabilityAlert)
}

func (p *CartPage) ClickContinueShopping(ctx context.Context) error {
	return p.click(ctx, CartContinueShopping)
}

func (p *CartPage) ClickCheckout(ctx context.Context) error {
	return p.click(ctx, CartCheckoutButton)
}
