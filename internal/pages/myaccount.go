package pages

import (
	"context"

	"github.com/opencart-qa/storefront-suite/internal/browser"
)

// My Account page locators
const (
	MyAccountHeading    browser.Locator = "//h2[text()='My Account']"
	MyAccountLogoutLink browser.Locator = "//div[@class='list-group']//a[text()='Logout']"
)

// MyAccountPage is shown after a successful login
type MyAccountPage struct {
	Base
}

// NewMyAccountPage creates a new account page
func NewMyAccountPage(d browser.Driver) *MyAccountPage {
	return &MyAccountPage{Base{driver: d}}
}

// IsMyAccountPageExists reports whether the My Account heading is visible
func (p *MyAccountPage) IsMyAccountPageExists(ctx context.Context) bool {
	return p.displayed(ctx, MyAccountHeading)
}

// ClickLogout logs the customer out from the account sidebar
func (p *MyAccountPage) ClickLogout(ctx context.Context) error {
	return p.click(ctx, MyAccountLogoutLink)
}
