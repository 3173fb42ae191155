package pages

import (
	"context"

	"github.com/opencart-qa/storefront-suite/internal/browser"
)

// Home page locators
const (
	HomeMyAccountLink browser.Locator = "//span[normalize-space()='My Account']"
	HomeRegisterLink  browser.Locator = "//a[normalize-space()='Register']"
	HomeLoginLink     browser.Locator = "//a[normalize-space()='Login']"
	HomeSearchInput   browser.Locator = "//input[@placeholder='Search']"
	HomeSearchButton  browser.Locator = "//button[@class='btn btn-default btn-lg']"
)

// HomePage is the storefront landing page with the account menu and search bar
type HomePage struct {
	Base
}

// NewHomePage creates a new home page
func NewHomePage(d browser.Driver) *HomePage {
	return &HomePage{Base{driver: d}}
}

// ClickMyAccount opens the account dropdown
func (p *HomePage) ClickMyAccount(ctx context.Context) error {
	return p.click(ctx, HomeMyAccountLink)
}

// ClickRegister follows the Register entry of the account dropdown
func (p *HomePage) ClickRegister(ctx context.Context) error {
	return p.click(ctx, HomeRegisterLink)
}

// ClickLogin follows the Login entry of the account dropdown
func (p *HomePage) ClickLogin(ctx context.Context) error {
	return p.click(ctx, HomeLoginLink)
}

// SendSearch types a search term
func (p *HomePage) SendSearch(ctx context.Context, value string) error {
	return p.typeInto(ctx, HomeSearchInput, value)
}

// ClickEnter submits the search
func (p *HomePage) ClickEnter(ctx context.Context) error {
	return p.click(ctx, HomeSearchButton)
}
