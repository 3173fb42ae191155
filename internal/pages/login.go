package pages

import (
	"context"

	"github.com/opencart-qa/storefront-suite/internal/browser"
)

// Login page locators
const (
	LoginEmailInput    browser.Locator = "//input[@id='input-email']"
	LoginPasswordInput browser.Locator = "//input[@id='input-password']"
	LoginButton        browser.Locator = "//input[@value='Login']"
)

// LoginPage is the returning customer form
type LoginPage struct {
	Base
}

// NewLoginPage creates a new login page
func NewLoginPage(d browser.Driver) *LoginPage {
	return &LoginPage{Base{driver: d}}
}

func (p *LoginPage) SetEmail(ctx context.Context, email string) error {
	return p.typeInto(ctx, LoginEmailInput, email)
}

func (p *LoginPage) SetPassword(ctx context.Context, password string) error {
	return p.typeInto(ctx, LoginPasswordInput, password)
}

func (p *LoginPage) ClickLogin(ctx context.Context) error {
	return p.click(ctx, LoginButton)
}
