package pages

import (
	"context"
	"fmt"

	"github.com/opencart-qa/storefront-suite/internal/browser"
)

// Registration page locators
const (
	RegisterFirstNameInput   browser.Locator = "//input[@id='input-firstname']"
	RegisterLastNameInput    browser.Locator = "//input[@id='input-lastname']"
	RegisterEmailInput       browser.Locator = "//input[@id='input-email']"
	RegisterTelephoneInput   browser.Locator = "//input[@id='input-telephone']"
	RegisterPasswordInput    browser.Locator = "//input[@id='input-password']"
	RegisterConfirmInput     browser.Locator = "//input[@id='input-confirm']"
	RegisterNewsletterYes    browser.Locator = "//label[normalize-space()='Yes']"
	RegisterPolicyCheckbox   browser.Locator = "//input[@name='agree']"
	RegisterContinueButton   browser.Locator = "//input[@value='Continue']"
	RegisterConfirmationText browser.Locator = "//h1[normalize-space()='Your Account Has Been Created!']"
)

// AccountCreatedMessage is the heading shown after a successful registration
const AccountCreatedMessage = "Your Account Has Been Created!"

// RegistrationPage is the new customer form
type RegistrationPage struct {
	Base
}

// NewRegistrationPage creates a new registration page
func NewRegistrationPage(d browser.Driver) *RegistrationPage {
	return &RegistrationPage{Base{driver: d}}
}

func (p *RegistrationPage) SetFirstName(ctx context.Context, name string) error {
	return p.typeInto(ctx, RegisterFirstNameInput, name)
}

func (p *RegistrationPage) SetLastName(ctx context.Context, name string) error {
	return p.typeInto(ctx, RegisterLastNameInput, name)
}

func (p *RegistrationPage) SetEmail(ctx context.Context, email string) error {
	return p.typeInto(ctx, RegisterEmailInput, email)
}

func (p *RegistrationPage) SetTelephone(ctx context.Context, tel string) error {
	return p.typeInto(ctx, RegisterTelephoneInput, tel)
}

func (p *RegistrationPage) SetPassword(ctx context.Context, pwd string) error {
	return p.typeInto(ctx, RegisterPasswordInput, pwd)
}

func (p *RegistrationPage) SetConfirmPassword(ctx context.Context, pwd string) error {
	return p.typeInto(ctx, RegisterConfirmInput, pwd)
}

// SetNewsletterYes subscribes to the newsletter
func (p *RegistrationPage) SetNewsletterYes(ctx context.Context) error {
	return p.click(ctx, RegisterNewsletterYes)
}

// SetPrivacyPolicy ticks the privacy policy agreement
func (p *RegistrationPage) SetPrivacyPolicy(ctx context.Context) error {
	return p.click(ctx, RegisterPolicyCheckbox)
}

// Continue submits the registration form
func (p *RegistrationPage) Continue(ctx context.Context) error {
	el, err := p.find(ctx, RegisterContinueButton)
	if err != nil {
		return err
	}
	if err := el.Submit(ctx); err != nil {
		return fmt.Errorf("failed to submit registration: %w", err)
	}
	return nil
}

// ConfirmationMessage returns the confirmation heading. When the heading
// cannot be read the error text is returned instead, so an assertion on
// the message reports what went wrong.
func (p *RegistrationPage) ConfirmationMessage(ctx context.Context) string {
	el, err := p.find(ctx, RegisterConfirmationText)
	if err != nil {
		return err.Error()
	}
	text, err := el.Text(ctx)
	if err != nil {
		return err.Error()
	}
	return text
}
