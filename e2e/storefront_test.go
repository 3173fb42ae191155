package e2e

import (
	"testing"

	"github.com/playwright-community/playwright-go"

	"github.com/opencart-qa/storefront-suite/internal/pages"
)

// visible waits briefly for the locator and reports whether it showed up
func visible(t *testing.T, page playwright.Page, loc string) bool {
	t.Helper()
	err := page.Locator(loc).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(10000),
	})
	return err == nil
}

// TestHomePageLocators checks the home page still matches the page objects
// Feature: Storefront home page
//
//	Scenario: Open the store
//	  Given I am on the store home page
//	  Then I should see the search box
//	  And I should see the "My Account" menu
func TestHomePageLocators(t *testing.T) {
	page := newPage(t)

	if !visible(t, page, string(pages.HomeSearchInput)) {
		t.Error("Search input is not visible")
	}
	if !visible(t, page, string(pages.HomeMyAccountLink)) {
		t.Error("My Account menu is not visible")
	}
}

// TestProductSearch searches for the demo product
// Feature: Product search
//
//	Scenario: Search for an iPhone
//	  Given I am on the store home page
//	  When I search for "iPhone"
//	  Then I should see at least one product tile
//	  And I should be able to add it to the cart
func TestProductSearch(t *testing.T) {
	page := newPage(t)

	// When I search for "iPhone"
	if err := page.Locator(string(pages.HomeSearchInput)).Fill("iPhone"); err != nil {
		t.Fatalf("Failed to type search: %v", err)
	}
	if err := page.Locator(string(pages.HomeSearchButton)).Click(); err != nil {
		t.Fatalf("Failed to submit search: %v", err)
	}

	// Then I should see at least one product tile
	if !visible(t, page, string(pages.SearchFirstProduct)) {
		t.Fatal("No product tile after searching for iPhone")
	}

	// And I should be able to add it to the cart
	if err := page.Locator(string(pages.SearchAddToCartButton)).First().Click(); err != nil {
		t.Fatalf("Failed to click Add to Cart: %v", err)
	}
	if !visible(t, page, string(pages.SearchSuccessAlert)) {
		t.Error("Add to cart success alert is not visible")
	}
}

// TestRegistrationForm opens the registration form without submitting it
// Feature: Account registration
//
//	Scenario: Open the registration form
//	  Given I am on the store home page
//	  When I open "My Account" and choose "Register"
//	  Then I should see the registration form
func TestRegistrationForm(t *testing.T) {
	page := newPage(t)

	if err := page.Locator(string(pages.HomeMyAccountLink)).Click(); err != nil {
		t.Fatalf("Failed to open My Account: %v", err)
	}
	if err := page.Locator(string(pages.HomeRegisterLink)).Click(); err != nil {
		t.Fatalf("Failed to click Register: %v", err)
	}

	for _, loc := range []string{
		string(pages.RegisterFirstNameInput),
		string(pages.RegisterEmailInput),
		string(pages.RegisterPasswordInput),
		string(pages.RegisterPolicyCheckbox),
	} {
		if !visible(t, page, loc) {
			t.Errorf("Registration field %s is not visible", loc)
		}
	}
}
