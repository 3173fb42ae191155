package suite

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/opencart-qa/storefront-suite/internal/browser"
	"github.com/opencart-qa/storefront-suite/internal/browser/browsertest"
	"github.com/opencart-qa/storefront-suite/internal/pages"
)

const (
	storeURL      = "https://opencart.test/"
	validEmail    = "shopper@example.com"
	validPassword = "s3cret"
)

// fakeStore scripts the OpenCart pages the cases walk through on top of a
// browsertest.Driver. Clicking a link "loads" the next page by registering
// fresh elements.
type fakeStore struct {
	driver     *browsertest.Driver
	product    string
	outOfStock bool
	hideAlert  bool
	registered bool
}

func newFakeStore(product string) *fakeStore {
	s := &fakeStore{driver: browsertest.NewDriver(), product: product}
	s.home()
	return s
}

func (s *fakeStore) home() {
	d := s.driver
	d.Add(pages.HomeMyAccountLink, &browsertest.Element{})
	d.Add(pages.HomeLoginLink, &browsertest.Element{OnClick: func(*browsertest.Driver) { s.loginPage() }})
	d.Add(pages.HomeRegisterLink, &browsertest.Element{OnClick: func(*browsertest.Driver) { s.registerPage() }})
	search := d.Add(pages.HomeSearchInput, &browsertest.Element{})
	d.Add(pages.HomeSearchButton, &browsertest.Element{OnClick: func(*browsertest.Driver) { s.results(search.Value) }})
}

func (s *fakeStore) loginPage() {
	d := s.driver
	email := d.Add(pages.LoginEmailInput, &browsertest.Element{})
	password := d.Add(pages.LoginPasswordInput, &browsertest.Element{})
	d.Add(pages.LoginButton, &browsertest.Element{OnClick: func(d *browsertest.Driver) {
		if email.Value == validEmail && password.Value == validPassword {
			d.Add(pages.MyAccountHeading, &browsertest.Element{Content: "My Account"})
			d.Add(pages.MyAccountLogoutLink, &browsertest.Element{OnClick: func(d *browsertest.Driver) {
				d.Remove(pages.MyAccountHeading)
				d.Remove(pages.MyAccountLogoutLink)
			}})
			return
		}
		d.Remove(pages.MyAccountHeading)
	}})
}

func (s *fakeStore) registerPage() {
	d := s.driver
	inputs := map[browser.Locator]*browsertest.Element{}
	for _, loc := range []browser.Locator{
		pages.RegisterFirstNameInput,
		pages.RegisterLastNameInput,
		pages.RegisterEmailInput,
		pages.RegisterTelephoneInput,
		pages.RegisterPasswordInput,
		pages.RegisterConfirmInput,
	} {
		inputs[loc] = d.Add(loc, &browsertest.Element{})
	}
	agreed := false
	d.Add(pages.RegisterNewsletterYes, &browsertest.Element{})
	d.Add(pages.RegisterPolicyCheckbox, &browsertest.Element{OnClick: func(*browsertest.Driver) { agreed = true }})
	d.Add(pages.RegisterContinueButton, &browsertest.Element{OnSubmit: func(d *browsertest.Driver) {
		for _, el := range inputs {
			if el.Value == "" {
				return
			}
		}
		if !agreed || inputs[pages.RegisterPasswordInput].Value != inputs[pages.RegisterConfirmInput].Value {
			return
		}
		s.registered = true
		d.Add(pages.RegisterConfirmationText, &browsertest.Element{Content: pages.AccountCreatedMessage})
	}})
}

func (s *fakeStore) results(term string) {
	d := s.driver
	if term != s.product {
		d.Remove(pages.SearchFirstProduct)
		return
	}
	d.Add(pages.SearchFirstProduct, &browsertest.Element{Content: s.product})
	d.Add(pages.SearchAddToCartButton, &browsertest.Element{OnClick: func(d *browsertest.Driver) {
		d.Add(pages.SearchSuccessAlert, &browsertest.Element{Hidden: s.hideAlert})
	}})
	d.Add(pages.SearchShoppingCartLink, &browsertest.Element{OnClick: func(*browsertest.Driver) { s.cart() }})
}

func (s *fakeStore) cart() {
	d := s.driver
	d.Add(pages.CartQuantityInput, &browsertest.Element{Value: "1"})
	d.Add(pages.CartShippingTaxLink, &browsertest.Element{})
	d.Add(pages.CartCountrySelect, &browsertest.Element{Options: []string{"India", "United Kingdom"}})
	d.Add(pages.CartStateSelect, &browsertest.Element{Options: []string{"Goa", "Odisha"}})
	d.Add(pages.CartPostcodeInput, &browsertest.Element{})
	d.Add(pages.CartQuoteButton, &browsertest.Element{})
	d.Add(pages.CartShippingMethodRadio, &browsertest.Element{})
	d.Add(pages.CartApplyShippingButton, &browsertest.Element{OnClick: func(d *browsertest.Driver) {
		d.Add(pages.CartSuccessAlert, &browsertest.Element{})
		if s.outOfStock {
			d.Add(pages.CartAvailabilityAlert, &browsertest.Element{})
		}
	}})
	d.Add(pages.CartContinueShopping, &browsertest.Element{})
	d.Add(pages.CartCheckoutButton, &browsertest.Element{})
}

// storeOpener hands every class a fresh store and remembers them by the
// order they were opened.
type storeOpener struct {
	mu      sync.Mutex
	product string
	tweak   func(*fakeStore)
	stores  []*fakeStore
	err     error
}

func (o *storeOpener) open(ctx context.Context, opts browser.Options, startURL string, logger *zap.Logger) (browser.Driver, error) {
	if o.err != nil {
		return nil, o.err
	}
	s := newFakeStore(o.product)
	if o.tweak != nil {
		o.tweak(s)
	}
	if err := browser.Prepare(ctx, s.driver, startURL, logger); err != nil {
		return nil, err
	}
	o.mu.Lock()
	o.stores = append(o.stores, s)
	o.mu.Unlock()
	return s.driver, nil
}
