package suite

import (
	"strings"

	"go.uber.org/zap"

	"github.com/opencart-qa/storefront-suite/internal/logging"
	"github.com/opencart-qa/storefront-suite/internal/pages"
	"github.com/opencart-qa/storefront-suite/internal/runner"
	"github.com/opencart-qa/storefront-suite/internal/spreadsheet"
)

func addToCartClass(env *Env) *runner.Class {
	s := newSession(env, "AddToCartPageTest")
	return s.class("AddToCartPageTest",
		runner.Case{
			Name:     "ClickProductToCart",
			Groups:   []string{GroupSmoke, GroupMaster},
			Priority: 1,
			Func:     s.clickProductToCart,
		},
		runner.Case{
			Name:     "UpdateCartDetails",
			Groups:   []string{GroupSmoke, GroupMaster},
			Priority: 2,
			Func:     s.updateCartDetails,
		},
	)
}

func (s *session) clickProductToCart(t *runner.T) {
	defer banner(t, "Add to Cart Test")()
	ctx := t.Context()
	product := s.env.Store.ProductName

	hp := pages.NewHomePage(s.driver)
	if err := hp.SendSearch(ctx, product); err != nil {
		t.Fatalf("Add to cart test failed: %v", err)
	}
	if err := hp.ClickEnter(ctx); err != nil {
		t.Fatalf("Add to cart test failed: %v", err)
	}
	t.Log("Search submitted", zap.String("product", product))

	s.settle(t, cartSettle)

	sp := pages.NewSearchPage(s.driver)
	if !sp.IsProductExists(ctx) {
		t.Fatalf("Product not displayed: %s", product)
	}
	if err := sp.ClickAddToCart(ctx); err != nil {
		t.Fatalf("Add to cart test failed: %v", err)
	}
	if !sp.VerifySuccessMessage(ctx) {
		t.Fatalf("Failed to add the product to the cart")
	}

	s.settle(t, cartSettle)
	if err := sp.ClickShoppingCart(ctx); err != nil {
		t.Fatalf("Add to cart test failed: %v", err)
	}
	t.Log("Navigated to the shopping cart page")
}

func (s *session) updateCartDetails(t *runner.T) {
	defer banner(t, "Cart Update Test")()
	ctx := t.Context()
	store := s.env.Store
	cp := pages.NewCartPage(s.driver)

	steps := []struct {
		name string
		do   func() error
	}{
		{"quantity", func() error { return cp.SetProductQuantity(ctx, store.Quantity) }},
		{"shipping estimate", func() error { return cp.ClickShippingTax(ctx) }},
		{"country", func() error { return cp.SelectCountry(ctx, store.Country) }},
		{"state", func() error { return cp.SelectState(ctx, store.State) }},
		{"postcode", func() error { return cp.SetPostcode(ctx, store.Postcode) }},
		{"quote", func() error { return cp.ClickQuote(ctx) }},
		{"shipping method", func() error { return cp.ClickShippingMethod(ctx) }},
		{"apply shipping", func() error { return cp.ClickApplyShipping(ctx) }},
	}
	for _, step := range steps {
		if err := step.do(); err != nil {
			t.Fatalf("Failed to update cart details at %s: %v", step.name, err)
		}
	}
	t.Log("Shipping details set",
		zap.String("quantity", store.Quantity),
		zap.String("country", store.Country),
		zap.String("state", store.State),
		zap.String("postcode", store.Postcode))

	if !cp.VerifyApplySuccessMessage(ctx) {
		t.Logger().Warn("Shipping success message not displayed")
	}

	if cp.VerifyAvailabilityWarning(ctx) {
		if err := cp.ClickContinueShopping(ctx); err != nil {
			t.Fatalf("Failed to update cart details: %v", err)
		}
		t.Log("Continued shopping after updating cart details")
		return
	}
	if err := cp.ClickCheckout(ctx); err != nil {
		t.Fatalf("Failed to update cart details: %v", err)
	}
	t.Log("Navigated to checkout after updating cart details")
}

func loginClass(env *Env) *runner.Class {
	s := newSession(env, "LoginPageTest")
	return s.class("LoginPageTest", runner.Case{
		Name:   "VerifyAccountLogin",
		Groups: []string{GroupSanity, GroupMaster},
		Func:   s.verifyAccountLogin,
	})
}

// login walks home, login form and submit, then reports whether the
// account page appeared.
func (s *session) login(t *runner.T, email, password string) (*pages.MyAccountPage, bool, error) {
	ctx := t.Context()
	hp := pages.NewHomePage(s.driver)
	if err := hp.ClickMyAccount(ctx); err != nil {
		return nil, false, err
	}
	if err := hp.ClickLogin(ctx); err != nil {
		return nil, false, err
	}

	lp := pages.NewLoginPage(s.driver)
	if err := lp.SetEmail(ctx, email); err != nil {
		return nil, false, err
	}
	if err := lp.SetPassword(ctx, password); err != nil {
		return nil, false, err
	}
	t.Log("Credentials provided", zap.String("email", email), logging.Masked("password", password))
	if err := lp.ClickLogin(ctx); err != nil {
		return nil, false, err
	}

	mp := pages.NewMyAccountPage(s.driver)
	return mp, mp.IsMyAccountPageExists(ctx), nil
}

func (s *session) verifyAccountLogin(t *runner.T) {
	defer banner(t, "Login Test")()

	_, exists, err := s.login(t, s.env.Store.Email, s.env.Store.Password)
	if err != nil {
		t.Fatalf("Login test failed: %v", err)
	}
	if t.AssertTrue(exists, "Login Failed") {
		t.Log("Login successful, My Account page is displayed")
	}
}

func loginDDTClass(env *Env) *runner.Class {
	s := newSession(env, "LoginTestDDT")
	return s.class("LoginTestDDT", runner.Case{
		Name:   "VerifyLoginDDT",
		Groups: []string{GroupMonkey, GroupMaster},
		DataProvider: func() ([][]string, error) {
			return spreadsheet.LoginData(env.Store.LoginData)
		},
		Func: s.verifyLoginDDT,
	})
}

func (s *session) verifyLoginDDT(t *runner.T) {
	email := t.Param(spreadsheet.ColEmail)
	password := t.Param(spreadsheet.ColPassword)
	expected := t.Param(spreadsheet.ColExpected)

	defer banner(t, "LoginDDT test with email: "+email)()
	if s.env.Store.RecordLoginResults {
		defer s.recordLoginResult(t)
	}

	mp, exists, err := s.login(t, email, password)
	if err != nil {
		t.Fatalf("An exception occurred: %v", err)
	}

	valid := strings.EqualFold(expected, spreadsheet.ExpectValid)
	if exists {
		t.Log("Login succeeded, logging out")
		if err := mp.ClickLogout(t.Context()); err != nil {
			t.Errorf("Logout failed: %v", err)
		}
	}

	switch {
	case valid && !exists:
		t.Errorf("Login failed for valid credentials.")
	case !valid && exists:
		t.Errorf("Login successful for invalid credentials.")
	case !valid:
		t.Log("Login failed as expected for invalid credentials")
	}
}

// recordLoginResult writes the outcome next to the data row it came from
func (s *session) recordLoginResult(t *runner.T) {
	row, ok := spreadsheet.SheetRow(t.Params())
	if !ok {
		// data rows start below the header
		row = t.Index() + 1
	}
	if err := spreadsheet.WriteResult(s.env.Store.LoginData, row, spreadsheet.ColResult, !t.Failed()); err != nil {
		t.Logger().Warn("Failed to record login result", zap.Int("row", row), zap.Error(err))
	}
}

func registrationClass(env *Env) *runner.Class {
	s := newSession(env, "RegistrationPageTest")
	return s.class("RegistrationPageTest", runner.Case{
		Name:   "VerifyAccountRegistration",
		Groups: []string{GroupRegression, GroupMaster},
		Func:   s.verifyAccountRegistration,
	})
}

func (s *session) verifyAccountRegistration(t *runner.T) {
	defer banner(t, "Registration Test")()
	ctx := t.Context()

	hp := pages.NewHomePage(s.driver)
	if err := hp.ClickMyAccount(ctx); err != nil {
		t.Fatalf("Registration test failed: %v", err)
	}
	if err := hp.ClickRegister(ctx); err != nil {
		t.Fatalf("Registration test failed: %v", err)
	}

	firstName := strings.ToUpper(RandomString(5))
	lastName := strings.ToUpper(RandomString(5))
	email := RandomString(5) + "@gmail.com"
	telephone := RandomNumber(10)
	password := RandomAlphaNumeric()
	t.Log("Providing customer details",
		zap.String("firstName", firstName),
		zap.String("lastName", lastName),
		zap.String("email", email),
		zap.String("telephone", telephone),
		logging.Masked("password", password))

	rp := pages.NewRegistrationPage(s.driver)
	steps := []func() error{
		func() error { return rp.SetFirstName(ctx, firstName) },
		func() error { return rp.SetLastName(ctx, lastName) },
		func() error { return rp.SetEmail(ctx, email) },
		func() error { return rp.SetTelephone(ctx, telephone) },
		func() error { return rp.SetPassword(ctx, password) },
		func() error { return rp.SetConfirmPassword(ctx, password) },
		func() error { return rp.SetNewsletterYes(ctx) },
		func() error { return rp.SetPrivacyPolicy(ctx) },
		func() error { return rp.Continue(ctx) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("Registration test failed: %v", err)
		}
	}

	msg := rp.ConfirmationMessage(ctx)
	if t.AssertEqual(msg, pages.AccountCreatedMessage, "Confirmation message does not match expected value.") {
		t.Log("Test Passed", zap.String("message", msg))
	}
}

func searchClass(env *Env) *runner.Class {
	s := newSession(env, "SearchPageTest")
	return s.class("SearchPageTest", runner.Case{
		Name:   "VerifyProductDisplay",
		Groups: []string{GroupGorilla, GroupMaster},
		Func:   s.verifyProductDisplay,
	})
}

func (s *session) verifyProductDisplay(t *runner.T) {
	defer banner(t, "Product Search Test")()
	ctx := t.Context()
	product := s.env.Store.ProductName

	hp := pages.NewHomePage(s.driver)
	if err := hp.SendSearch(ctx, product); err != nil {
		t.Fatalf("Product search test failed: %v", err)
	}
	if err := hp.ClickEnter(ctx); err != nil {
		t.Fatalf("Product search test failed: %v", err)
	}

	s.settle(t, searchSettle)

	exists := pages.NewSearchPage(s.driver).IsProductExists(ctx)
	t.Log("Product existence check", zap.String("product", product), zap.Bool("found", exists))
	if t.AssertTrue(exists, "Product not found: "+product) {
		t.Log("Product is displayed in the search results")
	}
}
