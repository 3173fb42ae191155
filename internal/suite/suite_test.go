package suite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/opencart-qa/storefront-suite/internal/browser"
	"github.com/opencart-qa/storefront-suite/internal/browser/browsertest"
	"github.com/opencart-qa/storefront-suite/internal/config"
	"github.com/opencart-qa/storefront-suite/internal/models"
	"github.com/opencart-qa/storefront-suite/internal/pages"
	"github.com/opencart-qa/storefront-suite/internal/runner"
	"github.com/opencart-qa/storefront-suite/internal/spreadsheet"
)

func TestRandomHelpers(t *testing.T) {
	s := RandomString(5)
	if len(s) != 5 {
		t.Fatalf("Expected 5 letters, got %q", s)
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			t.Errorf("Expected only letters, got %q", s)
		}
	}

	n := RandomNumber(10)
	if len(n) != 10 {
		t.Fatalf("Expected 10 digits, got %q", n)
	}
	for _, r := range n {
		if !unicode.IsDigit(r) {
			t.Errorf("Expected only digits, got %q", n)
		}
	}

	p := RandomAlphaNumeric()
	if len(p) != 7 || p[3] != '@' {
		t.Errorf("Expected abc@123 shape, got %q", p)
	}

	if RandomString(0) != "" || RandomNumber(-1) != "" {
		t.Error("Expected empty strings for non-positive lengths")
	}
}

// collector gathers results by full name
type collector struct {
	results map[string]*models.Result
	order   []string
}

func (c *collector) OnStart(runner.SuiteInfo)       { c.results = map[string]*models.Result{} }
func (c *collector) OnTestSuccess(r *models.Result) { c.add(r) }
func (c *collector) OnTestFailure(r *models.Result) { c.add(r) }
func (c *collector) OnTestSkipped(r *models.Result) { c.add(r) }
func (c *collector) OnFinish(runner.Summary)        {}

func (c *collector) add(r *models.Result) {
	c.results[r.FullName()] = r
	c.order = append(c.order, r.FullName())
}

func (c *collector) status(t *testing.T, name string) models.ResultStatus {
	t.Helper()
	r, ok := c.results[name]
	if !ok {
		t.Fatalf("No result for %s, have %v", name, c.order)
	}
	return r.Status
}

type harness struct {
	env     Env
	opener  *storeOpener
	sleeps  []time.Duration
	results *collector
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{opener: &storeOpener{product: "iPhone"}, results: &collector{}}
	h.env = Env{
		Store: &config.StoreConfig{
			URL:         storeURL,
			Email:       validEmail,
			Password:    validPassword,
			ProductName: "iPhone",
			Quantity:    "2",
			Country:     "India",
			State:       "Odisha",
			Postcode:    "751001",
			LoginData:   writeLoginData(t, [][]string{{validEmail, validPassword, "Valid"}}),
		},
		Browser:       browser.Options{Kind: browser.KindPlaywright, Name: browser.Chrome},
		ScreenshotDir: filepath.Join(t.TempDir(), "screenshots"),
		Logger:        zap.NewNop(),
		Open:          h.opener.open,
		Sleep: func(ctx context.Context, d time.Duration) error {
			h.sleeps = append(h.sleeps, d)
			return ctx.Err()
		},
		Now: func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) },
	}
	return h
}

func (h *harness) run(t *testing.T, filter runner.Filter) runner.Summary {
	t.Helper()
	summary, err := runner.New(zap.NewNop(), h.results).Run(context.Background(), New("OpenCart Suite", h.env), runner.SuiteInfo{}, filter)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return summary
}

func writeLoginData(t *testing.T, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "testData", "Opencart_Login_Information.xlsx")
	wb := spreadsheet.NewWorkbook(path)
	for col, header := range []string{"Email", "Password", "Exp"} {
		if err := wb.SetCellData(spreadsheet.LoginSheet, 0, col, header); err != nil {
			t.Fatalf("Failed to write header: %v", err)
		}
	}
	for i, row := range rows {
		for col, v := range row {
			if err := wb.SetCellData(spreadsheet.LoginSheet, i+1, col, v); err != nil {
				t.Fatalf("Failed to write row: %v", err)
			}
		}
	}
	return path
}

func TestSuite_CasesGroupsAndPriorities(t *testing.T) {
	s := New("OpenCart Suite", Env{Store: &config.StoreConfig{}})

	want := map[string]struct {
		groups   []string
		priority int
	}{
		"AddToCartPageTest/ClickProductToCart":           {[]string{"Smoke", "Master"}, 1},
		"AddToCartPageTest/UpdateCartDetails":            {[]string{"Smoke", "Master"}, 2},
		"LoginPageTest/VerifyAccountLogin":               {[]string{"Sanity", "Master"}, 0},
		"LoginTestDDT/VerifyLoginDDT":                    {[]string{"Monkey", "Master"}, 0},
		"RegistrationPageTest/VerifyAccountRegistration": {[]string{"Regression", "Master"}, 0},
		"SearchPageTest/VerifyProductDisplay":            {[]string{"Gorilla", "Master"}, 0},
	}

	seen := 0
	for _, class := range s.Classes {
		for _, c := range class.Cases {
			key := class.Name + "/" + c.Name
			w, ok := want[key]
			if !ok {
				t.Errorf("Unexpected case %s", key)
				continue
			}
			seen++
			if strings.Join(c.Groups, ",") != strings.Join(w.groups, ",") {
				t.Errorf("%s: expected groups %v, got %v", key, w.groups, c.Groups)
			}
			if c.Priority != w.priority {
				t.Errorf("%s: expected priority %d, got %d", key, w.priority, c.Priority)
			}
			if (c.DataProvider != nil) != (c.Name == "VerifyLoginDDT") {
				t.Errorf("%s: unexpected data provider", key)
			}
		}
	}
	if seen != len(want) {
		t.Errorf("Expected %d cases, saw %d", len(want), seen)
	}
}

func TestSuite_MasterRunPasses(t *testing.T) {
	// GIVEN a store where everything works
	h := newHarness(t)

	// WHEN the Master group runs
	summary := h.run(t, runner.Filter{Include: []string{"Master"}})

	// THEN every case passes and every class closed its browser
	if summary.Failed != 0 || summary.Skipped != 0 {
		for name, r := range h.results.results {
			if r.Status != models.ResultStatusPassed {
				t.Errorf("%s: %s %s", name, r.Status, r.Message)
			}
		}
		t.Fatalf("Expected all to pass, got %+v", summary)
	}
	if summary.Passed != 6 {
		t.Errorf("Expected 6 passes, got %d", summary.Passed)
	}
	if len(h.opener.stores) != 5 {
		t.Fatalf("Expected one browser per class, got %d", len(h.opener.stores))
	}
	for _, s := range h.opener.stores {
		if !s.driver.Closed {
			t.Error("Expected every browser to be closed")
		}
		if !s.driver.Called("navigate " + storeURL) {
			t.Error("Expected every browser to open the store")
		}
	}
}

func TestSuite_CartFlow(t *testing.T) {
	h := newHarness(t)

	summary := h.run(t, runner.Filter{Include: []string{"Smoke"}})

	if summary.Passed != 2 {
		t.Fatalf("Expected both cart cases to pass, got %+v (%v)", summary, h.results.order)
	}
	if h.results.order[0] != "AddToCartPageTest - ClickProductToCart" {
		t.Errorf("Expected priority 1 first, got %v", h.results.order)
	}

	d := h.opener.stores[0].driver
	if !d.Called("type " + string(pages.CartQuantityInput) + " 2") {
		t.Error("Expected quantity to be typed")
	}
	if d.Element(pages.CartQuantityInput).Value != "2" {
		t.Errorf("Expected quantity replaced, got %q", d.Element(pages.CartQuantityInput).Value)
	}
	if d.Element(pages.CartCountrySelect).Selected != "India" || d.Element(pages.CartStateSelect).Selected != "Odisha" {
		t.Error("Expected country and state to be selected")
	}
	if !d.Called("click " + string(pages.CartCheckoutButton)) {
		t.Error("Expected checkout without availability warning")
	}
	if d.Called("click " + string(pages.CartContinueShopping)) {
		t.Error("Expected no continue shopping")
	}
	if len(h.sleeps) != 2 || h.sleeps[0] != cartSettle {
		t.Errorf("Expected two 2s settles, got %v", h.sleeps)
	}
}

func TestSuite_CartFlowOutOfStock(t *testing.T) {
	h := newHarness(t)
	h.opener.tweak = func(s *fakeStore) { s.outOfStock = true }

	h.run(t, runner.Filter{Include: []string{"Smoke"}})

	if got := h.results.status(t, "AddToCartPageTest - UpdateCartDetails"); got != models.ResultStatusPassed {
		t.Fatalf("Expected pass, got %s", got)
	}
	d := h.opener.stores[0].driver
	if !d.Called("click " + string(pages.CartContinueShopping)) {
		t.Error("Expected continue shopping when the warning shows")
	}
	if d.Called("click " + string(pages.CartCheckoutButton)) {
		t.Error("Expected no checkout when the warning shows")
	}
}

func TestSuite_ProductMissingFailsWithScreenshot(t *testing.T) {
	// GIVEN a store that does not sell the product
	h := newHarness(t)
	h.env.Store.ProductName = "Nokia"

	// WHEN search and cart run
	h.run(t, runner.Filter{Include: []string{"Gorilla", "Smoke"}})

	// THEN both searches fail and the failures carry screenshots
	res := h.results.results["SearchPageTest - VerifyProductDisplay"]
	if res == nil || res.Status != models.ResultStatusFailed {
		t.Fatalf("Expected search to fail, got %+v", res)
	}
	if res.Message != "Product not found: Nokia" {
		t.Errorf("Unexpected message %q", res.Message)
	}
	if res.Screenshot == "" {
		t.Fatal("Expected a screenshot")
	}
	if filepath.Base(res.Screenshot) != "VerifyProductDisplay_20240501100000.png" {
		t.Errorf("Unexpected screenshot name %s", res.Screenshot)
	}
	if _, err := os.Stat(res.Screenshot); err != nil {
		t.Errorf("Expected screenshot file: %v", err)
	}

	cart := h.results.results["AddToCartPageTest - ClickProductToCart"]
	if cart == nil || cart.Message != "Product not displayed: Nokia" {
		t.Errorf("Unexpected cart result %+v", cart)
	}
	// the follow-up cart update fails too: there is no cart page
	if got := h.results.status(t, "AddToCartPageTest - UpdateCartDetails"); got != models.ResultStatusFailed {
		t.Errorf("Expected cart update to fail, got %s", got)
	}
}

func TestSuite_AddToCartWithoutSuccessMessage(t *testing.T) {
	h := newHarness(t)
	h.opener.tweak = func(s *fakeStore) { s.hideAlert = true }

	h.run(t, runner.Filter{Include: []string{"Smoke"}})

	res := h.results.results["AddToCartPageTest - ClickProductToCart"]
	if res == nil || res.Message != "Failed to add the product to the cart" {
		t.Errorf("Unexpected result %+v", res)
	}
}

func TestSuite_SearchSettleDelay(t *testing.T) {
	h := newHarness(t)
	h.run(t, runner.Filter{Include: []string{"Gorilla"}})
	if len(h.sleeps) != 1 || h.sleeps[0] != searchSettle {
		t.Errorf("Expected one 5s settle, got %v", h.sleeps)
	}

	h = newHarness(t)
	h.env.Store.SettleDelay = 100 * time.Millisecond
	h.run(t, runner.Filter{Include: []string{"Gorilla"}})
	if len(h.sleeps) != 1 || h.sleeps[0] != 100*time.Millisecond {
		t.Errorf("Expected configured settle, got %v", h.sleeps)
	}
}

func TestSuite_InterruptedSettleFails(t *testing.T) {
	h := newHarness(t)
	h.env.Sleep = func(context.Context, time.Duration) error { return context.Canceled }

	h.run(t, runner.Filter{Include: []string{"Gorilla"}})

	res := h.results.results["SearchPageTest - VerifyProductDisplay"]
	if res == nil || !strings.Contains(res.Message, "Test interrupted") {
		t.Errorf("Unexpected result %+v", res)
	}
}

func TestSuite_LoginWithWrongPasswordFails(t *testing.T) {
	h := newHarness(t)
	h.env.Store.Password = "wrong"

	h.run(t, runner.Filter{Include: []string{"Sanity"}})

	res := h.results.results["LoginPageTest - VerifyAccountLogin"]
	if res == nil || res.Status != models.ResultStatusFailed || res.Message != "Login Failed" {
		t.Errorf("Unexpected result %+v", res)
	}
	if !h.opener.stores[0].driver.Called("type " + string(pages.LoginPasswordInput) + " wrong") {
		t.Error("Expected the configured password to be typed")
	}
}

func TestSuite_Registration(t *testing.T) {
	h := newHarness(t)

	h.run(t, runner.Filter{Include: []string{"Regression"}})

	if got := h.results.status(t, "RegistrationPageTest - VerifyAccountRegistration"); got != models.ResultStatusPassed {
		t.Fatalf("Expected registration to pass, got %s: %s", got, h.results.results["RegistrationPageTest - VerifyAccountRegistration"].Message)
	}
	s := h.opener.stores[0]
	if !s.registered {
		t.Error("Expected the store to register an account")
	}
	email := s.driver.Element(pages.RegisterEmailInput).Value
	if !strings.HasSuffix(email, "@gmail.com") || len(email) != len("abcde@gmail.com") {
		t.Errorf("Unexpected email %q", email)
	}
	first := s.driver.Element(pages.RegisterFirstNameInput).Value
	if first != strings.ToUpper(first) || len(first) != 5 {
		t.Errorf("Unexpected first name %q", first)
	}
	if len(s.driver.Element(pages.RegisterTelephoneInput).Value) != 10 {
		t.Errorf("Unexpected telephone %q", s.driver.Element(pages.RegisterTelephoneInput).Value)
	}
}

func TestSuite_RegistrationMissingConfirmation(t *testing.T) {
	h := newHarness(t)
	h.opener.tweak = func(s *fakeStore) {
		// the policy checkbox is gone, so the form is never accepted
		s.driver.Element(pages.HomeRegisterLink).OnClick = func(d *browsertest.Driver) {
			s.registerPage()
			d.Element(pages.RegisterPolicyCheckbox).OnClick = nil
		}
	}

	h.run(t, runner.Filter{Include: []string{"Regression"}})

	res := h.results.results["RegistrationPageTest - VerifyAccountRegistration"]
	if res == nil || res.Status != models.ResultStatusFailed {
		t.Fatalf("Expected failure, got %+v", res)
	}
	if !strings.Contains(res.Message, "Confirmation message does not match expected value.") {
		t.Errorf("Unexpected message %q", res.Message)
	}
}

func TestSuite_LoginDDT(t *testing.T) {
	// GIVEN one row per expectation outcome
	h := newHarness(t)
	h.env.Store.RecordLoginResults = true
	h.env.Store.LoginData = writeLoginData(t, [][]string{
		{validEmail, validPassword, "Valid"},
		{"nobody@example.com", "nope", "Invalid"},
		{"nobody@example.com", "nope", "Valid"},
		{validEmail, validPassword, "invalid"},
	})

	// WHEN the Monkey group runs
	summary := h.run(t, runner.Filter{Include: []string{"Monkey"}})

	// THEN each row is judged by its expectation
	want := map[string]models.ResultStatus{
		"LoginTestDDT - VerifyLoginDDT[0]": models.ResultStatusPassed,
		"LoginTestDDT - VerifyLoginDDT[1]": models.ResultStatusPassed,
		"LoginTestDDT - VerifyLoginDDT[2]": models.ResultStatusFailed,
		"LoginTestDDT - VerifyLoginDDT[3]": models.ResultStatusFailed,
	}
	for name, status := range want {
		if got := h.results.status(t, name); got != status {
			t.Errorf("%s: expected %s, got %s", name, status, got)
		}
	}
	if summary.Passed != 2 || summary.Failed != 2 {
		t.Errorf("Unexpected summary %+v", summary)
	}
	if msg := h.results.results["LoginTestDDT - VerifyLoginDDT[3]"].Message; msg != "Login successful for invalid credentials." {
		t.Errorf("Unexpected message %q", msg)
	}

	// AND successful logins were logged out
	d := h.opener.stores[0].driver
	if got := len(d.CallsWithPrefix("click " + string(pages.MyAccountLogoutLink))); got != 2 {
		t.Errorf("Expected 2 logouts, got %d", got)
	}

	// AND the outcome was written next to each row
	wb := spreadsheet.NewWorkbook(h.env.Store.LoginData)
	for row, wantValue := range map[int]string{1: "PASS", 2: "PASS", 3: "FAIL", 4: "FAIL"} {
		got, err := wb.CellData(spreadsheet.LoginSheet, row, spreadsheet.ColResult)
		if err != nil {
			t.Fatalf("CellData: %v", err)
		}
		if got != wantValue {
			t.Errorf("Row %d: expected %s, got %s", row, wantValue, got)
		}
	}
}

func TestSuite_LoginDDTBlankRowsKeepResultsAligned(t *testing.T) {
	// GIVEN login data with a blank separator row
	h := newHarness(t)
	h.env.Store.RecordLoginResults = true
	h.env.Store.LoginData = writeLoginData(t, [][]string{
		{validEmail, validPassword, "Valid"},
		{"", "", ""},
		{"nobody@example.com", "nope", "Valid"},
	})

	// WHEN the Monkey group runs
	summary := h.run(t, runner.Filter{Include: []string{"Monkey"}})

	// THEN only the data rows run and each result lands on its own row
	if summary.Passed != 1 || summary.Failed != 1 || len(summary.Results) != 2 {
		t.Fatalf("Unexpected summary %+v", summary)
	}
	wb := spreadsheet.NewWorkbook(h.env.Store.LoginData)
	for row, wantValue := range map[int]string{1: "PASS", 2: "", 3: "FAIL"} {
		got, err := wb.CellData(spreadsheet.LoginSheet, row, spreadsheet.ColResult)
		if err != nil {
			t.Fatalf("CellData: %v", err)
		}
		if got != wantValue {
			t.Errorf("Row %d: expected %q, got %q", row, wantValue, got)
		}
	}
}

func TestSuite_LoginDDTMissingWorkbook(t *testing.T) {
	h := newHarness(t)
	h.env.Store.LoginData = filepath.Join(t.TempDir(), "missing.xlsx")

	summary := h.run(t, runner.Filter{Include: []string{"Monkey"}})

	if summary.Failed != 1 {
		t.Fatalf("Expected the data provider failure, got %+v", summary)
	}
	if res := h.results.results["LoginTestDDT - VerifyLoginDDT"]; res == nil || !strings.Contains(res.Message, "data provider failed") {
		t.Errorf("Unexpected result %+v", res)
	}
}

func TestSuite_BrowserLaunchFailureSkipsClass(t *testing.T) {
	h := newHarness(t)
	h.opener.err = errors.New("chrome not installed")

	summary := h.run(t, runner.Filter{Include: []string{"Sanity"}})

	if summary.Skipped != 1 {
		t.Fatalf("Expected the login case to be skipped, got %+v", summary)
	}
	res := h.results.results["LoginPageTest - VerifyAccountLogin"]
	if !strings.Contains(res.Message, "chrome not installed") {
		t.Errorf("Unexpected skip reason %q", res.Message)
	}
}
