package pages

import (
	"context"

	"github.com/opencart-qa/storefront-suite/internal/browser"
)

// Search results locators
const (
	SearchFirstProduct     browser.Locator = "(//div[@class='product-layout product-grid col-lg-3 col-md-3 col-sm-6 col-xs-12'])[1]"
	SearchAddToCartButton  browser.Locator = "//span[normalize-space()='Add to Cart']"
	SearchShoppingCartLink browser.Locator = "//span[normalize-space()='Shopping Cart']"
	SearchSuccessAlert     browser.Locator = "//div[@class='alert alert-success alert-dismissible']"
)

// SearchPage lists the products matching a search
type SearchPage struct {
	Base
}

// NewSearchPage creates a new search results page
func NewSearchPage(d browser.Driver) *SearchPage {
	return &SearchPage{Base{driver: d}}
}

// IsProductExists reports whether at least one product tile is shown
func (p *SearchPage) IsProductExists(ctx context.Context) bool {
	return p.displayed(ctx, SearchFirstProduct)
}

func (p *SearchPage) ClickAddToCart(ctx context.Context) error {
	return p.click(ctx, SearchAddToCartButton)
}

// VerifySuccessMessage reports whether the "added to cart" alert is shown
func (p *SearchPage) VerifySuccessMessage(ctx context.Context) bool {
	return p.displayed(ctx, SearchSuccessAlert)
}

func (p *SearchPage) ClickShoppingCart(ctx context.Context) error {
	return p.click(ctx, SearchShoppingCartLink)
}
