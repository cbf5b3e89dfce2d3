package domain

// Estimate is the platform's provisional totals computation for the current
// cart. All amounts are in minor units.
type Estimate struct {
	Currency      string `json:"currency"`
	SubtotalCents int64  `json:"subtotalCents"`
	ShippingCents int64  `json:"shippingCents"`
	TaxCents      int64  `json:"taxCents"`
	TotalCents    int64  `json:"totalCents"`
}

// CheckoutSession is the platform's in-progress purchase object. RedirectURL
// is preferred; CheckoutID is the fallback used to build a redirect target
// from a template. Single-use from the storefront's perspective.
type CheckoutSession struct {
	RedirectURL string `json:"redirectUrl,omitempty"`
	CheckoutID  string `json:"checkoutId,omitempty"`
	Currency    string `json:"currency,omitempty"`
}
