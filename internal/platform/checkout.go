package platform

import (
	"context"
	"net/http"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
)

// EstimateOptions selects which totals the platform computes.
type EstimateOptions struct {
	CalculateTax      bool `json:"calculateTax"`
	CalculateShipping bool `json:"calculateShipping"`
}

type estimateEnvelope struct {
	Estimate struct {
		Currency string     `json:"currency"`
		Subtotal priceValue `json:"subtotal"`
		Shipping priceValue `json:"shippingPrice"`
		Tax      priceValue `json:"taxPrice"`
		Total    priceValue `json:"total"`
	} `json:"estimate"`
}

// EstimateTotals asks the platform for provisional totals of the current cart.
func (c *Client) EstimateTotals(ctx context.Context, accessToken string, opts EstimateOptions) (*domain.Estimate, error) {
	var env estimateEnvelope
	if err := c.do(ctx, "estimate totals", http.MethodPost, "/v1/carts/current/estimate-totals", accessToken, opts, &env); err != nil {
		return nil, err
	}
	e := env.Estimate
	currency := e.Currency
	if currency == "" {
		currency = e.Total.CurrencyCode
	}
	return &domain.Estimate{
		Currency:      currency,
		SubtotalCents: e.Subtotal.CentAmount,
		ShippingCents: e.Shipping.CentAmount,
		TaxCents:      e.Tax.CentAmount,
		TotalCents:    e.Total.CentAmount,
	}, nil
}

type checkoutEnvelope struct {
	CheckoutURL string `json:"checkoutUrl"`
	Checkout    struct {
		ID       string `json:"id"`
		Currency string `json:"currency"`
	} `json:"checkout"`
}

// CreateCheckout converts the current cart into a checkout session tagged
// with the originating channel.
func (c *Client) CreateCheckout(ctx context.Context, accessToken, channel string) (*domain.CheckoutSession, error) {
	body := struct {
		ChannelType string `json:"channelType"`
	}{ChannelType: channel}
	var env checkoutEnvelope
	if err := c.do(ctx, "create checkout", http.MethodPost, "/v1/checkouts", accessToken, body, &env); err != nil {
		return nil, err
	}
	return &domain.CheckoutSession{
		RedirectURL: env.CheckoutURL,
		CheckoutID:  env.Checkout.ID,
		Currency:    env.Checkout.Currency,
	}, nil
}
