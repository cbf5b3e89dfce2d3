package platform

import (
	"context"
	"net/http"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
)

// AddLineItem is one line of an add request, already normalized by the cart
// store.
type AddLineItem struct {
	Quantity         int              `json:"quantity"`
	CatalogReference CatalogReference `json:"catalogReference"`
}

// CatalogReference is the wire shape of a catalog reference. Each field
// appears exactly once.
type CatalogReference struct {
	AppID         string          `json:"appId"`
	CatalogItemID string          `json:"catalogItemId"`
	Options       *CatalogOptions `json:"options,omitempty"`
}

type CatalogOptions struct {
	VariantID string            `json:"variantId,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
}

type priceValue struct {
	CentAmount   int64  `json:"centAmount"`
	CurrencyCode string `json:"currencyCode"`
}

type wireLineItem struct {
	ID               string           `json:"id"`
	Quantity         int              `json:"quantity"`
	ProductName      string           `json:"productName"`
	CatalogReference CatalogReference `json:"catalogReference"`
	Price            priceValue       `json:"price"`
	TotalPrice       priceValue       `json:"totalPrice"`
}

type wireCart struct {
	ID        string         `json:"id"`
	Currency  string         `json:"currency"`
	LineItems []wireLineItem `json:"lineItems"`
	Subtotal  priceValue     `json:"subtotal"`
}

type cartEnvelope struct {
	Cart wireCart `json:"cart"`
}

func (w wireCart) toDomain() *domain.Cart {
	out := &domain.Cart{
		ID:         w.ID,
		Currency:   w.Currency,
		TotalCents: w.Subtotal.CentAmount,
		Lines:      make([]domain.LineItem, 0, len(w.LineItems)),
	}
	if out.Currency == "" {
		out.Currency = w.Subtotal.CurrencyCode
	}
	for _, l := range w.LineItems {
		line := domain.LineItem{
			ID:             l.ID,
			ProductID:      l.CatalogReference.CatalogItemID,
			Name:           l.ProductName,
			Quantity:       l.Quantity,
			UnitPriceCents: l.Price.CentAmount,
			TotalCents:     l.TotalPrice.CentAmount,
		}
		if opts := l.CatalogReference.Options; opts != nil {
			line.VariantID = opts.VariantID
			if len(opts.Options) > 0 {
				line.Options = opts.Options
			}
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}

// CurrentCart fetches the visitor's cart. Returns domain.ErrNotFound when no
// cart exists yet; callers decide whether that is an error.
func (c *Client) CurrentCart(ctx context.Context, accessToken string) (*domain.Cart, error) {
	var env cartEnvelope
	if err := c.do(ctx, "get cart", http.MethodGet, "/v1/carts/current", accessToken, nil, &env); err != nil {
		return nil, err
	}
	return env.Cart.toDomain(), nil
}

func (c *Client) AddLineItems(ctx context.Context, accessToken string, items []AddLineItem) (*domain.Cart, error) {
	body := struct {
		LineItems []AddLineItem `json:"lineItems"`
	}{LineItems: items}
	var env cartEnvelope
	if err := c.do(ctx, "add line items", http.MethodPost, "/v1/carts/current/add-line-items", accessToken, body, &env); err != nil {
		return nil, err
	}
	return env.Cart.toDomain(), nil
}

type quantityUpdate struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

func (c *Client) UpdateLineItemQuantity(ctx context.Context, accessToken, lineItemID string, quantity int) (*domain.Cart, error) {
	body := struct {
		LineItems []quantityUpdate `json:"lineItems"`
	}{LineItems: []quantityUpdate{{ID: lineItemID, Quantity: quantity}}}

	var env cartEnvelope
	if err := c.do(ctx, "update line item quantity", http.MethodPost, "/v1/carts/current/update-line-items-quantity", accessToken, body, &env); err != nil {
		return nil, err
	}
	return env.Cart.toDomain(), nil
}

func (c *Client) RemoveLineItems(ctx context.Context, accessToken string, lineItemIDs []string) (*domain.Cart, error) {
	body := struct {
		LineItemIDs []string `json:"lineItemIds"`
	}{LineItemIDs: lineItemIDs}
	var env cartEnvelope
	if err := c.do(ctx, "remove line items", http.MethodPost, "/v1/carts/current/remove-line-items", accessToken, body, &env); err != nil {
		return nil, err
	}
	return env.Cart.toDomain(), nil
}
