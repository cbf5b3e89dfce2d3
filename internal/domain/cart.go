package domain

import "strings"

type Cart struct {
	ID         string     `json:"id"`
	Currency   string     `json:"currency"`
	TotalCents int64      `json:"totalCents"`
	Lines      []LineItem `json:"lineItems"`
}

type LineItem struct {
	ID             string            `json:"id"`
	ProductID      string            `json:"productId"`
	VariantID      string            `json:"variantId,omitempty"`
	Options        map[string]string `json:"options,omitempty"`
	Name           string            `json:"name,omitempty"`
	Quantity       int               `json:"quantity"`
	UnitPriceCents int64             `json:"unitPriceCents"`
	TotalCents     int64             `json:"totalCents"`
}

// EmptyCart is the normalized form of "no cart exists yet on the platform".
func EmptyCart() *Cart {
	return &Cart{Lines: []LineItem{}}
}

// SelectedOption is one chosen product attribute, e.g. weight "250g".
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CatalogReference identifies a purchasable selection: product, optional
// variant, and the normalized option map.
type CatalogReference struct {
	ProductID string
	VariantID string
	Options   map[string]string
}

// Matches reports whether a line item holds the exact same selection.
func (r CatalogReference) Matches(l LineItem) bool {
	if l.ProductID != r.ProductID || l.VariantID != r.VariantID {
		return false
	}
	if len(l.Options) != len(r.Options) {
		return false
	}
	for name, value := range r.Options {
		if l.Options[name] != value {
			return false
		}
	}
	return true
}

// NormalizeOptions canonicalizes a chosen option list into a map: names and
// values are trimmed, entries with empty values are dropped, and a later
// entry for the same name wins.
func NormalizeOptions(options []SelectedOption) (map[string]string, error) {
	if len(options) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(options))
	for _, opt := range options {
		name := strings.TrimSpace(opt.Name)
		value := strings.TrimSpace(opt.Value)
		if value == "" {
			continue
		}
		if name == "" {
			return nil, ErrInvalidOption
		}
		out[name] = value
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
