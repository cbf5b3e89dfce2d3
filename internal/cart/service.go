package cart

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/platform"
)

type platformAPI interface {
	CurrentCart(ctx context.Context, accessToken string) (*domain.Cart, error)
	AddLineItems(ctx context.Context, accessToken string, items []platform.AddLineItem) (*domain.Cart, error)
	UpdateLineItemQuantity(ctx context.Context, accessToken, lineItemID string, quantity int) (*domain.Cart, error)
	RemoveLineItems(ctx context.Context, accessToken string, lineItemIDs []string) (*domain.Cart, error)
}

type credentials interface {
	WithCredential(ctx context.Context, visitorID string, fn func(accessToken string) error) error
}

// Service is the single source of truth for each visitor's cart as seen by
// the storefront. Every successful mutation replaces the mirror with the
// platform's post-mutation cart; totals are never computed locally.
type Service struct {
	api   platformAPI
	creds credentials

	mu      sync.RWMutex
	mirrors map[string]*domain.Cart
}

func New(api platformAPI, creds credentials) *Service {
	return &Service{
		api:     api,
		creds:   creds,
		mirrors: make(map[string]*domain.Cart),
	}
}

// Current returns the last known cart for the visitor, or nil when no load
// has happened yet. The value may be stale until the next Load.
func (s *Service) Current(visitorID string) *domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mirrors[visitorID]
}

func (s *Service) replace(visitorID string, cart *domain.Cart) {
	s.mu.Lock()
	s.mirrors[visitorID] = cart
	s.mu.Unlock()
}

// Load fetches the platform-side cart. "No cart yet" is a valid empty-cart
// state, not an error. Safe to call repeatedly; the last response wins.
func (s *Service) Load(ctx context.Context, visitorID string) (*domain.Cart, error) {
	var cart *domain.Cart
	err := s.creds.WithCredential(ctx, visitorID, func(accessToken string) error {
		c, err := s.api.CurrentCart(ctx, accessToken)
		if err != nil {
			return err
		}
		cart = c
		return nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		cart = domain.EmptyCart()
	} else if err != nil {
		return nil, err
	}
	s.replace(visitorID, cart)
	return cart, nil
}

// Add puts a selection in the cart. An existing line with the identical
// (product, variant, normalized options) selection is merged by summing
// quantities; the platform never sees a duplicate line for the same
// selection.
func (s *Service) Add(ctx context.Context, visitorID, productID string, quantity int, options []domain.SelectedOption, variantID string) (*domain.Cart, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, errors.New("productId required")
	}
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	normalized, err := domain.NormalizeOptions(options)
	if err != nil {
		return nil, err
	}
	ref := domain.CatalogReference{
		ProductID: productID,
		VariantID: variantID,
		Options:   normalized,
	}

	current := s.Current(visitorID)
	if current == nil {
		current, err = s.Load(ctx, visitorID)
		if err != nil {
			return nil, err
		}
	}
	for _, line := range current.Lines {
		if ref.Matches(line) {
			return s.UpdateQuantity(ctx, visitorID, line.ID, line.Quantity+quantity)
		}
	}

	item := platform.AddLineItem{
		Quantity: quantity,
		CatalogReference: platform.CatalogReference{
			AppID:         platform.CatalogAppID,
			CatalogItemID: productID,
		},
	}
	if variantID != "" || len(normalized) > 0 {
		item.CatalogReference.Options = &platform.CatalogOptions{
			VariantID: variantID,
			Options:   normalized,
		}
	}

	var cart *domain.Cart
	err = s.creds.WithCredential(ctx, visitorID, func(accessToken string) error {
		c, err := s.api.AddLineItems(ctx, accessToken, []platform.AddLineItem{item})
		if err != nil {
			return err
		}
		cart = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.replace(visitorID, cart)
	return cart, nil
}

// UpdateQuantity sets a line's quantity. Quantities below 1 are refused;
// deleting a line requires Remove.
func (s *Service) UpdateQuantity(ctx context.Context, visitorID, lineItemID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	var cart *domain.Cart
	err := s.creds.WithCredential(ctx, visitorID, func(accessToken string) error {
		c, err := s.api.UpdateLineItemQuantity(ctx, accessToken, lineItemID, quantity)
		if err != nil {
			return err
		}
		cart = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.replace(visitorID, cart)
	return cart, nil
}

// Remove deletes a line. Removing a line the platform no longer knows about
// is a success; the mirror may simply have been stale, so it is reloaded.
func (s *Service) Remove(ctx context.Context, visitorID, lineItemID string) (*domain.Cart, error) {
	var cart *domain.Cart
	err := s.creds.WithCredential(ctx, visitorID, func(accessToken string) error {
		c, err := s.api.RemoveLineItems(ctx, accessToken, []string{lineItemID})
		if err != nil {
			return err
		}
		cart = c
		return nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return s.Load(ctx, visitorID)
	}
	if err != nil {
		return nil, err
	}
	s.replace(visitorID, cart)
	return cart, nil
}
