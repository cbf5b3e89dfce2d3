package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/platform"
)

// fakePlatform simulates the platform's cart behavior: server-assigned line
// ids, whole-cart responses after every mutation.
type fakePlatform struct {
	cart   domain.Cart
	nextID int

	noCart         bool
	addErr         error
	updateErr      error
	removeNotFound bool

	getCalls    int
	addCalls    int
	updateCalls int
	removeCalls int
}

func (f *fakePlatform) snapshot() *domain.Cart {
	out := f.cart
	out.Lines = append([]domain.LineItem(nil), f.cart.Lines...)
	return &out
}

func (f *fakePlatform) CurrentCart(_ context.Context, _ string) (*domain.Cart, error) {
	f.getCalls++
	if f.noCart {
		return nil, domain.ErrNotFound
	}
	return f.snapshot(), nil
}

func (f *fakePlatform) AddLineItems(_ context.Context, _ string, items []platform.AddLineItem) (*domain.Cart, error) {
	f.addCalls++
	if f.addErr != nil {
		return nil, f.addErr
	}
	for _, item := range items {
		f.nextID++
		line := domain.LineItem{
			ID:        fmt.Sprintf("line-%d", f.nextID),
			ProductID: item.CatalogReference.CatalogItemID,
			Quantity:  item.Quantity,
		}
		if opts := item.CatalogReference.Options; opts != nil {
			line.VariantID = opts.VariantID
			line.Options = opts.Options
		}
		f.cart.Lines = append(f.cart.Lines, line)
	}
	f.noCart = false
	return f.snapshot(), nil
}

func (f *fakePlatform) UpdateLineItemQuantity(_ context.Context, _ string, lineItemID string, quantity int) (*domain.Cart, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.cart.Lines {
		if f.cart.Lines[i].ID == lineItemID {
			f.cart.Lines[i].Quantity = quantity
			return f.snapshot(), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePlatform) RemoveLineItems(_ context.Context, _ string, lineItemIDs []string) (*domain.Cart, error) {
	f.removeCalls++
	if f.removeNotFound {
		return nil, domain.ErrNotFound
	}
	for _, id := range lineItemIDs {
		kept := f.cart.Lines[:0]
		for _, line := range f.cart.Lines {
			if line.ID != id {
				kept = append(kept, line)
			}
		}
		f.cart.Lines = kept
	}
	return f.snapshot(), nil
}

// passthroughCreds hands every callback a fixed token with no refresh logic;
// the retry contract is covered by the session package.
type passthroughCreds struct {
	calls int
}

func (p *passthroughCreds) WithCredential(_ context.Context, _ string, fn func(string) error) error {
	p.calls++
	return fn("access-token")
}

func newTestService(api *fakePlatform) *Service {
	return New(api, &passthroughCreds{})
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	svc := newTestService(&fakePlatform{})
	for _, qty := range []int{0, -3} {
		_, err := svc.Add(context.Background(), "v1", "P1", qty, nil, "")
		if !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("qty %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestAddRejectsMissingProduct(t *testing.T) {
	api := &fakePlatform{}
	svc := newTestService(api)
	_, err := svc.Add(context.Background(), "v1", "  ", 1, nil, "")
	if err == nil || err.Error() != "productId required" {
		t.Fatalf("expected productId error, got %v", err)
	}
	if api.addCalls != 0 {
		t.Fatalf("validation failure must not reach the network")
	}
}

func TestAddRejectsMalformedOption(t *testing.T) {
	svc := newTestService(&fakePlatform{})
	_, err := svc.Add(context.Background(), "v1", "P1", 1, []domain.SelectedOption{{Name: "", Value: "250g"}}, "")
	if !errors.Is(err, domain.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
}

func TestAddMergesIdenticalSelection(t *testing.T) {
	api := &fakePlatform{}
	svc := newTestService(api)
	ctx := context.Background()

	cart, err := svc.Add(ctx, "v1", "P1", 2, nil, "")
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 2 {
		t.Fatalf("after first add: %+v", cart.Lines)
	}

	cart, err = svc.Add(ctx, "v1", "P1", 3, nil, "")
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 5 {
		t.Fatalf("expected a single merged line with quantity 5, got %+v", cart.Lines)
	}
	if api.addCalls != 1 || api.updateCalls != 1 {
		t.Fatalf("expected merge to reuse the line (add=1 update=1), got add=%d update=%d", api.addCalls, api.updateCalls)
	}

	cart, err = svc.Add(ctx, "v1", "P1", 1, nil, "V1")
	if err != nil {
		t.Fatalf("variant add: %v", err)
	}
	if len(cart.Lines) != 2 {
		t.Fatalf("different variant must create its own line, got %+v", cart.Lines)
	}
	quantities := map[string]int{}
	for _, line := range cart.Lines {
		quantities[line.VariantID] = line.Quantity
	}
	if quantities[""] != 5 || quantities["V1"] != 1 {
		t.Fatalf("unexpected quantities: %v", quantities)
	}
}

func TestAddDistinctOptionsCreateDistinctLines(t *testing.T) {
	api := &fakePlatform{}
	svc := newTestService(api)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "v1", "P1", 1, []domain.SelectedOption{{Name: "Weight", Value: "250g"}}, ""); err != nil {
		t.Fatalf("add 250g: %v", err)
	}
	cart, err := svc.Add(ctx, "v1", "P1", 1, []domain.SelectedOption{{Name: "Weight", Value: "500g"}}, "")
	if err != nil {
		t.Fatalf("add 500g: %v", err)
	}
	if len(cart.Lines) != 2 {
		t.Fatalf("expected two lines for differing options, got %+v", cart.Lines)
	}
	if api.addCalls != 2 {
		t.Fatalf("expected two remote adds, got %d", api.addCalls)
	}
}

func TestAddNormalizesOptionsBeforeMatching(t *testing.T) {
	api := &fakePlatform{}
	svc := newTestService(api)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "v1", "P1", 1, []domain.SelectedOption{{Name: "Weight", Value: "250g"}}, ""); err != nil {
		t.Fatalf("first add: %v", err)
	}
	cart, err := svc.Add(ctx, "v1", "P1", 2, []domain.SelectedOption{{Name: "  Weight ", Value: " 250g "}}, "")
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 3 {
		t.Fatalf("whitespace variants of the same option must merge, got %+v", cart.Lines)
	}
}

func TestLoadMissingCartIsEmptyCart(t *testing.T) {
	api := &fakePlatform{noCart: true}
	svc := newTestService(api)

	cart, err := svc.Load(context.Background(), "v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart == nil || len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestLoadReplacesMirror(t *testing.T) {
	api := &fakePlatform{cart: domain.Cart{ID: "c1", Lines: []domain.LineItem{{ID: "l1", ProductID: "P1", Quantity: 1}}}}
	svc := newTestService(api)

	if _, err := svc.Load(context.Background(), "v1"); err != nil {
		t.Fatalf("load: %v", err)
	}
	mirror := svc.Current("v1")
	if mirror == nil || mirror.ID != "c1" || len(mirror.Lines) != 1 {
		t.Fatalf("mirror not replaced: %+v", mirror)
	}
}

func TestUpdateQuantityClampsAtOne(t *testing.T) {
	api := &fakePlatform{}
	svc := newTestService(api)
	for _, qty := range []int{0, -1} {
		_, err := svc.UpdateQuantity(context.Background(), "v1", "l1", qty)
		if !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("qty %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
	if api.updateCalls != 0 {
		t.Fatalf("invalid quantity must not reach the network")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	api := &fakePlatform{cart: domain.Cart{Lines: []domain.LineItem{{ID: "l1", ProductID: "P1", Quantity: 1}}}}
	svc := newTestService(api)
	ctx := context.Background()

	cart, err := svc.Remove(ctx, "v1", "l1")
	if err != nil {
		t.Fatalf("first remove: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("line not removed: %+v", cart.Lines)
	}

	api.removeNotFound = true
	cart, err = svc.Remove(ctx, "v1", "l1")
	if err != nil {
		t.Fatalf("second remove of the same id must succeed, got %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected reloaded empty cart, got %+v", cart.Lines)
	}
}

func TestAddOutOfStockSurfaces(t *testing.T) {
	api := &fakePlatform{addErr: domain.ErrOutOfStock}
	svc := newTestService(api)

	_, err := svc.Add(context.Background(), "v1", "P1", 1, nil, "")
	if !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
}

func TestMutationReplacesMirrorFromServerResponse(t *testing.T) {
	api := &fakePlatform{}
	svc := newTestService(api)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "v1", "P1", 2, nil, ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	// The platform can reprice lines behind our back; the next mutation's
	// response has to win over any local view.
	api.cart.Lines[0].UnitPriceCents = 999
	cart, err := svc.UpdateQuantity(ctx, "v1", api.cart.Lines[0].ID, 4)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if cart.Lines[0].UnitPriceCents != 999 {
		t.Fatalf("mirror was not replaced by the server response: %+v", cart.Lines[0])
	}
	if got := svc.Current("v1"); got.Lines[0].Quantity != 4 {
		t.Fatalf("mirror stale after mutation: %+v", got.Lines[0])
	}
}
