package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/platform"
)

type stubAPI struct {
	estimate    *domain.Estimate
	estimateErr error
	session     *domain.CheckoutSession
	createErr   error

	estimateCalls int
	createCalls   int
	lastOptions   platform.EstimateOptions
	lastChannel   string
}

func (s *stubAPI) EstimateTotals(_ context.Context, _ string, opts platform.EstimateOptions) (*domain.Estimate, error) {
	s.estimateCalls++
	s.lastOptions = opts
	return s.estimate, s.estimateErr
}

func (s *stubAPI) CreateCheckout(_ context.Context, _ string, channel string) (*domain.CheckoutSession, error) {
	s.createCalls++
	s.lastChannel = channel
	return s.session, s.createErr
}

type stubCreds struct {
	calls int
}

func (s *stubCreds) WithCredential(_ context.Context, _ string, fn func(string) error) error {
	s.calls++
	return fn("access-token")
}

type stubCarts struct {
	current   *domain.Cart
	loaded    *domain.Cart
	loadErr   error
	loadCalls int
}

func (s *stubCarts) Current(_ string) *domain.Cart { return s.current }

func (s *stubCarts) Load(_ context.Context, _ string) (*domain.Cart, error) {
	s.loadCalls++
	return s.loaded, s.loadErr
}

const fallbackTemplate = "https://www.kokofresh.in/checkout?checkoutId=%s"

func newTestOrchestrator(api *stubAPI, creds *stubCreds, carts *stubCarts) *Orchestrator {
	return New(api, creds, carts, fallbackTemplate, zerolog.Nop())
}

func oneLineCart() *domain.Cart {
	return &domain.Cart{ID: "c1", Lines: []domain.LineItem{{ID: "l1", ProductID: "P1", Quantity: 1}}}
}

func TestCheckoutEmptyCartFailsFast(t *testing.T) {
	api := &stubAPI{}
	creds := &stubCreds{}
	carts := &stubCarts{current: domain.EmptyCart()}
	o := newTestOrchestrator(api, creds, carts)

	_, err := o.Checkout(context.Background(), "v1")
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if api.estimateCalls != 0 || api.createCalls != 0 || creds.calls != 0 || carts.loadCalls != 0 {
		t.Fatalf("empty cart must cause zero network activity: estimate=%d create=%d creds=%d load=%d",
			api.estimateCalls, api.createCalls, creds.calls, carts.loadCalls)
	}
	if o.State() != StateFailed {
		t.Fatalf("expected failed state, got %s", o.State())
	}
}

func TestCheckoutEstimateFailureSkipsSessionCreation(t *testing.T) {
	cause := &domain.PlatformError{Op: "estimate totals", Status: 500, Body: `{"message":"boom"}`}
	api := &stubAPI{estimateErr: cause}
	o := newTestOrchestrator(api, &stubCreds{}, &stubCarts{current: oneLineCart()})

	_, err := o.Checkout(context.Background(), "v1")
	var estimateErr *EstimateError
	if !errors.As(err, &estimateErr) {
		t.Fatalf("expected EstimateError, got %v", err)
	}
	var pe *domain.PlatformError
	if !errors.As(err, &pe) || pe.Body != `{"message":"boom"}` {
		t.Fatalf("estimate error must carry the server body, got %v", err)
	}
	if api.createCalls != 0 {
		t.Fatalf("create-session must never run after a failed estimate, got %d calls", api.createCalls)
	}
	if o.State() != StateFailed {
		t.Fatalf("expected failed state, got %s", o.State())
	}
}

func TestCheckoutCreateFailure(t *testing.T) {
	api := &stubAPI{
		estimate:  &domain.Estimate{TotalCents: 100},
		createErr: &domain.PlatformError{Op: "create checkout", Status: 500},
	}
	o := newTestOrchestrator(api, &stubCreds{}, &stubCarts{current: oneLineCart()})

	_, err := o.Checkout(context.Background(), "v1")
	var createErr *CreateError
	if !errors.As(err, &createErr) {
		t.Fatalf("expected CreateError, got %v", err)
	}
	if o.State() != StateFailed {
		t.Fatalf("expected failed state, got %s", o.State())
	}
}

func TestCheckoutPrefersDirectRedirectURL(t *testing.T) {
	api := &stubAPI{
		estimate: &domain.Estimate{TotalCents: 100},
		session:  &domain.CheckoutSession{RedirectURL: "https://pay.example/session/123", CheckoutID: "co-1"},
	}
	o := newTestOrchestrator(api, &stubCreds{}, &stubCarts{current: oneLineCart()})

	url, err := o.Checkout(context.Background(), "v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://pay.example/session/123" {
		t.Fatalf("unexpected redirect url: %s", url)
	}
	if o.State() != StateRedirecting {
		t.Fatalf("expected redirecting state, got %s", o.State())
	}
	if api.lastChannel != "WEB" {
		t.Fatalf("expected WEB channel tag, got %q", api.lastChannel)
	}
}

func TestCheckoutFallsBackToTemplateURL(t *testing.T) {
	api := &stubAPI{
		estimate: &domain.Estimate{TotalCents: 100},
		session:  &domain.CheckoutSession{CheckoutID: "co-42"},
	}
	o := newTestOrchestrator(api, &stubCreds{}, &stubCarts{current: oneLineCart()})

	url, err := o.Checkout(context.Background(), "v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://www.kokofresh.in/checkout?checkoutId=co-42" {
		t.Fatalf("unexpected fallback url: %s", url)
	}
}

func TestCheckoutWithoutRedirectTargetFails(t *testing.T) {
	api := &stubAPI{
		estimate: &domain.Estimate{TotalCents: 100},
		session:  &domain.CheckoutSession{},
	}
	o := newTestOrchestrator(api, &stubCreds{}, &stubCarts{current: oneLineCart()})

	_, err := o.Checkout(context.Background(), "v1")
	if !errors.Is(err, domain.ErrNoRedirectTarget) {
		t.Fatalf("expected ErrNoRedirectTarget, got %v", err)
	}
	if o.State() != StateFailed {
		t.Fatalf("expected failed state, got %s", o.State())
	}
}

func TestCheckoutEstimateFlags(t *testing.T) {
	api := &stubAPI{
		estimate: &domain.Estimate{TotalCents: 100},
		session:  &domain.CheckoutSession{RedirectURL: "https://pay.example/s"},
	}
	o := newTestOrchestrator(api, &stubCreds{}, &stubCarts{current: oneLineCart()})

	if _, err := o.Checkout(context.Background(), "v1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.lastOptions.CalculateTax || !api.lastOptions.CalculateShipping {
		t.Fatalf("expected tax off and shipping on, got %+v", api.lastOptions)
	}
}

func TestCheckoutReEstimatesEveryInvocation(t *testing.T) {
	api := &stubAPI{
		estimate: &domain.Estimate{TotalCents: 100},
		session:  &domain.CheckoutSession{RedirectURL: "https://pay.example/s"},
	}
	o := newTestOrchestrator(api, &stubCreds{}, &stubCarts{current: oneLineCart()})

	for i := 0; i < 2; i++ {
		if _, err := o.Checkout(context.Background(), "v1"); err != nil {
			t.Fatalf("invocation %d: %v", i, err)
		}
	}
	if api.estimateCalls != 2 {
		t.Fatalf("expected a fresh estimate per invocation, got %d", api.estimateCalls)
	}
}

func TestCheckoutLoadsCartWhenMirrorMissing(t *testing.T) {
	api := &stubAPI{
		estimate: &domain.Estimate{TotalCents: 100},
		session:  &domain.CheckoutSession{RedirectURL: "https://pay.example/s"},
	}
	carts := &stubCarts{loaded: oneLineCart()}
	o := newTestOrchestrator(api, &stubCreds{}, carts)

	if _, err := o.Checkout(context.Background(), "v1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if carts.loadCalls != 1 {
		t.Fatalf("expected one cart load, got %d", carts.loadCalls)
	}
}
