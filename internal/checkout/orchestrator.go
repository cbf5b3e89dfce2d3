package checkout

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/platform"
)

// State names the current step of a checkout invocation.
type State string

const (
	StateIdle            State = "idle"
	StateEstimating      State = "estimating"
	StateCreatingSession State = "creating_session"
	StateRedirecting     State = "redirecting"
	StateFailed          State = "failed"
)

// Channel tag sent on session creation.
const channelWeb = "WEB"

type platformAPI interface {
	EstimateTotals(ctx context.Context, accessToken string, opts platform.EstimateOptions) (*domain.Estimate, error)
	CreateCheckout(ctx context.Context, accessToken, channel string) (*domain.CheckoutSession, error)
}

type credentials interface {
	WithCredential(ctx context.Context, visitorID string, fn func(accessToken string) error) error
}

type cartSource interface {
	Current(visitorID string) *domain.Cart
	Load(ctx context.Context, visitorID string) (*domain.Cart, error)
}

// EstimateError aborts the sequence before any session is created. The
// platform's error body travels inside Cause for diagnostics.
type EstimateError struct {
	Cause error
}

func (e *EstimateError) Error() string { return fmt.Sprintf("estimate totals: %v", e.Cause) }
func (e *EstimateError) Unwrap() error { return e.Cause }

// CreateError reports a failed checkout-session creation.
type CreateError struct {
	Cause error
}

func (e *CreateError) Error() string { return fmt.Sprintf("create checkout session: %v", e.Cause) }
func (e *CreateError) Unwrap() error { return e.Cause }

// Orchestrator runs the one-shot estimate -> create-session -> redirect
// handshake. Every invocation starts from scratch; nothing from a prior
// estimate is reused.
type Orchestrator struct {
	api         platformAPI
	creds       credentials
	carts       cartSource
	fallbackURL string
	logger      zerolog.Logger

	mu    sync.RWMutex
	state State
}

// New builds an Orchestrator. fallbackURL is a template whose single %s
// receives the checkout id when the platform returns no redirect URL.
func New(api platformAPI, creds credentials, carts cartSource, fallbackURL string, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		api:         api,
		creds:       creds,
		carts:       carts,
		fallbackURL: fallbackURL,
		logger:      logger,
		state:       StateIdle,
	}
}

// State reports the step the most recent invocation reached.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Checkout converts the visitor's cart into a payable session and returns
// the URL the browser must navigate to. An empty cart fails fast with
// ErrEmptyCart before any network call.
func (o *Orchestrator) Checkout(ctx context.Context, visitorID string) (string, error) {
	o.setState(StateIdle)

	snapshot := o.carts.Current(visitorID)
	if snapshot == nil {
		loaded, err := o.carts.Load(ctx, visitorID)
		if err != nil {
			o.setState(StateFailed)
			return "", err
		}
		snapshot = loaded
	}
	if len(snapshot.Lines) == 0 {
		o.setState(StateFailed)
		return "", domain.ErrEmptyCart
	}

	o.setState(StateEstimating)
	err := o.creds.WithCredential(ctx, visitorID, func(accessToken string) error {
		// Taxes settle at payment time; shipping must be priced up front.
		_, err := o.api.EstimateTotals(ctx, accessToken, platform.EstimateOptions{
			CalculateTax:      false,
			CalculateShipping: true,
		})
		return err
	})
	if err != nil {
		o.setState(StateFailed)
		return "", &EstimateError{Cause: err}
	}

	o.setState(StateCreatingSession)
	var session *domain.CheckoutSession
	err = o.creds.WithCredential(ctx, visitorID, func(accessToken string) error {
		s, err := o.api.CreateCheckout(ctx, accessToken, channelWeb)
		if err != nil {
			return err
		}
		session = s
		return nil
	})
	if err != nil {
		o.setState(StateFailed)
		return "", &CreateError{Cause: err}
	}

	o.setState(StateRedirecting)
	switch {
	case session.RedirectURL != "":
		return session.RedirectURL, nil
	case session.CheckoutID != "":
		return fmt.Sprintf(o.fallbackURL, url.QueryEscape(session.CheckoutID)), nil
	default:
		o.setState(StateFailed)
		return "", domain.ErrNoRedirectTarget
	}
}
