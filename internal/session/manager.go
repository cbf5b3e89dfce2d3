package session

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/platform"
)

type tokenAPI interface {
	VisitorTokens(ctx context.Context) (platform.TokenGrant, error)
	RefreshVisitorTokens(ctx context.Context, refreshToken string) (platform.TokenGrant, error)
}

type store interface {
	Get(ctx context.Context, visitorID string) (*domain.VisitorCredential, error)
	Put(ctx context.Context, visitorID string, cred domain.VisitorCredential) error
}

// Manager owns the visitor credential lifecycle. It is the only writer of
// the credential store; other components go through Ensure or WithCredential.
type Manager struct {
	api    tokenAPI
	store  store
	logger zerolog.Logger

	now func() time.Time
	// Credentials within skew of expiry are refreshed eagerly so an
	// about-to-expire token is never sent.
	skew time.Duration
}

func NewManager(api tokenAPI, store store, logger zerolog.Logger) *Manager {
	return &Manager{
		api:    api,
		store:  store,
		logger: logger,
		now:    time.Now,
		skew:   30 * time.Second,
	}
}

// Ensure returns a credential that is live right now, refreshing or issuing
// one as needed. The cached value is returned unchanged while it is live.
func (m *Manager) Ensure(ctx context.Context, visitorID string) (domain.VisitorCredential, error) {
	cached, err := m.store.Get(ctx, visitorID)
	switch {
	case err == nil:
		if cached.LiveAt(m.now().Add(m.skew)) {
			return *cached, nil
		}
		return m.Refresh(ctx, visitorID, cached.RefreshToken)
	case errors.Is(err, domain.ErrNotFound):
		return m.Refresh(ctx, visitorID, "")
	default:
		return domain.VisitorCredential{}, err
	}
}

// Refresh exchanges the refresh token for a new pair and persists it. A
// rejected refresh token drops to a brand-new anonymous grant rather than
// retrying the same token; only a failure of that fallback is an AuthError.
func (m *Manager) Refresh(ctx context.Context, visitorID, refreshToken string) (domain.VisitorCredential, error) {
	var grant platform.TokenGrant
	var err error

	if refreshToken != "" {
		grant, err = m.api.RefreshVisitorTokens(ctx, refreshToken)
		if err != nil && platform.IsAuthRejection(err) {
			m.logger.Debug().Str("visitor", visitorID).Msg("refresh token rejected, issuing fresh anonymous session")
			grant, err = m.api.VisitorTokens(ctx)
		}
	} else {
		grant, err = m.api.VisitorTokens(ctx)
	}
	if err != nil {
		if platform.IsAuthRejection(err) {
			return domain.VisitorCredential{}, &domain.AuthError{Op: "visitor token exchange", Err: err}
		}
		return domain.VisitorCredential{}, err
	}

	cred := domain.VisitorCredential{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresAt:    m.now().Add(time.Duration(grant.ExpiresIn) * time.Second),
	}
	if err := m.store.Put(ctx, visitorID, cred); err != nil {
		return domain.VisitorCredential{}, err
	}
	return cred, nil
}

// WithCredential runs fn with a live access token. If fn reports
// ErrUnauthorized the credential is refreshed exactly once and fn is rerun
// once; a second rejection surfaces to the caller.
func (m *Manager) WithCredential(ctx context.Context, visitorID string, fn func(accessToken string) error) error {
	cred, err := m.Ensure(ctx, visitorID)
	if err != nil {
		return err
	}

	err = fn(cred.AccessToken)
	if !errors.Is(err, domain.ErrUnauthorized) {
		return err
	}

	m.logger.Debug().Str("visitor", visitorID).Msg("platform rejected access token, refreshing once")
	cred, refreshErr := m.Refresh(ctx, visitorID, cred.RefreshToken)
	if refreshErr != nil {
		return refreshErr
	}
	return fn(cred.AccessToken)
}
