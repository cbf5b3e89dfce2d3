package member

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/platform"
)

// ErrNotLoggedIn indicates no member session exists for the visitor.
var ErrNotLoggedIn = errors.New("no member session")

type platformAPI interface {
	MemberTokens(ctx context.Context, code, redirectURI string) (platform.TokenGrant, error)
	RefreshMemberTokens(ctx context.Context, refreshToken string) (platform.TokenGrant, error)
	MemberProfile(ctx context.Context, accessToken string) (*domain.Profile, error)
	ContactByID(ctx context.Context, accessToken, contactID string) (*domain.Contact, error)
	UpdateContact(ctx context.Context, accessToken string, contact domain.Contact) (*domain.Contact, error)
}

type store interface {
	Get(ctx context.Context, visitorID string) (*domain.MemberTokens, error)
	Put(ctx context.Context, visitorID string, tokens domain.MemberTokens) error
	Delete(ctx context.Context, visitorID string) error
}

// Service resolves the authenticated member and their linked CRM contact.
// It follows the same exchange/persist/refresh-once pattern as the visitor
// token manager, but a rejected member refresh ends the session instead of
// falling back to an anonymous one.
type Service struct {
	api         platformAPI
	store       store
	redirectURI string
	logger      zerolog.Logger
	now         func() time.Time

	mu       sync.RWMutex
	contacts map[string]*domain.Contact
}

func New(api platformAPI, store store, redirectURI string, logger zerolog.Logger) *Service {
	return &Service{
		api:         api,
		store:       store,
		redirectURI: redirectURI,
		logger:      logger,
		now:         time.Now,
		contacts:    make(map[string]*domain.Contact),
	}
}

// ExchangeCode trades an OAuth authorization code for a member token pair
// and persists it for the visitor.
func (s *Service) ExchangeCode(ctx context.Context, visitorID, code string) error {
	grant, err := s.api.MemberTokens(ctx, code, s.redirectURI)
	if err != nil {
		if platform.IsAuthRejection(err) {
			return &domain.AuthError{Op: "member code exchange", Err: err}
		}
		return err
	}
	return s.store.Put(ctx, visitorID, s.toTokens(grant))
}

// Logout drops the persisted member session. Unknown visitors are a no-op.
func (s *Service) Logout(ctx context.Context, visitorID string) error {
	s.mu.Lock()
	delete(s.contacts, visitorID)
	s.mu.Unlock()
	err := s.store.Delete(ctx, visitorID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// Profile resolves the member behind the visitor's session.
func (s *Service) Profile(ctx context.Context, visitorID string) (*domain.Profile, error) {
	var profile *domain.Profile
	err := s.withTokens(ctx, visitorID, func(accessToken string) error {
		p, err := s.api.MemberProfile(ctx, accessToken)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// Contact returns the linked CRM contact, cached after the first resolve.
func (s *Service) Contact(ctx context.Context, visitorID string) (*domain.Contact, error) {
	s.mu.RLock()
	cached := s.contacts[visitorID]
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	profile, err := s.Profile(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	var contact *domain.Contact
	err = s.withTokens(ctx, visitorID, func(accessToken string) error {
		c, err := s.api.ContactByID(ctx, accessToken, profile.ContactID)
		if err != nil {
			return err
		}
		contact = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.SetContact(visitorID, contact)
	return contact, nil
}

// SetContact replaces the cached contact after a direct update round trip,
// avoiding a full reload.
func (s *Service) SetContact(visitorID string, contact *domain.Contact) {
	s.mu.Lock()
	s.contacts[visitorID] = contact
	s.mu.Unlock()
}

// UpdateContact pushes the change to the platform and refreshes the cache
// from the response.
func (s *Service) UpdateContact(ctx context.Context, visitorID string, contact domain.Contact) (*domain.Contact, error) {
	var updated *domain.Contact
	err := s.withTokens(ctx, visitorID, func(accessToken string) error {
		c, err := s.api.UpdateContact(ctx, accessToken, contact)
		if err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.SetContact(visitorID, updated)
	return updated, nil
}

func (s *Service) ensure(ctx context.Context, visitorID string) (domain.MemberTokens, error) {
	tokens, err := s.store.Get(ctx, visitorID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.MemberTokens{}, ErrNotLoggedIn
	}
	if err != nil {
		return domain.MemberTokens{}, err
	}
	if tokens.LiveAt(s.now()) {
		return *tokens, nil
	}
	return s.refresh(ctx, visitorID, tokens.RefreshToken)
}

func (s *Service) refresh(ctx context.Context, visitorID, refreshToken string) (domain.MemberTokens, error) {
	grant, err := s.api.RefreshMemberTokens(ctx, refreshToken)
	if err != nil {
		if platform.IsAuthRejection(err) {
			// Session is over; the member has to log in again.
			_ = s.store.Delete(ctx, visitorID)
			return domain.MemberTokens{}, &domain.AuthError{Op: "member token refresh", Err: err}
		}
		return domain.MemberTokens{}, err
	}
	tokens := s.toTokens(grant)
	if err := s.store.Put(ctx, visitorID, tokens); err != nil {
		return domain.MemberTokens{}, err
	}
	return tokens, nil
}

// withTokens mirrors the visitor manager's contract: one refresh and one
// retry on a 401, then the failure surfaces.
func (s *Service) withTokens(ctx context.Context, visitorID string, fn func(accessToken string) error) error {
	tokens, err := s.ensure(ctx, visitorID)
	if err != nil {
		return err
	}

	err = fn(tokens.AccessToken)
	if !errors.Is(err, domain.ErrUnauthorized) {
		return err
	}

	tokens, refreshErr := s.refresh(ctx, visitorID, tokens.RefreshToken)
	if refreshErr != nil {
		return refreshErr
	}
	return fn(tokens.AccessToken)
}

// toTokens derives the absolute expiry. The declared lifetime wins; when the
// platform omits it the exp claim of the JWT access token is used instead.
func (s *Service) toTokens(grant platform.TokenGrant) domain.MemberTokens {
	expiresAt := s.now().Add(time.Duration(grant.ExpiresIn) * time.Second)
	if grant.ExpiresIn <= 0 {
		expiresAt = tokenExpiry(grant.AccessToken, s.now())
	}
	return domain.MemberTokens{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresAt:    expiresAt,
	}
}

// tokenExpiry reads the exp claim without verifying the signature; the
// platform signs its own tokens, we only schedule refreshes.
func tokenExpiry(accessToken string, fallback time.Time) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return fallback
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fallback
	}
	return exp.Time
}
