package platform

import (
	"context"
	"net/http"
)

// TokenGrant is the platform's response to any token exchange.
type TokenGrant struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

type tokenRequest struct {
	GrantType    string `json:"grantType"`
	SiteID       string `json:"siteId,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	Code         string `json:"code,omitempty"`
	RedirectURI  string `json:"redirectUri,omitempty"`
}

// VisitorTokens requests a brand-new anonymous session pair.
func (c *Client) VisitorTokens(ctx context.Context) (TokenGrant, error) {
	var grant TokenGrant
	err := c.do(ctx, "visitor tokens", http.MethodPost, "/v1/oauth/token", "", tokenRequest{
		GrantType: "anonymous",
		SiteID:    c.siteID,
	}, &grant)
	return grant, err
}

// RefreshVisitorTokens exchanges a refresh token for a new pair. The old
// pair is invalid after a successful exchange.
func (c *Client) RefreshVisitorTokens(ctx context.Context, refreshToken string) (TokenGrant, error) {
	var grant TokenGrant
	err := c.do(ctx, "refresh visitor tokens", http.MethodPost, "/v1/oauth/token", "", tokenRequest{
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
	}, &grant)
	return grant, err
}

// MemberTokens exchanges an OAuth authorization code for a member pair.
func (c *Client) MemberTokens(ctx context.Context, code, redirectURI string) (TokenGrant, error) {
	var grant TokenGrant
	err := c.do(ctx, "member tokens", http.MethodPost, "/v1/oauth/token", "", tokenRequest{
		GrantType:   "authorization_code",
		Code:        code,
		RedirectURI: redirectURI,
	}, &grant)
	return grant, err
}

// RefreshMemberTokens exchanges a member refresh token for a new pair.
func (c *Client) RefreshMemberTokens(ctx context.Context, refreshToken string) (TokenGrant, error) {
	var grant TokenGrant
	err := c.do(ctx, "refresh member tokens", http.MethodPost, "/v1/oauth/token", "", tokenRequest{
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
	}, &grant)
	return grant, err
}
