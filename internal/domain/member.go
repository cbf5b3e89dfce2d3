package domain

import "time"

// MemberTokens is the authenticated-member counterpart of VisitorCredential,
// obtained from an OAuth authorization-code exchange.
type MemberTokens struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func (t MemberTokens) LiveAt(now time.Time) bool {
	return t.AccessToken != "" && now.Before(t.ExpiresAt)
}

// Profile is the member record as held by the platform's membership area.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	Slug      string `json:"slug,omitempty"`
	ContactID string `json:"contactId,omitempty"`
}

// Contact is the CRM contact linked to a member.
type Contact struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}
