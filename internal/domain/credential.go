package domain

import "time"

// VisitorCredential is the anonymous-session token pair issued by the
// platform. The pair is replaced wholesale on every refresh; ExpiresAt is a
// client-side soft deadline, the platform's 401 responses stay authoritative.
type VisitorCredential struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// LiveAt reports whether the access token may still be presented at the
// given instant.
func (c VisitorCredential) LiveAt(now time.Time) bool {
	return c.AccessToken != "" && now.Before(c.ExpiresAt)
}
