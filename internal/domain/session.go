package domain

import "time"

// Credential is the delegated-access token obtained from the provider's
// token endpoint. It is held server-side only; clients never see it.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// Session binds a browser session to a user and the provider credential
// obtained at login. The session cookie carries only the session ID inside
// a signed token; the credential stays in the store.
type Session struct {
	ID         string     `json:"id"`
	UserEmail  string     `json:"user_email"` // encoded form
	Credential Credential `json:"credential"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
}

// IsExpired checks if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
