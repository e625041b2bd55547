package auth

import (
	"encoding/json/v2"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/spottem/spottem-server/internal/domain"
)

const (
	tokenIssuer   = "spottem-server"
	tokenAudience = "spottem-web"

	keyBytesSize = 32
)

// SessionClaims are the claims inside a session token. The token is a
// v4.local PASETO, so claims are encrypted and cannot be read or forged
// without the server key.
type SessionClaims struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email"` // encoded form

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Audience   string    `json:"aud"`
	Subject    string    `json:"sub"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
}

// TokenService issues and verifies PASETO session tokens.
type TokenService struct {
	symmetricKey paseto.V4SymmetricKey
}

// NewTokenService creates a token service from a raw 32-byte key.
func NewTokenService(key []byte) (*TokenService, error) {
	if len(key) != keyBytesSize {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyBytesSize, len(key))
	}

	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenService{symmetricKey: symmetricKey}, nil
}

// GenerateSessionToken creates a v4.local token for the session. The token
// expires with the session row, so a stale cookie cannot outlive its
// server-side state.
func (s *TokenService) GenerateSessionToken(session *domain.Session) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(session.UserEmail)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(session.ExpiresAt)

	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("session_id", session.ID)
	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("email", session.UserEmail)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifySessionToken decrypts and validates a session token, returning its
// claims or an error when it is invalid or expired.
func (s *TokenService) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims SessionClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}

	return &claims, nil
}
