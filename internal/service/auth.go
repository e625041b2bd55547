// Package service implements the application logic between the HTTP
// handlers and the store.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spottem/spottem-server/internal/auth"
	"github.com/spottem/spottem-server/internal/domain"
	"github.com/spottem/spottem-server/internal/emailkey"
	domainerrors "github.com/spottem/spottem-server/internal/errors"
	"github.com/spottem/spottem-server/internal/id"
	"github.com/spottem/spottem-server/internal/spotify"
	"github.com/spottem/spottem-server/internal/store"
)

// SessionCookieName is the cookie carrying the PASETO session token.
const SessionCookieName = "spottem_session"

// SpotifyClient is the provider surface AuthService needs. Satisfied by
// *spotify.Client; narrowed so tests can stub the provider.
type SpotifyClient interface {
	AuthorizeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.Credential, error)
	CurrentTrack(ctx context.Context, accessToken string) (*domain.Track, error)
	Profile(ctx context.Context, accessToken string) (*spotify.Profile, error)
}

// AuthService runs the OAuth callback flow and resolves session cookies
// back to provider credentials.
type AuthService struct {
	store           *store.Store
	spotify         SpotifyClient
	tokens          *auth.TokenService
	sessionDuration time.Duration
	logger          *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store *store.Store,
	spotifyClient SpotifyClient,
	tokens *auth.TokenService,
	sessionDuration time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:           store,
		spotify:         spotifyClient,
		tokens:          tokens,
		sessionDuration: sessionDuration,
		logger:          logger,
	}
}

// LoginURL returns the provider authorization URL the browser should visit.
func (s *AuthService) LoginURL() string {
	return s.spotify.AuthorizeURL(id.MustGenerate("state"))
}

// CallbackResult is what a completed OAuth callback produces: the session
// token for the cookie and the session row it maps to.
type CallbackResult struct {
	Token   string
	Session *domain.Session
}

// HandleCallback completes the authorization-code flow: exchange the code,
// fetch the profile, upsert the user, and open a session.
func (s *AuthService) HandleCallback(ctx context.Context, code string) (*CallbackResult, error) {
	credential, err := s.spotify.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	profile, err := s.spotify.Profile(ctx, credential.AccessToken)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domainerrors.Provider("provider rejected freshly issued token")
	}
	if profile.Email == "" {
		return nil, domainerrors.Provider("profile response missing email")
	}

	encodedEmail := emailkey.Encode(profile.Email)
	if emailkey.Ambiguous(profile.Email) {
		s.logger.Warn("email contains '-', key round-trip is lossy", "email", profile.Email)
	}

	if err := s.upsertUser(ctx, encodedEmail, profile); err != nil {
		return nil, err
	}

	session, err := s.openSession(ctx, encodedEmail, credential)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateSessionToken(session)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "issue session token")
	}

	s.logger.Info("user logged in", "email", encodedEmail, "session_id", session.ID)
	return &CallbackResult{Token: token, Session: session}, nil
}

// upsertUser creates the user on first login and refreshes the profile
// fields on every subsequent one.
func (s *AuthService) upsertUser(ctx context.Context, encodedEmail string, profile *spotify.Profile) error {
	user, err := s.store.GetUser(ctx, encodedEmail)
	if err != nil {
		if !domainerrors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("load user: %w", err)
		}
		user = &domain.User{
			Email:       encodedEmail,
			DisplayName: profile.DisplayName,
			SpotifyID:   profile.ID,
			PictureURL:  profile.FirstImageURL(),
			IsOnline:    true,
			Friends:     []string{},
		}
		user.InitTimestamps()
		return s.store.CreateUser(ctx, user)
	}

	user.DisplayName = profile.DisplayName
	user.SpotifyID = profile.ID
	user.PictureURL = profile.FirstImageURL()
	user.IsOnline = true
	return s.store.UpdateUser(ctx, user)
}

func (s *AuthService) openSession(ctx context.Context, encodedEmail string, credential *domain.Credential) (*domain.Session, error) {
	sessionID, err := id.Generate("sess")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:         sessionID,
		UserEmail:  encodedEmail,
		Credential: *credential,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.sessionDuration),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// SessionFromToken resolves a cookie token back to its live session.
// Missing, invalid, expired, and unknown all collapse into the no-session
// error so handlers have a single 401 branch.
func (s *AuthService) SessionFromToken(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domainerrors.ErrNoSession
	}

	claims, err := s.tokens.VerifySessionToken(token)
	if err != nil {
		return nil, domainerrors.NoSession("invalid session token").WithCause(err)
	}

	session, err := s.store.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, domainerrors.NoSession("session not found or expired").WithCause(err)
	}
	return session, nil
}

// Logout deletes the session behind a cookie token. Unknown or invalid
// tokens are a no-op; logout never fails the client for being logged out.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.VerifySessionToken(token)
	if err != nil {
		return nil
	}
	return s.store.DeleteSession(ctx, claims.SessionID)
}
