package store

import (
	"context"
	"testing"
	"time"

	"github.com/spottem/spottem-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(id string, ttl time.Duration) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:        id,
		UserEmail: "alice@example-com",
		Credential: domain.Credential{
			AccessToken: "access_token_value",
			TokenType:   "Bearer",
			Expiry:      now.Add(time.Hour),
		},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestCreateSession(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	session := newTestSession("sess_test123", time.Hour)
	require.NoError(t, store.CreateSession(ctx, session))

	retrieved, err := store.GetSession(ctx, "sess_test123")
	require.NoError(t, err)
	assert.Equal(t, session.UserEmail, retrieved.UserEmail)
	assert.Equal(t, session.Credential.AccessToken, retrieved.Credential.AccessToken)
}

func TestCreateSession_AlreadyExpired(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.CreateSession(context.Background(), newTestSession("sess_dead", -time.Minute))
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestGetSession_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetSession(context.Background(), "sess_missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSession(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateSession(ctx, newTestSession("sess_test123", time.Hour)))
	require.NoError(t, store.DeleteSession(ctx, "sess_test123"))

	_, err := store.GetSession(ctx, "sess_test123")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting again is fine
	require.NoError(t, store.DeleteSession(ctx, "sess_test123"))
}
