package store

import (
	"context"
	"testing"

	"github.com/spottem/spottem-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(encodedEmail string) *domain.User {
	u := &domain.User{
		Email:       encodedEmail,
		DisplayName: "Test User",
		SpotifyID:   "spotify_test123",
		Friends:     []string{},
	}
	u.InitTimestamps()
	return u
}

func newTestTrack(songID, name string) *domain.Track {
	return &domain.Track{
		SongID:  songID,
		Name:    name,
		Artists: "Test Artist",
		Album:   "Test Album",
		URL:     "https://open.spotify.com/track/" + songID,
	}
}

func TestCreateUser(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	user := newTestUser("alice@example-com")
	err := store.CreateUser(ctx, user)
	require.NoError(t, err)

	retrieved, err := store.GetUser(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.Email, retrieved.Email)
	assert.Equal(t, user.DisplayName, retrieved.DisplayName)
	assert.Equal(t, user.SpotifyID, retrieved.SpotifyID)
	assert.Nil(t, retrieved.CurrentTrack)
}

func TestCreateUser_Duplicate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	err := store.CreateUser(ctx, newTestUser("alice@example-com"))
	require.NoError(t, err)

	err = store.CreateUser(ctx, newTestUser("alice@example-com"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestGetUser_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetUser(context.Background(), "nobody@example-com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	user := newTestUser("alice@example-com")
	require.NoError(t, store.CreateUser(ctx, user))

	user.DisplayName = "Alice"
	user.IsOnline = true
	require.NoError(t, store.UpdateUser(ctx, user))

	retrieved, err := store.GetUser(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, "Alice", retrieved.DisplayName)
	assert.True(t, retrieved.IsOnline)
}

func TestUpdateUser_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.UpdateUser(context.Background(), newTestUser("ghost@example-com"))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser_Idempotent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, newTestUser("alice@example-com")))
	require.NoError(t, store.DeleteUser(ctx, "alice@example-com"))

	exists, err := store.UserExists(ctx, "alice@example-com")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting again is fine
	require.NoError(t, store.DeleteUser(ctx, "alice@example-com"))
}

func TestAddFriend(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, newTestUser("alice@example-com")))

	added, err := store.AddFriend(ctx, "alice@example-com", "bob@example-com")
	require.NoError(t, err)
	assert.True(t, added)

	user, err := store.GetUser(ctx, "alice@example-com")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob@example-com"}, user.Friends)
}

func TestAddFriend_AlreadyPresent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, newTestUser("alice@example-com")))

	added, err := store.AddFriend(ctx, "alice@example-com", "bob@example-com")
	require.NoError(t, err)
	require.True(t, added)

	added, err = store.AddFriend(ctx, "alice@example-com", "bob@example-com")
	require.NoError(t, err)
	assert.False(t, added)

	user, err := store.GetUser(ctx, "alice@example-com")
	require.NoError(t, err)
	assert.Len(t, user.Friends, 1)
}

func TestAddFriend_UserNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.AddFriend(context.Background(), "ghost@example-com", "bob@example-com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRemoveFriend(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, newTestUser("alice@example-com")))
	_, err := store.AddFriend(ctx, "alice@example-com", "bob@example-com")
	require.NoError(t, err)
	_, err = store.AddFriend(ctx, "alice@example-com", "carol@example-com")
	require.NoError(t, err)

	require.NoError(t, store.RemoveFriend(ctx, "alice@example-com", "bob@example-com"))

	user, err := store.GetUser(ctx, "alice@example-com")
	require.NoError(t, err)
	assert.Equal(t, []string{"carol@example-com"}, user.Friends)

	// Removing a friend that is not on the list is a no-op
	require.NoError(t, store.RemoveFriend(ctx, "alice@example-com", "bob@example-com"))
}

func TestReconcileCurrentTrack_FirstPlay(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, newTestUser("alice@example-com")))

	track := newTestTrack("song1", "First Song")
	current, err := store.ReconcileCurrentTrack(ctx, "alice@example-com", track)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "song1", current.SongID)

	// Nothing archived yet
	history, err := store.GetHistory(ctx, "alice@example-com")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestReconcileCurrentTrack_SameSong(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, newTestUser("alice@example-com")))

	track := newTestTrack("song1", "First Song")
	_, err := store.ReconcileCurrentTrack(ctx, "alice@example-com", track)
	require.NoError(t, err)

	current, err := store.ReconcileCurrentTrack(ctx, "alice@example-com", newTestTrack("song1", "First Song"))
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "song1", current.SongID)

	history, err := store.GetHistory(ctx, "alice@example-com")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestReconcileCurrentTrack_SongChange(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, newTestUser("alice@example-com")))

	_, err := store.ReconcileCurrentTrack(ctx, "alice@example-com", newTestTrack("song1", "First Song"))
	require.NoError(t, err)

	current, err := store.ReconcileCurrentTrack(ctx, "alice@example-com", newTestTrack("song2", "Second Song"))
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "song2", current.SongID)

	// The displaced song landed in history
	history, err := store.GetHistory(ctx, "alice@example-com")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "song1", history[0].SongID)
}

func TestReconcileCurrentTrack_StopDiscards(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, newTestUser("alice@example-com")))

	_, err := store.ReconcileCurrentTrack(ctx, "alice@example-com", newTestTrack("song1", "First Song"))
	require.NoError(t, err)

	// Playback stopped: slot clears, the displaced track is not archived
	current, err := store.ReconcileCurrentTrack(ctx, "alice@example-com", nil)
	require.NoError(t, err)
	assert.Nil(t, current)

	user, err := store.GetUser(ctx, "alice@example-com")
	require.NoError(t, err)
	assert.Nil(t, user.CurrentTrack)

	history, err := store.GetHistory(ctx, "alice@example-com")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestReconcileCurrentTrack_ReplayDedup(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, newTestUser("alice@example-com")))

	// song1 -> song2 -> song1 -> song2 archives each song exactly once
	for _, id := range []string{"song1", "song2", "song1", "song2"} {
		_, err := store.ReconcileCurrentTrack(ctx, "alice@example-com", newTestTrack(id, "Song "+id))
		require.NoError(t, err)
	}

	history, err := store.GetHistory(ctx, "alice@example-com")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestReconcileCurrentTrack_UserNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.ReconcileCurrentTrack(context.Background(), "ghost@example-com", newTestTrack("song1", "Song"))
	assert.ErrorIs(t, err, ErrUserNotFound)
}
