package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spottem/spottem-server/internal/domain"
	"github.com/spottem/spottem-server/internal/spotify"
	"github.com/spottem/spottem-server/internal/store"
	"github.com/spottem/spottem-server/internal/validation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "service-test-*")
	require.NoError(t, err)

	testStore, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = testStore.Close()
		_ = os.RemoveAll(tmpDir)
	})
	return testStore
}

func createTestUser(t *testing.T, s *store.Store, encodedEmail, displayName string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:       encodedEmail,
		DisplayName: displayName,
		SpotifyID:   "spotify_" + encodedEmail,
		Friends:     []string{},
	}
	user.InitTimestamps()
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

// stubSpotify is a canned provider: Exchange and Profile return fixed
// values, CurrentTrack plays back a queue of results.
type stubSpotify struct {
	credential *domain.Credential
	profile    *spotify.Profile
	exchange   error

	tracks []*domain.Track
	errs   []error
	calls  int
}

func (s *stubSpotify) AuthorizeURL(state string) string {
	return "https://accounts.spotify.com/authorize?state=" + state
}

func (s *stubSpotify) Exchange(ctx context.Context, code string) (*domain.Credential, error) {
	if s.exchange != nil {
		return nil, s.exchange
	}
	return s.credential, nil
}

func (s *stubSpotify) Profile(ctx context.Context, accessToken string) (*spotify.Profile, error) {
	return s.profile, nil
}

func (s *stubSpotify) CurrentTrack(ctx context.Context, accessToken string) (*domain.Track, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.tracks) {
		return s.tracks[i], nil
	}
	return nil, nil
}

func testValidator() *validation.Validator {
	return validation.New()
}
