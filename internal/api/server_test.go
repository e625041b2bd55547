package api

import (
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spottem/spottem-server/internal/auth"
	"github.com/spottem/spottem-server/internal/domain"
	"github.com/spottem/spottem-server/internal/service"
	"github.com/spottem/spottem-server/internal/spotify"
	"github.com/spottem/spottem-server/internal/store"
	"github.com/spottem/spottem-server/internal/validation"
)

// fakeProvider is a canned Spotify backend for handler tests.
type fakeProvider struct {
	track *domain.Track
}

func (f *fakeProvider) AuthorizeURL(state string) string {
	return "https://accounts.spotify.com/authorize?state=" + state
}

func (f *fakeProvider) Exchange(_ context.Context, code string) (*domain.Credential, error) {
	return &domain.Credential{
		AccessToken: "access_token",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeProvider) Profile(_ context.Context, _ string) (*spotify.Profile, error) {
	return &spotify.Profile{
		ID:          "spotify_alice",
		DisplayName: "Alice",
		Email:       "alice@example.com",
	}, nil
}

func (f *fakeProvider) CurrentTrack(_ context.Context, _ string) (*domain.Track, error) {
	return f.track, nil
}

// setupTestServer creates a test server with all dependencies.
func setupTestServer(t *testing.T) (*Server, *fakeProvider) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "spottem-api-test-*")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	})

	key := []byte("0123456789abcdef0123456789abcdef")
	tokens, err := auth.NewTokenService(key)
	require.NoError(t, err)

	provider := &fakeProvider{}
	validator := validation.New()

	users := service.NewUserService(st, validator, logger)
	services := &Services{
		Auth:      service.NewAuthService(st, provider, tokens, time.Hour, logger),
		Tracks:    service.NewTrackService(st, provider, validator, logger),
		Users:     users,
		Social:    service.NewSocialService(st, users, logger),
		Reactions: service.NewReactionService(st, validator, logger),
	}

	return NewServer(st, services, "http://localhost:3000/home", logger), provider
}

// loginTestUser runs the callback flow and returns the session cookie.
func loginTestUser(t *testing.T, server *Server) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/callback?code=test_code", nil)
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusFound, rec.Code)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == service.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("no session cookie set by callback")
	return nil
}

func decodeEnvelope(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.UnmarshalRead(body, &envelope))
	return envelope
}

func TestHealthCheck(t *testing.T) {
	server, _ := setupTestServer(t)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec.Body)
	assert.Equal(t, true, envelope["success"])
}

func TestLogin_ReturnsOAuthURL(t *testing.T) {
	server, _ := setupTestServer(t)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec.Body)
	data := envelope["data"].(map[string]any)
	assert.Contains(t, data["oauth_url"], "accounts.spotify.com/authorize")
}

func TestCallback_MissingCode(t *testing.T) {
	server, _ := setupTestServer(t)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallback_SetsCookieAndRedirects(t *testing.T) {
	server, _ := setupTestServer(t)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=abc", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:3000/home", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, service.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCurrentTrack_NoSession(t *testing.T) {
	server, _ := setupTestServer(t)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/current-track/alice@example-com", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCurrentTrack_PlayingAndStopped(t *testing.T) {
	server, provider := setupTestServer(t)
	cookie := loginTestUser(t, server)

	provider.track = &domain.Track{SongID: "song1", Name: "First Song"}

	req := httptest.NewRequest(http.MethodGet, "/current-track/alice@example-com", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec.Body)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "song1", data["song_id"])

	// Nothing playing: 204
	provider.track = nil
	req = httptest.NewRequest(http.MethodGet, "/current-track/alice@example-com", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPushCurrentTrack(t *testing.T) {
	server, _ := setupTestServer(t)
	cookie := loginTestUser(t, server)

	body := `{"song_id": "song9", "song_name": "Pushed Song"}`
	req := httptest.NewRequest(http.MethodPost, "/current-track/alice@example-com", strings.NewReader(body))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	// Null body clears the slot
	req = httptest.NewRequest(http.MethodPost, "/current-track/alice@example-com", strings.NewReader("null"))
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetUser_NotFound(t *testing.T) {
	server, _ := setupTestServer(t)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/ghost@example-com", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUser_Aggregate(t *testing.T) {
	server, _ := setupTestServer(t)
	loginTestUser(t, server)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/alice@example-com", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec.Body)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "Alice", data["name"])
	assert.Equal(t, "alice@example-com", data["email"])
}

func TestUpsertUser(t *testing.T) {
	server, _ := setupTestServer(t)

	body := `{"email": "bob@example.com", "name": "Bob"}`
	req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	// Same payload again is an update, not a create
	req = httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddFriend_CreatedAndNotCreated(t *testing.T) {
	server, _ := setupTestServer(t)
	loginTestUser(t, server)

	// Bob exists via upsert
	req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(`{"email": "bob@example.com", "name": "Bob"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	addFriend := func() int {
		req := httptest.NewRequest(http.MethodPost, "/user/friends/alice@example-com",
			strings.NewReader(`{"friend_email": "bob@example-com"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, addFriend())
	// Duplicate edge: not created
	assert.Equal(t, http.StatusNoContent, addFriend())
}

func TestSongHistory_EmptyIs404(t *testing.T) {
	server, _ := setupTestServer(t)
	loginTestUser(t, server)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/songs/alice@example-com", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSongHistory_AppendThenList(t *testing.T) {
	server, _ := setupTestServer(t)
	loginTestUser(t, server)

	body := `{"song_id": "song1", "song_name": "First Song"}`
	req := httptest.NewRequest(http.MethodPost, "/songs/alice@example-com", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/songs/alice@example-com", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec.Body)
	data := envelope["data"].(map[string]any)
	songs := data["songs"].([]any)
	require.Len(t, songs, 1)
}

func TestReactions_CreateListDelete(t *testing.T) {
	server, _ := setupTestServer(t)
	loginTestUser(t, server)

	// Bob exists and Alice has a song
	req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(`{"email": "bob@example.com", "name": "Bob"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/songs/alice@example-com",
		strings.NewReader(`{"song_id": "song1", "song_name": "First Song"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// No reactions yet
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reactions/alice@example-com/song1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Bob reacts
	react := func() int {
		req := httptest.NewRequest(http.MethodPost, "/reactions/alice@example-com/song1",
			strings.NewReader(`{"sender_email": "bob@example-com"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusCreated, react())
	// Idempotent repeat
	assert.Equal(t, http.StatusOK, react())

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reactions/alice@example-com/song1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// Delete the reaction
	req = httptest.NewRequest(http.MethodDelete, "/reactions/alice@example-com/song1",
		strings.NewReader(`{"sender_email": "bob@example-com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLogout(t *testing.T) {
	server, _ := setupTestServer(t)
	cookie := loginTestUser(t, server)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The session is gone now
	req = httptest.NewRequest(http.MethodGet, "/current-track/alice@example-com", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
