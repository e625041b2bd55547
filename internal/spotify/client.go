// Package spotify is a thin typed client for the Spotify Web API surface
// Spottem needs: the authorization-code flow, the currently-playing player
// endpoint, and the profile endpoint.
package spotify

import (
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/spottem/spottem-server/internal/config"
	"github.com/spottem/spottem-server/internal/domain"
	domainerrors "github.com/spottem/spottem-server/internal/errors"
	"github.com/spottem/spottem-server/internal/ratelimit"
)

const (
	authURL    = "https://accounts.spotify.com/authorize"
	tokenURL   = "https://accounts.spotify.com/api/token"
	apiBaseURL = "https://api.spotify.com/v1"

	defaultTimeout = 10 * time.Second

	// Outbound limit per user. The player endpoint is polled on every
	// current-track read, so keep a ceiling well under Spotify's budget.
	defaultRPS   = 5.0
	defaultBurst = 10
)

// Scopes requested at login. user-read-currently-playing is the one the
// reconciler depends on; the rest feed the profile upsert.
var scopes = []string{
	"user-read-private",
	"user-read-email",
	"user-read-currently-playing",
	"user-library-read",
}

// Client is a Spotify Web API client bound to one developer application.
type Client struct {
	oauth   *oauth2.Config
	http    *http.Client
	limiter *ratelimit.KeyedLimiter
	logger  *slog.Logger
	baseURL string
}

// New creates a Spotify client from the application credentials.
func New(cfg config.SpotifyConfig, logger *slog.Logger) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
		baseURL: apiBaseURL,
	}
}

// AuthorizeURL returns the authorization URL the browser is sent to at login.
func (c *Client) AuthorizeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for a credential at the token
// endpoint. There is no refresh handling here; an expired access token
// later surfaces as an ordinary provider rejection.
func (c *Client) Exchange(ctx context.Context, code string) (*domain.Credential, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeTokenExchange, "token exchange failed")
	}

	return &domain.Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}, nil
}

// CurrentTrack polls the player endpoint and maps the response to a Track.
//
// A nil Track with a nil error means "nothing playing": 204, any non-200
// status, and a 200 with a null item all land there. Transport failures and
// malformed 200 bodies are provider errors instead, so callers can tell
// "nothing playing" from "could not check".
func (c *Client) CurrentTrack(ctx context.Context, accessToken string) (*domain.Track, error) {
	status, body, err := c.get(ctx, "/me/player/currently-playing", accessToken)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNoContent {
		return nil, nil
	}
	if status != http.StatusOK {
		c.logger.Debug("player endpoint returned non-200", "status", status)
		return nil, nil
	}

	var playing currentlyPlaying
	if err := json.Unmarshal(body, &playing); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeProvider, "malformed currently-playing response")
	}
	if playing.Item == nil {
		return nil, nil
	}
	if playing.Item.ID == "" || playing.Item.Name == "" {
		return nil, domainerrors.Provider("currently-playing item missing required fields")
	}

	return mapTrack(playing.Item), nil
}

// Profile fetches the authenticated user's profile. Any rejection status
// maps to (nil, nil); only transport failures and malformed success bodies
// are errors.
func (c *Client) Profile(ctx context.Context, accessToken string) (*Profile, error) {
	status, body, err := c.get(ctx, "/me", accessToken)
	if err != nil {
		return nil, err
	}
	if status >= http.StatusBadRequest {
		c.logger.Debug("profile endpoint rejected token", "status", status)
		return nil, nil
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeProvider, "malformed profile response")
	}
	if profile.ID == "" {
		return nil, domainerrors.Provider("profile response missing id")
	}
	return &profile, nil
}

// get executes an authenticated GET and returns the status and body.
func (c *Client) get(ctx context.Context, path, accessToken string) (int, []byte, error) {
	// One bucket per token, so each user is throttled independently.
	if err := c.limiter.Wait(ctx, accessToken); err != nil {
		return 0, nil, domainerrors.Wrap(err, domainerrors.CodeProvider, "rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, domainerrors.Wrap(err, domainerrors.CodeProvider, "create request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, domainerrors.Wrap(err, domainerrors.CodeProvider, "spotify request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, domainerrors.Wrap(err, domainerrors.CodeProvider, "read spotify response")
	}
	return resp.StatusCode, body, nil
}

// mapTrack converts a raw player item to the canonical Track, stamped now.
func mapTrack(item *Track) *domain.Track {
	names := make([]string, 0, len(item.Artists))
	for _, a := range item.Artists {
		names = append(names, a.Name)
	}

	imageURL := ""
	if len(item.Album.Images) > 0 {
		imageURL = item.Album.Images[0].URL
	}

	return &domain.Track{
		SongID:     item.ID,
		Name:       item.Name,
		Artists:    strings.Join(names, ", "),
		Album:      item.Album.Name,
		URL:        item.ExternalURLs.Spotify,
		ImageURL:   imageURL,
		PreviewURL: item.PreviewURL,
		Timestamp:  time.Now(),
	}
}
