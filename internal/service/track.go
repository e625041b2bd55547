package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/spottem/spottem-server/internal/domain"
	"github.com/spottem/spottem-server/internal/store"
	"github.com/spottem/spottem-server/internal/validation"
)

// TrackService keeps each user's current-track slot in sync with what the
// provider reports and retires displaced tracks to history.
type TrackService struct {
	store     *store.Store
	spotify   SpotifyClient
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTrackService creates a new track service.
func NewTrackService(store *store.Store, spotifyClient SpotifyClient, validator *validation.Validator, logger *slog.Logger) *TrackService {
	return &TrackService{
		store:     store,
		spotify:   spotifyClient,
		validator: validator,
		logger:    logger,
	}
}

// Poll asks the provider what is playing for the given credential and
// reconciles the user's slot with the answer. Returns the resulting slot
// value; nil means nothing is playing.
func (s *TrackService) Poll(ctx context.Context, encodedEmail, accessToken string) (*domain.Track, error) {
	polled, err := s.spotify.CurrentTrack(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return s.store.ReconcileCurrentTrack(ctx, encodedEmail, polled)
}

// TrackPayload is a client-reported track for the push variant of the
// current-track endpoint.
type TrackPayload struct {
	SongID     string `json:"song_id" validate:"required"`
	Name       string `json:"song_name" validate:"required"`
	Artists    string `json:"song_artists" required:"false"`
	Album      string `json:"song_album" required:"false"`
	URL        string `json:"song_url" required:"false"`
	ImageURL   string `json:"song_image_url" required:"false"`
	PreviewURL string `json:"preview_url" required:"false"`
}

// Push reconciles the slot from a client-reported track instead of a
// provider poll. A nil payload clears the slot, exactly like a poll that
// found nothing playing.
func (s *TrackService) Push(ctx context.Context, encodedEmail string, payload *TrackPayload) (*domain.Track, error) {
	var polled *domain.Track
	if payload != nil {
		if err := s.validator.Validate(payload); err != nil {
			return nil, err
		}
		polled = payload.toTrack()
	}
	return s.store.ReconcileCurrentTrack(ctx, encodedEmail, polled)
}

// History returns the user's archived tracks.
func (s *TrackService) History(ctx context.Context, encodedEmail string) ([]*domain.Track, error) {
	if _, err := s.store.GetUser(ctx, encodedEmail); err != nil {
		return nil, err
	}
	return s.store.GetHistory(ctx, encodedEmail)
}

// AppendHistory adds a track straight to history, bypassing the slot.
// Idempotent per song ID; reports whether a row was written.
func (s *TrackService) AppendHistory(ctx context.Context, encodedEmail string, payload *TrackPayload) (bool, error) {
	if err := s.validator.Validate(payload); err != nil {
		return false, err
	}
	if _, err := s.store.GetUser(ctx, encodedEmail); err != nil {
		return false, err
	}
	return s.store.CreateHistory(ctx, encodedEmail, payload.toTrack())
}

func (p *TrackPayload) toTrack() *domain.Track {
	return &domain.Track{
		SongID:     p.SongID,
		Name:       p.Name,
		Artists:    p.Artists,
		Album:      p.Album,
		URL:        p.URL,
		ImageURL:   p.ImageURL,
		PreviewURL: p.PreviewURL,
		Timestamp:  time.Now(),
	}
}
