package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spottem/spottem-server/internal/domain"
	domainerrors "github.com/spottem/spottem-server/internal/errors"
	"github.com/spottem/spottem-server/internal/store"
	"github.com/spottem/spottem-server/internal/validation"
)

// ReactionService manages reactions left on songs in a user's history.
type ReactionService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewReactionService creates a new reaction service.
func NewReactionService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *ReactionService {
	return &ReactionService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateReactionRequest identifies who is reacting to whose song. Emails
// arrive encoded from the URL path and cookie; display names and song
// metadata are resolved server-side.
type CreateReactionRequest struct {
	RecipientEmail string `json:"email" validate:"required"`
	SenderEmail    string `json:"sender_email" validate:"required"`
	SongID         string `json:"song_id" validate:"required"`
}

// Create stores a reaction, denormalizing display names and song metadata
// so the row renders standalone. Idempotent per (recipient, sender, song):
// a repeat reports created=false and returns the request's shape unchanged.
func (s *ReactionService) Create(ctx context.Context, req *CreateReactionRequest) (bool, *domain.Reaction, error) {
	if err := s.validator.Validate(req); err != nil {
		return false, nil, err
	}

	recipient, err := s.store.GetUser(ctx, req.RecipientEmail)
	if err != nil {
		return false, nil, err
	}
	sender, err := s.store.GetUser(ctx, req.SenderEmail)
	if err != nil {
		return false, nil, err
	}

	track, err := s.resolveSong(ctx, recipient, req.SongID)
	if err != nil {
		return false, nil, err
	}

	reaction := &domain.Reaction{
		RecipientEmail: recipient.Email,
		RecipientName:  recipient.DisplayName,
		SenderEmail:    sender.Email,
		SenderName:     sender.DisplayName,
		SongID:         track.SongID,
		SongName:       track.Name,
		SongArtists:    track.Artists,
		SongAlbum:      track.Album,
		SongURL:        track.URL,
		SongImageURL:   track.ImageURL,
		Timestamp:      time.Now(),
	}

	created, err := s.store.CreateReaction(ctx, reaction)
	if err != nil {
		return false, nil, err
	}
	return created, reaction, nil
}

// resolveSong finds the song being reacted to: the recipient's history
// first, then their current track.
func (s *ReactionService) resolveSong(ctx context.Context, recipient *domain.User, songID string) (*domain.Track, error) {
	history, err := s.store.GetHistory(ctx, recipient.Email)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	for _, track := range history {
		if track.SongID == songID {
			return track, nil
		}
	}
	if recipient.CurrentTrack != nil && recipient.CurrentTrack.SongID == songID {
		return recipient.CurrentTrack, nil
	}
	return nil, domainerrors.NotFoundf("song %s not found for user %s", songID, recipient.Email)
}

// List returns the reactions on one song of a recipient.
func (s *ReactionService) List(ctx context.Context, encodedRecipient, songID string) ([]*domain.Reaction, error) {
	return s.store.GetReactions(ctx, encodedRecipient, songID)
}

// ListAll returns every reaction in the system.
func (s *ReactionService) ListAll(ctx context.Context) ([]*domain.Reaction, error) {
	return s.store.GetAllReactions(ctx)
}

// Delete removes a sender's reaction to a recipient's song.
func (s *ReactionService) Delete(ctx context.Context, encodedRecipient, encodedSender, songID string) error {
	return s.store.DeleteReaction(ctx, encodedRecipient, encodedSender, songID)
}
