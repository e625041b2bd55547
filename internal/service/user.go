package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spottem/spottem-server/internal/domain"
	"github.com/spottem/spottem-server/internal/emailkey"
	domainerrors "github.com/spottem/spottem-server/internal/errors"
	"github.com/spottem/spottem-server/internal/store"
	"github.com/spottem/spottem-server/internal/validation"
)

// UserService assembles the full user view served to clients.
type UserService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *UserService {
	return &UserService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// SongWithReactions is one history row with every reaction it drew.
type SongWithReactions struct {
	domain.Track
	Reactions []*domain.Reaction `json:"reactions"`
}

// UserAggregate is the complete user view: profile, current track, and the
// full history with reactions attached per song.
type UserAggregate struct {
	domain.User
	Songs []SongWithReactions `json:"songs"`
}

// Aggregate loads a user and expands their history with reactions.
func (s *UserService) Aggregate(ctx context.Context, encodedEmail string) (*UserAggregate, error) {
	user, err := s.store.GetUser(ctx, encodedEmail)
	if err != nil {
		return nil, err
	}

	history, err := s.store.GetHistory(ctx, encodedEmail)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	songs := make([]SongWithReactions, 0, len(history))
	for _, track := range history {
		reactions, err := s.store.GetReactions(ctx, encodedEmail, track.SongID)
		if err != nil {
			return nil, fmt.Errorf("load reactions for song %s: %w", track.SongID, err)
		}
		if reactions == nil {
			reactions = []*domain.Reaction{}
		}
		songs = append(songs, SongWithReactions{Track: *track, Reactions: reactions})
	}

	return &UserAggregate{User: *user, Songs: songs}, nil
}

// UpsertRequest is a client-supplied user document.
type UpsertRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"name" validate:"required"`
	SpotifyID   string `json:"user_id" required:"false"`
	PictureURL  string `json:"user_pic" required:"false"`
}

// Upsert creates or refreshes a user from a client payload. Returns true
// when the user was created rather than updated.
func (s *UserService) Upsert(ctx context.Context, req *UpsertRequest) (bool, *domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return false, nil, err
	}

	encodedEmail := emailkey.Encode(req.Email)

	user, err := s.store.GetUser(ctx, encodedEmail)
	if err != nil {
		if !domainerrors.Is(err, store.ErrUserNotFound) {
			return false, nil, err
		}
		user = &domain.User{
			Email:       encodedEmail,
			DisplayName: req.DisplayName,
			SpotifyID:   req.SpotifyID,
			PictureURL:  req.PictureURL,
			Friends:     []string{},
		}
		user.InitTimestamps()
		if err := s.store.CreateUser(ctx, user); err != nil {
			return false, nil, err
		}
		return true, user, nil
	}

	user.DisplayName = req.DisplayName
	if req.SpotifyID != "" {
		user.SpotifyID = req.SpotifyID
	}
	if req.PictureURL != "" {
		user.PictureURL = req.PictureURL
	}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return false, nil, err
	}
	return false, user, nil
}

// Delete removes a user together with their history.
func (s *UserService) Delete(ctx context.Context, encodedEmail string) error {
	if err := s.store.DeleteAllHistory(ctx, encodedEmail); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	return s.store.DeleteUser(ctx, encodedEmail)
}
