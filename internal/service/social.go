package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spottem/spottem-server/internal/store"
)

// SocialService manages the directed friend graph. An edge only exists on
// the side that requested it; there is no reciprocal add.
type SocialService struct {
	store  *store.Store
	users  *UserService
	logger *slog.Logger
}

// NewSocialService creates a new social service.
func NewSocialService(store *store.Store, users *UserService, logger *slog.Logger) *SocialService {
	return &SocialService{
		store:  store,
		users:  users,
		logger: logger,
	}
}

// AddFriend appends the friend to the user's list. Returns false without
// error when the friend is unknown or already present; the caller turns
// that into a not-created response. An unknown user is an error.
func (s *SocialService) AddFriend(ctx context.Context, encodedEmail, encodedFriend string) (bool, error) {
	exists, err := s.store.UserExists(ctx, encodedFriend)
	if err != nil {
		return false, fmt.Errorf("check friend exists: %w", err)
	}
	if !exists {
		s.logger.Debug("friend request for unknown user", "friend", encodedFriend)
		return false, nil
	}

	added, err := s.store.AddFriend(ctx, encodedEmail, encodedFriend)
	if err != nil {
		return false, err
	}
	if added {
		s.logger.Info("friend added", "user", encodedEmail, "friend", encodedFriend)
	}
	return added, nil
}

// RemoveFriend drops the friend edge. Removing an absent edge is a no-op.
func (s *SocialService) RemoveFriend(ctx context.Context, encodedEmail, encodedFriend string) error {
	return s.store.RemoveFriend(ctx, encodedEmail, encodedFriend)
}

// ListFriends expands each of the user's friends to a full aggregate, so
// the feed can render current tracks and reactions in one request. Friends
// that no longer resolve are skipped rather than failing the whole list.
func (s *SocialService) ListFriends(ctx context.Context, encodedEmail string) ([]*UserAggregate, error) {
	user, err := s.store.GetUser(ctx, encodedEmail)
	if err != nil {
		return nil, err
	}

	friends := make([]*UserAggregate, 0, len(user.Friends))
	for _, friend := range user.Friends {
		aggregate, err := s.users.Aggregate(ctx, friend)
		if err != nil {
			s.logger.Warn("skipping unresolvable friend", "user", encodedEmail, "friend", friend, "error", err)
			continue
		}
		friends = append(friends, aggregate)
	}
	return friends, nil
}
