package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/spottem/spottem-server/internal/domain"
)

// CreateUser creates a new user keyed by its encoded email.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(userPrefix + user.Email)

	return s.db.Update(func(txn *badger.Txn) error {
		exists, err := txnExists(txn, key)
		if err != nil {
			return fmt.Errorf("check user exists: %w", err)
		}
		if exists {
			return ErrUserExists
		}
		return txnSetJSON(txn, key, user)
	})
}

// GetUser retrieves a user by encoded email.
func (s *Store) GetUser(ctx context.Context, encodedEmail string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user domain.User
	if err := s.get([]byte(userPrefix+encodedEmail), &user); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// UserExists reports whether a user with the encoded email exists.
func (s *Store) UserExists(ctx context.Context, encodedEmail string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.exists([]byte(userPrefix + encodedEmail))
}

// UpdateUser overwrites an existing user document.
// Returns ErrUserNotFound if the user does not exist.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(userPrefix + user.Email)
	user.Touch()

	return s.db.Update(func(txn *badger.Txn) error {
		exists, err := txnExists(txn, key)
		if err != nil {
			return fmt.Errorf("check user exists: %w", err)
		}
		if !exists {
			return ErrUserNotFound
		}
		return txnSetJSON(txn, key, user)
	})
}

// DeleteUser removes a user document. Idempotent.
func (s *Store) DeleteUser(ctx context.Context, encodedEmail string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(userPrefix + encodedEmail))
	})
}

// AddFriend appends the encoded friend email to the user's list in a single
// transaction. Returns false without writing when the friend is already
// present; ErrUserNotFound when the user does not exist.
func (s *Store) AddFriend(ctx context.Context, encodedEmail, encodedFriend string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	added := false
	err := s.db.Update(func(txn *badger.Txn) error {
		user, err := txnGetUser(txn, encodedEmail)
		if err != nil {
			return err
		}
		if user.HasFriend(encodedFriend) {
			return nil
		}
		user.Friends = append(user.Friends, encodedFriend)
		user.Touch()
		if err := txnSetJSON(txn, []byte(userPrefix+encodedEmail), user); err != nil {
			return err
		}
		added = true
		return nil
	})
	return added, err
}

// RemoveFriend drops the encoded friend email from the user's list.
// A missing friend entry is a no-op.
func (s *Store) RemoveFriend(ctx context.Context, encodedEmail, encodedFriend string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		user, err := txnGetUser(txn, encodedEmail)
		if err != nil {
			return err
		}
		if !user.HasFriend(encodedFriend) {
			return nil
		}
		user.RemoveFriend(encodedFriend)
		user.Touch()
		return txnSetJSON(txn, []byte(userPrefix+encodedEmail), user)
	})
}

// ReconcileCurrentTrack applies one poll result to the user's current-track
// slot as a single transaction and returns the resulting slot value.
//
// The transitions:
//   - polled nil              -> slot cleared, displaced track discarded
//   - slot empty              -> slot = polled
//   - same song still playing -> no-op
//   - different song          -> previous track archived to history
//     (deduplicated by song ID), slot = polled
//
// Badger detects write conflicts between concurrent transactions on the
// same user; the transaction is retried once on conflict so two pollers
// racing on one user cannot drop or duplicate a history row.
func (s *Store) ReconcileCurrentTrack(ctx context.Context, encodedEmail string, polled *domain.Track) (*domain.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var current *domain.Track
	reconcile := func(txn *badger.Txn) error {
		user, err := txnGetUser(txn, encodedEmail)
		if err != nil {
			return err
		}

		previous := user.CurrentTrack
		switch {
		case polled == nil:
			// Nothing playing now. The previous track is discarded,
			// not archived: retiring to history only happens when one
			// song displaces another.
			user.CurrentTrack = nil

		case previous == nil:
			user.CurrentTrack = polled

		case previous.SameSong(polled):
			// Same song still playing, do not re-retire it.
			current = previous
			return nil

		default:
			historyKey := []byte(songPrefix + encodedEmail + ":" + previous.SongID)
			exists, err := txnExists(txn, historyKey)
			if err != nil {
				return fmt.Errorf("check history row: %w", err)
			}
			if !exists {
				if err := txnSetJSON(txn, historyKey, previous); err != nil {
					return fmt.Errorf("archive previous track: %w", err)
				}
			}
			user.CurrentTrack = polled
		}

		user.Touch()
		if err := txnSetJSON(txn, []byte(userPrefix+encodedEmail), user); err != nil {
			return err
		}
		current = user.CurrentTrack
		return nil
	}

	err := s.db.Update(reconcile)
	if errors.Is(err, badger.ErrConflict) {
		err = s.db.Update(reconcile)
	}
	if err != nil {
		return nil, err
	}
	return current, nil
}

// txnGetUser loads a user inside an open transaction.
func txnGetUser(txn *badger.Txn, encodedEmail string) (*domain.User, error) {
	item, err := txn.Get([]byte(userPrefix + encodedEmail))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	var user domain.User
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &user)
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &user, nil
}
