package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/spottem/spottem-server/internal/domain"
)

func sessionKey(id string) []byte {
	return []byte(sessionPrefix + id)
}

// CreateSession persists a session with a TTL so expired rows age out of
// the store on their own.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(sessionKey(session.ID), data).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}

// GetSession retrieves a session by ID. A session past its expiry is
// treated as missing even if Badger has not evicted it yet.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var session domain.Session
	if err := s.get(sessionKey(id), &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.IsExpired() {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// UpdateSession overwrites a session, keeping the TTL tied to its expiry.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	return s.CreateSession(ctx, session)
}

// DeleteSession removes a session. Idempotent.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(id))
	})
}
