package store

import (
	"context"
	"encoding/json/v2"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/spottem/spottem-server/internal/domain"
)

// CreateHistory appends a track to the user's permanent history.
// History rows are keyed by (user, song ID); a row that already exists is
// left untouched and the call reports created=false.
func (s *Store) CreateHistory(ctx context.Context, encodedEmail string, track *domain.Track) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	key := []byte(songPrefix + encodedEmail + ":" + track.SongID)
	created := false

	err := s.db.Update(func(txn *badger.Txn) error {
		exists, err := txnExists(txn, key)
		if err != nil {
			return fmt.Errorf("check history row: %w", err)
		}
		if exists {
			return nil
		}
		if err := txnSetJSON(txn, key, track); err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// GetHistory returns all history rows for a user.
func (s *Store) GetHistory(ctx context.Context, encodedEmail string) ([]*domain.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(songPrefix + encodedEmail + ":")
	var tracks []*domain.Track

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var track domain.Track
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &track)
			})
			if err != nil {
				return fmt.Errorf("unmarshal history row: %w", err)
			}
			tracks = append(tracks, &track)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return tracks, nil
}

// HistoryExists reports whether the user has at least one history row.
func (s *Store) HistoryExists(ctx context.Context, encodedEmail string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	prefix := []byte(songPrefix + encodedEmail + ":")
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(prefix)
		found = it.ValidForPrefix(prefix)
		return nil
	})

	return found, err
}

// DeleteAllHistory removes every history row for a user.
func (s *Store) DeleteAllHistory(ctx context.Context, encodedEmail string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prefix := []byte(songPrefix + encodedEmail + ":")

	return s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}

		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("delete history row: %w", err)
			}
		}
		return nil
	})
}
