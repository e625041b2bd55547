package store

import (
	"context"
	"encoding/json/v2"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/spottem/spottem-server/internal/domain"
)

// reactionKey builds the key for one (recipient, sender, song) triple.
func reactionKey(encodedRecipient, encodedSender, songID string) []byte {
	return []byte(reactionPrefix + encodedRecipient + ":" + encodedSender + ":" + songID)
}

// CreateReaction stores a reaction, keyed by its (recipient, sender, song)
// triple. A reaction that already exists for the triple is left untouched
// and the call reports created=false.
func (s *Store) CreateReaction(ctx context.Context, reaction *domain.Reaction) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	key := reactionKey(reaction.RecipientEmail, reaction.SenderEmail, reaction.SongID)
	created := false

	err := s.db.Update(func(txn *badger.Txn) error {
		exists, err := txnExists(txn, key)
		if err != nil {
			return fmt.Errorf("check reaction: %w", err)
		}
		if exists {
			return nil
		}
		if err := txnSetJSON(txn, key, reaction); err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// GetReactions returns all reactions on one song of a recipient.
func (s *Store) GetReactions(ctx context.Context, encodedRecipient, songID string) ([]*domain.Reaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Keys are reaction:<recipient>:<sender>:<songID>, so matching one
	// song means scanning the recipient's range and filtering.
	prefix := []byte(reactionPrefix + encodedRecipient + ":")
	var reactions []*domain.Reaction

	err := s.scanReactions(prefix, func(r *domain.Reaction) {
		if r.SongID == songID {
			reactions = append(reactions, r)
		}
	})
	if err != nil {
		return nil, err
	}
	return reactions, nil
}

// GetAllReactions returns every reaction in the system.
func (s *Store) GetAllReactions(ctx context.Context) ([]*domain.Reaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var reactions []*domain.Reaction
	err := s.scanReactions([]byte(reactionPrefix), func(r *domain.Reaction) {
		reactions = append(reactions, r)
	})
	if err != nil {
		return nil, err
	}
	return reactions, nil
}

// ReactionExists reports whether any reaction exists for a recipient's song.
func (s *Store) ReactionExists(ctx context.Context, encodedRecipient, songID string) (bool, error) {
	reactions, err := s.GetReactions(ctx, encodedRecipient, songID)
	if err != nil {
		return false, err
	}
	return len(reactions) > 0, nil
}

// DeleteReaction removes a sender's reaction to a recipient's song. Idempotent.
func (s *Store) DeleteReaction(ctx context.Context, encodedRecipient, encodedSender, songID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(reactionKey(encodedRecipient, encodedSender, songID))
	})
}

// scanReactions iterates a reaction key range and yields each row.
func (s *Store) scanReactions(prefix []byte, yield func(*domain.Reaction)) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var reaction domain.Reaction
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &reaction)
			})
			if err != nil {
				return fmt.Errorf("unmarshal reaction: %w", err)
			}
			yield(&reaction)
		}
		return nil
	})
}
