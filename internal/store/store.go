// Package store persists subscriptions in badger, one JSON record per
// telegram id. Deletes are soft: the record stays with a tombstone and is
// skipped by Get and ListActive.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/makxca/monitorzd/internal/model"
)

var ErrNotFound = errors.New("subscription not found")

const keyPrefix = "sub:"

type Store struct {
	db *badger.DB

	now func() time.Time
}

// Open opens (or creates) the badger database at path.
func Open(path string) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("store: open badger at %s: %w", path, err)
	}
	return New(db), nil
}

func New(db *badger.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func subscriptionKey(telegramID string) []byte {
	return []byte(keyPrefix + telegramID)
}

// Upsert saves the filter as the owner's single subscription, overwriting
// any previous one and clearing a soft-delete tombstone. CreatedAt survives
// an overwrite. The write is atomic per key.
func (s *Store) Upsert(telegramID string, filter model.Filter) error {
	key := subscriptionKey(telegramID)

	err := s.db.Update(func(txn *badger.Txn) error {
		sub := model.Subscription{
			TelegramID: telegramID,
			Filter:     filter,
			CreatedAt:  s.now(),
		}

		item, err := txn.Get(key)
		switch {
		case err == nil:
			var existing model.Subscription
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &existing)
			}); err == nil && !existing.CreatedAt.IsZero() {
				sub.CreatedAt = existing.CreatedAt
			}
		case errors.Is(err, badger.ErrKeyNotFound):
			// first subscription for this id
		default:
			return err
		}

		data, err := json.Marshal(sub)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("store: upsert %s: %w", telegramID, err)
	}
	return nil
}

// Get returns the owner's active subscription. Soft-deleted records count
// as absent.
func (s *Store) Get(telegramID string) (model.Subscription, error) {
	var sub model.Subscription

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(subscriptionKey(telegramID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sub)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return model.Subscription{}, ErrNotFound
	}
	if err != nil {
		return model.Subscription{}, fmt.Errorf("store: get %s: %w", telegramID, err)
	}
	if sub.DeletedAt != nil {
		return model.Subscription{}, ErrNotFound
	}
	return sub, nil
}

// Delete tombstones the owner's subscription. Deleting an absent or already
// tombstoned record returns ErrNotFound.
func (s *Store) Delete(telegramID string) error {
	key := subscriptionKey(telegramID)

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		var sub model.Subscription
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sub)
		}); err != nil {
			return err
		}
		if sub.DeletedAt != nil {
			return badger.ErrKeyNotFound
		}

		deletedAt := s.now()
		sub.DeletedAt = &deletedAt

		data, err := json.Marshal(sub)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", telegramID, err)
	}
	return nil
}

// ListActive returns every non-tombstoned subscription.
func (s *Store) ListActive() ([]model.Subscription, error) {
	var subs []model.Subscription

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var sub model.Subscription
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &sub)
			})
			if err != nil {
				return err
			}
			if sub.DeletedAt != nil {
				continue
			}
			subs = append(subs, sub)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: list active: %w", err)
	}
	return subs, nil
}
