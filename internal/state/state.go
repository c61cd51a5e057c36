// Package state persists small process-wide key-value state across
// restarts, currently just the last username the user looked up.
package state

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketName      = []byte("app_state")
	keyLastUsername = []byte("last_username")
)

// Store is a tiny bbolt-backed key-value store.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the state file.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening state file: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the state file.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetLastUsername records the most recently searched username.
func (s *Store) SetLastUsername(username string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(keyLastUsername, []byte(username))
	})
}

// LastUsername returns the most recently searched username, or the empty
// string when none has been recorded yet.
func (s *Store) LastUsername() (string, error) {
	var username string
	err := s.db.View(func(tx *bolt.Tx) error {
		username = string(tx.Bucket(bucketName).Get(keyLastUsername))
		return nil
	})
	return username, err
}
