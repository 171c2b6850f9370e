// Package replaystore persists the anti-replay counter in a single-bucket
// bbolt database file, giving the orchestrator's "externally serialized
// persisted counter" a durable, crash-safe backing store. bbolt's
// single-writer transaction model is exactly the external serialization the
// orchestrator already requires of its caller.
package replaystore

import (
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"
)

var bucketName = []byte("replay")
var replayKey = []byte("replay_id")

// Store wraps a bbolt database file holding a single persisted replay id.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if necessary) the bbolt file at path and ensures the
// replay bucket exists.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("replaystore: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("replaystore: create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// RetrieveReplayId returns the persisted replay id, or 0 if none has ever
// been stored.
func (s *Store) RetrieveReplayId() (uint64, error) {
	var id uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketName).Get(replayKey)
		if v == nil {
			return nil
		}
		if len(v) != 8 {
			return fmt.Errorf("replaystore: corrupt replay id record, len=%d", len(v))
		}
		id = binary.BigEndian.Uint64(v)
		return nil
	})
	return id, err
}

// StoreReplayId persists a new replay id, overwriting any previous value.
func (s *Store) StoreReplayId(id uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put(replayKey, buf)
	})
}
