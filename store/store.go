// Package store persists tank snapshots to an on-disk bolt database so a
// simulation can pick up where the previous run left off.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	bolt "github.com/coreos/bbolt"

	"fishtank/shared"
)

var (
	snapshotBucket = []byte("snapshots")
	latestKey      = []byte("latest")
)

// ErrNoSnapshot indicates no snapshot has been saved yet.
var ErrNoSnapshot = errors.New("store: no snapshot saved")

// Store is a snapshot store backed by a bolt database file.
type Store struct {
	db     *bolt.DB
	logger *log.Logger
}

// Open opens (or creates) the snapshot database at the given path.
func Open(path string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Default()
	}

	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot bucket: %w", err)
	}

	logger.Printf("Snapshot store opened at %s", path)
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the snapshot as the latest tank state.
func (s *Store) Save(snap shared.TankSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(snapshotBucket).Put(latestKey, data)
	})
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	s.logger.Printf("Saved tank snapshot after round %d", snap.Rounds)
	return nil
}

// Latest returns the most recently saved snapshot, or ErrNoSnapshot if
// nothing has been saved.
func (s *Store) Latest() (shared.TankSnapshot, error) {
	var snap shared.TankSnapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(snapshotBucket).Get(latestKey)
		if data == nil {
			return ErrNoSnapshot
		}
		return json.Unmarshal(data, &snap)
	})
	if err != nil {
		return shared.TankSnapshot{}, err
	}
	return snap, nil
}
