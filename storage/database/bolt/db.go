package boltdb

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/lowkey/studybuddy/core"
)

var storesBucket = []byte("stores")

// DB keeps every store record under its ID in a single bbolt bucket.
type DB struct {
	db *bbolt.DB
}

var _ core.Backend = (*DB)(nil) // interface compliance check

// Open opens (or creates) the bbolt file at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data directory")
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(storesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating bucket")
	}
	return &DB{db: db}, nil
}

func (s *DB) Load(id core.StoreID) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(storesBucket)
		if b == nil {
			return errors.Errorf("bucket %s not found", storesBucket)
		}
		if v := b.Get([]byte(id)); v != nil {
			out = append([]byte(nil), v...) // v is only valid during the transaction
		}
		return nil
	})
	return out, err
}

// Save replaces the record inside a single write transaction.
func (s *DB) Save(id core.StoreID, data []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(storesBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), data)
	})
}

func (s *DB) Close() error {
	return s.db.Close()
}
