package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const boltBucketRecords = "records" // key: store key -> raw value

// Bolt is a Store backed by a BoltDB file.
type Bolt struct {
	storage *bbolt.DB
}

// NewBolt opens (creating if needed) the Bolt database at path.
func NewBolt(path string) (*Bolt, error) {
	if path == "" {
		return nil, errors.New("bolt path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	instance, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketRecords))
		return err
	}); err != nil {
		_ = instance.Close()

		return nil, err
	}

	return &Bolt{storage: instance}, nil
}

func (b *Bolt) Get(_ context.Context, key string) ([]byte, bool, error) {
	var (
		out []byte
		ok  bool
	)

	err := b.storage.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(boltBucketRecords)).Get([]byte(key))
		if v == nil {
			return nil
		}

		// v is only valid for the life of the transaction.
		out = append([]byte(nil), v...)
		ok = true

		return nil
	})

	return out, ok, err
}

func (b *Bolt) Set(_ context.Context, key string, value []byte) error {
	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketRecords)).Put([]byte(key), value)
	})
}

// Close closes the database.
func (b *Bolt) Close() error {
	return b.storage.Close()
}
