package kv

import (
	"context"
	"fmt"
)

// Store is a string-keyed persistent store with get/set semantics.
type Store interface {
	// Get returns the value stored under key. ok is false when the key has
	// never been written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is the database file for bolt and sqlite.
	Path string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	S3Endpoint  string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool
	S3Prefix    string

	// SealKey, when set, encrypts every value with a key derived from it.
	SealKey string
}

// Open builds the backend described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		store Store
		err   error
	)

	switch opts.Backend {
	case "", BackendBolt:
		store, err = NewBolt(opts.Path)
	case BackendSQLite:
		store, err = NewSQLite(opts.Path)
	case BackendRedis:
		store, err = DialRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
	case BackendS3:
		store, err = DialS3(ctx, S3Options{
			Endpoint:  opts.S3Endpoint,
			Bucket:    opts.S3Bucket,
			AccessKey: opts.S3AccessKey,
			SecretKey: opts.S3SecretKey,
			UseSSL:    opts.S3UseSSL,
			Prefix:    opts.S3Prefix,
		})
	case BackendMemory:
		store = NewMemory()
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}

	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", opts.Backend, err)
	}

	if opts.SealKey != "" {
		sealed, err := NewSealed(store, opts.SealKey)
		if err != nil {
			_ = store.Close()
			return nil, err
		}

		return sealed, nil
	}

	return store, nil
}
