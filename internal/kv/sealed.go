package kv

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const sealInfo = "fixedphrase kv seal v1"

// Sealed encrypts values before handing them to the wrapped Store.
// Each value is XChaCha20-Poly1305 sealed with the key name as associated
// data, so a value copied under another key fails to open.
type Sealed struct {
	inner Store
	aead  cipher.AEAD
}

// NewSealed derives a 256-bit key from secret and wraps inner.
func NewSealed(inner Store, secret string) (*Sealed, error) {
	if secret == "" {
		return nil, errors.New("seal key is required")
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(sealInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive seal key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	return &Sealed{inner: inner, aead: aead}, nil
}

func (s *Sealed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, false, fmt.Errorf("sealed value for %q is too short", key)
	}

	plain, err := s.aead.Open(nil, data[:nonceSize], data[nonceSize:], []byte(key))
	if err != nil {
		return nil, false, fmt.Errorf("failed to open sealed value for %q: %w", key, err)
	}

	return plain, true, nil
}

func (s *Sealed) Set(ctx context.Context, key string, value []byte) error {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(value)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	return s.inner.Set(ctx, key, s.aead.Seal(nonce, nonce, value, []byte(key)))
}

func (s *Sealed) Close() error {
	return s.inner.Close()
}
