package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/textkit/pkg/domain"
	"github.com/aretw0/textkit/pkg/keystore"
	"github.com/aretw0/textkit/pkg/ports"
)

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.ResultCache
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts cached values
// using AES-GCM. Values no key can open read as cache misses, so rotated-out
// entries are recomputed instead of failing the pipeline.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != keystore.AESKeySize {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.ResultCache) ports.ResultCache {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Get(ctx context.Context, key string) (string, error) {
	stored, err := m.next.Get(ctx, key)
	if err != nil {
		return "", err
	}

	sealed, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("%w: entry is not encrypted", domain.ErrCacheMiss)
	}

	plain, err := openWithRotation(sealed, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCacheMiss, err)
	}
	return string(plain), nil
}

func (m *encryptionMiddleware) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	sealed, err := keystore.SealAES(m.config.ActiveKey, []byte(value))
	if err != nil {
		return fmt.Errorf("failed to encrypt value: %w", err)
	}
	return m.next.Set(ctx, key, base64.StdEncoding.EncodeToString(sealed), ttl)
}

func (m *encryptionMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func openWithRotation(sealed []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := keystore.OpenAES(activeKey, sealed); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := keystore.OpenAES(key, sealed); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}
