package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
)

// AESKeySize is the size of the per-message AES-256 key.
const AESKeySize = 32

// ErrCiphertextTooShort is returned when a sealed payload is truncated.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Encrypt seals plaintext with a fresh AES-256-GCM key and wraps that key
// with RSA-OAEP (SHA-256). The result is wrappedKey || nonce || ciphertext.
func Encrypt(pub *rsa.PublicKey, plaintext []byte) ([]byte, error) {
	key := make([]byte, AESKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}

	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, key, nil)
	if err != nil {
		return nil, fmt.Errorf("wrap key: %w", err)
	}

	sealed, err := SealAES(key, plaintext)
	if err != nil {
		return nil, err
	}
	return append(wrapped, sealed...), nil
}

// Decrypt reverses Encrypt.
func Decrypt(priv *rsa.PrivateKey, payload []byte) ([]byte, error) {
	n := priv.Size()
	if len(payload) < n {
		return nil, ErrCiphertextTooShort
	}

	key, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, payload[:n], nil)
	if err != nil {
		return nil, fmt.Errorf("unwrap key: %w", err)
	}
	return OpenAES(key, payload[n:])
}

// SealAES encrypts with AES-GCM and prefixes the random nonce.
func SealAES(key, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// OpenAES decrypts a payload produced by SealAES.
func OpenAES(key, sealed []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, body := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
