package keystore

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	// DefaultKeyBits is the RSA modulus size used when generating keys.
	DefaultKeyBits = 2048

	PrivateKeyFile = "private_key.pem"
	PublicKeyFile  = "public_key.pem"
)

// ErrKeysNotFound is returned when the key directory holds no key pair and
// generation is disabled.
var ErrKeysNotFound = errors.New("rsa key pair not found")

// FileStore keeps an RSA key pair as PEM files in a directory.
// Keys are loaded lazily and cached.
type FileStore struct {
	dir      string
	bits     int
	generate bool

	mu   sync.Mutex
	priv *rsa.PrivateKey
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithKeyBits sets the modulus size for generated keys.
func WithKeyBits(bits int) Option {
	return func(s *FileStore) {
		if bits > 0 {
			s.bits = bits
		}
	}
}

// WithAutoGenerate creates a key pair on first use when none exists.
func WithAutoGenerate(enabled bool) Option {
	return func(s *FileStore) {
		s.generate = enabled
	}
}

// NewFileStore returns a key store rooted at dir.
func NewFileStore(dir string, opts ...Option) *FileStore {
	s := &FileStore{dir: dir, bits: DefaultKeyBits, generate: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the key directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) PrivateKey() (*rsa.PrivateKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.priv != nil {
		return s.priv, nil
	}

	priv, err := s.load()
	if errors.Is(err, os.ErrNotExist) {
		if !s.generate {
			return nil, fmt.Errorf("%w in %s", ErrKeysNotFound, s.dir)
		}
		priv, err = s.create()
	}
	if err != nil {
		return nil, err
	}
	s.priv = priv
	return priv, nil
}

func (s *FileStore) PublicKey() (*rsa.PublicKey, error) {
	priv, err := s.PrivateKey()
	if err != nil {
		return nil, err
	}
	return &priv.PublicKey, nil
}

// Generate writes a fresh key pair, replacing any existing one.
func (s *FileStore) Generate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	priv, err := s.create()
	if err != nil {
		return err
	}
	s.priv = priv
	return nil
}

func (s *FileStore) load() (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, PrivateKeyFile))
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%s: no PEM block", PrivateKeyFile)
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		if k, err1 := x509.ParsePKCS1PrivateKey(block.Bytes); err1 == nil {
			return k, nil
		}
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%s: not an RSA key", PrivateKeyFile)
	}
	return priv, nil
}

func (s *FileStore) create() (*rsa.PrivateKey, error) {
	priv, err := rsa.GenerateKey(rand.Reader, s.bits)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil, err
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, err
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, err
	}

	if err := writePEM(filepath.Join(s.dir, PrivateKeyFile), "PRIVATE KEY", privDER, 0o600); err != nil {
		return nil, err
	}
	if err := writePEM(filepath.Join(s.dir, PublicKeyFile), "PUBLIC KEY", pubDER, 0o644); err != nil {
		return nil, err
	}
	return priv, nil
}

func writePEM(path, kind string, der []byte, perm os.FileMode) error {
	return os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: kind, Bytes: der}), perm)
}

// StaticKeys serves a fixed key pair, mainly for tests and embedding.
type StaticKeys struct {
	Key *rsa.PrivateKey
}

func (s StaticKeys) PrivateKey() (*rsa.PrivateKey, error) {
	if s.Key == nil {
		return nil, ErrKeysNotFound
	}
	return s.Key, nil
}

func (s StaticKeys) PublicKey() (*rsa.PublicKey, error) {
	if s.Key == nil {
		return nil, ErrKeysNotFound
	}
	return &s.Key.PublicKey, nil
}
