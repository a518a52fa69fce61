package ports

import "crypto/rsa"

// KeyProvider supplies the key pair used by the encryption rules.
type KeyProvider interface {
	PublicKey() (*rsa.PublicKey, error)
	PrivateKey() (*rsa.PrivateKey, error)
}
