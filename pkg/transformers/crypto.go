package transformers

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aretw0/textkit/pkg/domain"
	"github.com/aretw0/textkit/pkg/keystore"
	"github.com/aretw0/textkit/pkg/ports"
)

// NewCrypto returns the hybrid RSA/AES encryption rules backed by keys.
func NewCrypto(keys ports.KeyProvider) *Family {
	return NewFamily("crypto",
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "enc",
				Description: "Encrypt text with RSA-OAEP wrapped AES-256-GCM (Base64 output)",
				Example:     "'secret' -> 'kX9...=='",
				Category:    domain.CategoryEncryption,
				NoCache:     true,
			},
			Apply: fallible(func(s string) (string, error) {
				pub, err := keys.PublicKey()
				if err != nil {
					return "", fmt.Errorf("load public key: %w", err)
				}
				payload, err := keystore.Encrypt(pub, []byte(s))
				if err != nil {
					return "", err
				}
				return base64.StdEncoding.EncodeToString(payload), nil
			}),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "dec",
				Description: "Decrypt text produced by enc",
				Example:     "'kX9...==' -> 'secret'",
				Category:    domain.CategoryEncryption,
				NoCache:     true,
			},
			Apply: fallible(func(s string) (string, error) {
				priv, err := keys.PrivateKey()
				if err != nil {
					return "", fmt.Errorf("load private key: %w", err)
				}
				payload, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(s), ""))
				if err != nil {
					return "", fmt.Errorf("invalid base64: %w", err)
				}
				plain, err := keystore.Decrypt(priv, payload)
				if err != nil {
					return "", fmt.Errorf("decrypt: %w", err)
				}
				return string(plain), nil
			}),
		},
	)
}
