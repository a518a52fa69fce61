package transformers

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/aretw0/textkit/pkg/domain"
)

// NewHash returns the digest and Base64 rules.
func NewHash() *Family {
	return NewFamily("hash",
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "sha256",
				Description: "Generate SHA-256 hash (hex)",
				Example:     "'hello' -> '2cf24dba...'",
				Category:    domain.CategoryEncryption,
			},
			Apply: noArgs(func(s string) string {
				sum := sha256.Sum256([]byte(s))
				return hex.EncodeToString(sum[:])
			}),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "b64e",
				Description: "Encode text to Base64",
				Example:     "'hello' -> 'aGVsbG8='",
				Category:    domain.CategoryEncryption,
			},
			Apply: noArgs(func(s string) string {
				return base64.StdEncoding.EncodeToString([]byte(s))
			}),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "b64d",
				Description: "Decode Base64 text",
				Example:     "'aGVsbG8=' -> 'hello'",
				Category:    domain.CategoryEncryption,
			},
			Apply: fallible(decodeBase64),
		},
	)
}

func decodeBase64(s string) (string, error) {
	s = strings.Join(strings.Fields(s), "")
	out, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// Accept unpadded input.
		if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); rawErr == nil {
			return string(raw), nil
		}
		return "", fmt.Errorf("invalid base64: %w", err)
	}
	return string(out), nil
}
