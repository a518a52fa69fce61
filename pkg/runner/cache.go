package runner

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/aretw0/textkit/pkg/domain"
)

// CacheKey identifies a text under a parsed rule chain. Equivalent rule
// strings ("/u" and "-u") share a key.
func CacheKey(text string, tokens []domain.RuleToken) string {
	h := sha256.New()
	for _, tok := range tokens {
		h.Write([]byte(tok.Name))
		for _, arg := range tok.Args {
			h.Write([]byte{0x1f})
			h.Write([]byte(arg))
		}
		h.Write([]byte{0x1e})
	}
	h.Write([]byte{0})
	h.Write([]byte(text))
	return "textkit:result:" + hex.EncodeToString(h.Sum(nil))
}
