package middleware

import (
	"context"
	"regexp"
	"time"

	"github.com/aretw0/textkit/pkg/ports"
)

// DefaultPIIPatterns match values that should never reach a shared cache.
var DefaultPIIPatterns = []string{
	`-----BEGIN [A-Z ]*PRIVATE KEY-----`,
	`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
	`\b\d{3}-\d{2}-\d{4}\b`,
}

type piiMiddleware struct {
	next     ports.ResultCache
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that silently skips storing values
// matching any of the patterns. Reads pass through.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.ResultCache) ports.ResultCache {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Get(ctx context.Context, key string) (string, error) {
	return m.next.Get(ctx, key)
}

func (m *piiMiddleware) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	for _, p := range m.patterns {
		if p.MatchString(value) {
			return nil
		}
	}
	return m.next.Set(ctx, key, value, ttl)
}

func (m *piiMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}
