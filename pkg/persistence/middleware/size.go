package middleware

import (
	"context"
	"time"

	"github.com/aretw0/textkit/pkg/ports"
)

type sizeMiddleware struct {
	next  ports.ResultCache
	limit int
}

// NewMaxValueSizeMiddleware skips storing values longer than limit bytes.
func NewMaxValueSizeMiddleware(limit int) Middleware {
	return func(next ports.ResultCache) ports.ResultCache {
		return &sizeMiddleware{next: next, limit: limit}
	}
}

func (m *sizeMiddleware) Get(ctx context.Context, key string) (string, error) {
	return m.next.Get(ctx, key)
}

func (m *sizeMiddleware) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.limit > 0 && len(value) > m.limit {
		return nil
	}
	return m.next.Set(ctx, key, value, ttl)
}

func (m *sizeMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}
