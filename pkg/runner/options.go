package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/textkit/pkg/ports"
)

// DefaultWorkers bounds batch fan-out when WithWorkers is not used.
const DefaultWorkers = 4

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithWorkers sets how many items of a batch run at once.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithTimeout bounds each pipeline run. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithCache stores successful results in cache for ttl.
func WithCache(cache ports.ResultCache, ttl time.Duration) Option {
	return func(r *Runner) {
		r.cache = cache
		r.cacheTTL = ttl
	}
}

// WithMaxInputSize rejects texts larger than n bytes. Zero disables the check.
func WithMaxInputSize(n int) Option {
	return func(r *Runner) {
		r.maxInput = n
	}
}

// WithInterceptor configures the policy applied to every parsed chain.
func WithInterceptor(interceptor Interceptor) Option {
	return func(r *Runner) {
		r.interceptor = interceptor
	}
}
