package runner

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/aretw0/textkit/pkg/domain"
)

// ErrRuleDenied is returned when an interceptor blocks a rule.
var ErrRuleDenied = errors.New("rule denied by policy")

// Interceptor inspects a parsed chain before it runs and may veto it by
// returning an error.
type Interceptor func(ctx context.Context, tokens []domain.RuleToken) error

// MultiInterceptor chains interceptors; the first error wins.
func MultiInterceptor(interceptors ...Interceptor) Interceptor {
	return func(ctx context.Context, tokens []domain.RuleToken) error {
		for _, interceptor := range interceptors {
			if interceptor == nil {
				continue
			}
			if err := interceptor(ctx, tokens); err != nil {
				return err
			}
		}
		return nil
	}
}

// DenyRules blocks chains that use any of the named rules.
func DenyRules(names ...string) Interceptor {
	return func(ctx context.Context, tokens []domain.RuleToken) error {
		for _, tok := range tokens {
			if slices.Contains(names, tok.Name) {
				return fmt.Errorf("%w: %q", ErrRuleDenied, tok.Name)
			}
		}
		return nil
	}
}
