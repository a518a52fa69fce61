package tests

import (
	"errors"
	"testing"

	"github.com/aretw0/textkit/pkg/domain"
	"github.com/aretw0/textkit/pkg/ports"
)

// StrategyContractTest is a reusable test suite that verifies a rule family
// complies with ports.Strategy.
func StrategyContractTest(t *testing.T, s ports.Strategy) {
	t.Helper()

	rules := s.Rules()

	// 1. Declares something
	t.Run("DeclaresRules", func(t *testing.T) {
		if s.Name() == "" {
			t.Error("strategy name must not be empty")
		}
		if len(rules) == 0 {
			t.Fatalf("strategy %s declares no rules", s.Name())
		}
	})

	// 2. Metadata keys match names and Supports agrees
	t.Run("Supports", func(t *testing.T) {
		for key, rule := range rules {
			if key != rule.Name {
				t.Errorf("rule key %q does not match name %q", key, rule.Name)
			}
			if !s.Supports(key) {
				t.Errorf("strategy %s does not support its own rule %q", s.Name(), key)
			}
			if rule.Description == "" {
				t.Errorf("rule %q has no description", key)
			}
		}
		if s.Supports("definitely-not-a-rule") {
			t.Error("strategy claims support for an undeclared rule")
		}
	})

	// 3. Rules returns a copy
	t.Run("RulesIsSnapshot", func(t *testing.T) {
		snapshot := s.Rules()
		for k := range snapshot {
			delete(snapshot, k)
		}
		if len(s.Rules()) != len(rules) {
			t.Error("mutating Rules() result changed the strategy")
		}
	})

	// 4. Rules with defaults never fail arity on zero args
	t.Run("DefaultArgs", func(t *testing.T) {
		for name, rule := range rules {
			if !rule.RequiresArgs || len(rule.DefaultArgs) == 0 {
				continue
			}
			_, err := s.Transform("", name, nil)
			var ae *domain.ArityError
			if errors.As(err, &ae) {
				t.Errorf("rule %q with defaults raised arity error: %v", name, err)
			}
		}
	})

	// 5. Undeclared rule is rejected
	t.Run("UnknownRule", func(t *testing.T) {
		if _, err := s.Transform("x", "definitely-not-a-rule", nil); err == nil {
			t.Error("expected error for undeclared rule, got nil")
		}
	})
}
