package registry

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/textkit/pkg/domain"
	"github.com/aretw0/textkit/pkg/ports"
)

// Registry maps rule names to the strategy that declares them.
// It is populated once, at engine construction, and read concurrently after that.
type Registry struct {
	mu         sync.RWMutex
	strategies []ports.Strategy
	owners     map[string]ports.Strategy
	rules      map[string]domain.TransformationRule
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		owners: make(map[string]ports.Strategy),
		rules:  make(map[string]domain.TransformationRule),
	}
}

// Register adds every rule a strategy declares.
// If any name is already taken, a *domain.CollisionError is returned and the
// registry is left unchanged.
func (r *Registry) Register(s ports.Strategy) error {
	if s == nil {
		return fmt.Errorf("register: nil strategy")
	}
	declared := s.Rules()
	if len(declared) == 0 {
		return fmt.Errorf("register: strategy %q declares no rules", s.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	names := slices.Sorted(maps.Keys(declared))
	for _, name := range names {
		if name == "" {
			return fmt.Errorf("register: strategy %q declares an empty rule name", s.Name())
		}
		if existing, ok := r.owners[name]; ok {
			return &domain.CollisionError{Name: name, Existing: existing.Name(), New: s.Name()}
		}
	}

	for _, name := range names {
		r.owners[name] = s
		r.rules[name] = declared[name]
	}
	r.strategies = append(r.strategies, s)
	return nil
}

// MustRegister is like Register but panics on error. Intended for static setup.
func (r *Registry) MustRegister(strategies ...ports.Strategy) {
	for _, s := range strategies {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
}

// Resolve returns the strategy that declares name.
// Returns *domain.UnknownRuleError listing up to ten known names otherwise.
func (r *Registry) Resolve(name string) (ports.Strategy, error) {
	r.mu.RLock()
	s, ok := r.owners[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &domain.UnknownRuleError{
			Name:        name,
			Available:   r.sample(domain.MaxAvailableSample),
			StepContext: domain.StepContext{Index: -1},
		}
	}
	return s, nil
}

// Rule returns the metadata of a single rule.
func (r *Registry) Rule(name string) (domain.TransformationRule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[name]
	return rule, ok
}

// Rules returns a snapshot of every registered rule's metadata.
func (r *Registry) Rules() map[string]domain.TransformationRule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.rules)
}

// Names returns every registered rule name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.rules))
}

// Strategies returns the registered strategies in registration order.
func (r *Registry) Strategies() []ports.Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.strategies)
}

func (r *Registry) sample(n int) []string {
	names := r.Names()
	if len(names) > n {
		names = names[:n]
	}
	return names
}
