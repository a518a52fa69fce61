package transformers

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/aretw0/textkit/pkg/domain"
)

// ErrUndeclaredRule is returned when a family is asked to run a rule it does not declare.
var ErrUndeclaredRule = errors.New("rule not declared by strategy")

// Handler runs one rule against text with already validated arguments.
type Handler func(text string, args []string) (string, error)

// Rule couples rule metadata with its handler.
type Rule struct {
	domain.TransformationRule
	Apply Handler
}

// Family is a table-driven strategy.
type Family struct {
	name     string
	metadata map[string]domain.TransformationRule
	handlers map[string]Handler
}

// NewFamily builds a strategy from a rule table. It panics on duplicate
// names or missing handlers, which are programming errors.
func NewFamily(name string, rules ...Rule) *Family {
	f := &Family{
		name:     name,
		metadata: make(map[string]domain.TransformationRule, len(rules)),
		handlers: make(map[string]Handler, len(rules)),
	}
	for _, r := range rules {
		if r.Apply == nil {
			panic(fmt.Sprintf("transformers: rule %q in %s has no handler", r.Name, name))
		}
		if _, dup := f.handlers[r.Name]; dup {
			panic(fmt.Sprintf("transformers: rule %q declared twice in %s", r.Name, name))
		}
		f.metadata[r.Name] = r.TransformationRule
		f.handlers[r.Name] = r.Apply
	}
	return f
}

// Name returns the family name used by WithDisabledFamilies.
func (f *Family) Name() string { return f.name }

// Rules returns a copy of the rule metadata keyed by rule name.
func (f *Family) Rules() map[string]domain.TransformationRule {
	out := maps.Clone(f.metadata)
	for k, v := range out {
		v.DefaultArgs = slices.Clone(v.DefaultArgs)
		out[k] = v
	}
	return out
}

// Supports reports whether the family handles the rule name.
func (f *Family) Supports(name string) bool {
	_, ok := f.handlers[name]
	return ok
}

// Transform substitutes default arguments for rules that require them,
// checks arity and runs the handler.
func (f *Family) Transform(text, name string, args []string) (string, error) {
	rule, ok := f.metadata[name]
	if !ok {
		return "", fmt.Errorf("%w: %s does not declare %q", ErrUndeclaredRule, f.name, name)
	}

	args = rule.EffectiveArgs(args)
	if len(args) < rule.MinArgs {
		return "", &domain.ArityError{
			Name:        name,
			Expected:    rule.MinArgs,
			Got:         len(args),
			StepContext: domain.StepContext{Index: -1},
		}
	}
	return f.handlers[name](text, args)
}

// noArgs adapts a plain string function into a Handler.
func noArgs(fn func(string) string) Handler {
	return func(text string, _ []string) (string, error) {
		return fn(text), nil
	}
}

// fallible adapts a function that can fail into a Handler.
func fallible(fn func(string) (string, error)) Handler {
	return func(text string, _ []string) (string, error) {
		return fn(text)
	}
}
