package ports

import "github.com/aretw0/textkit/pkg/domain"

// Strategy is a family of rules that can be plugged into a registry.
//
// Implementations must be safe for concurrent use once constructed: a
// registry shares one instance across every pipeline run.
type Strategy interface {
	// Name identifies the family in collision errors and listings.
	Name() string

	// Rules returns the metadata of every rule the family declares.
	Rules() map[string]domain.TransformationRule

	// Supports reports whether the family declares the rule.
	Supports(name string) bool

	// Transform applies one rule. A rule that requires arguments and
	// receives none runs with its declared defaults; *domain.ArityError
	// is returned only when both are insufficient.
	Transform(text, name string, args []string) (string, error)
}
