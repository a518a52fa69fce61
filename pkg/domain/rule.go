package domain

import "slices"

// RuleToken is one operation extracted from a rule string.
type RuleToken struct {
	Name string   `json:"name" yaml:"name"`
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// Equal reports whether two tokens carry the same name and arguments.
func (t RuleToken) Equal(o RuleToken) bool {
	return t.Name == o.Name && slices.Equal(t.Args, o.Args)
}

// RuleCategory groups rules for presentation. It never affects dispatch.
type RuleCategory int

const (
	CategoryBasic RuleCategory = iota
	CategoryCase
	CategoryStringOps
	CategoryEncryption
	CategoryAdvanced
)

func (c RuleCategory) String() string {
	switch c {
	case CategoryBasic:
		return "basic"
	case CategoryCase:
		return "case"
	case CategoryStringOps:
		return "string"
	case CategoryEncryption:
		return "encryption"
	case CategoryAdvanced:
		return "advanced"
	default:
		return "unknown"
	}
}

// Categories lists every category in display order.
func Categories() []RuleCategory {
	return []RuleCategory{CategoryBasic, CategoryCase, CategoryStringOps, CategoryEncryption, CategoryAdvanced}
}

// TransformationRule describes a single rule a strategy supports.
type TransformationRule struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Example     string       `json:"example,omitempty" yaml:"example,omitempty"`
	Category    RuleCategory `json:"category" yaml:"category"`

	// RequiresArgs marks rules that operate on arguments. When a caller
	// supplies none, DefaultArgs are used instead.
	RequiresArgs bool     `json:"requires_args,omitempty" yaml:"requires_args,omitempty"`
	DefaultArgs  []string `json:"default_args,omitempty" yaml:"default_args,omitempty"`

	// MinArgs is the number of arguments the rule needs after defaults
	// have been substituted.
	MinArgs int `json:"min_args,omitempty" yaml:"min_args,omitempty"`

	// NoCache marks rules whose output depends on key material or is not
	// deterministic. A chain containing one is never read from or written
	// to a result cache.
	NoCache bool `json:"no_cache,omitempty" yaml:"no_cache,omitempty"`
}

// EffectiveArgs returns the arguments a rule should run with: the caller's
// arguments, or the declared defaults when the rule requires arguments and
// none were given.
func (r TransformationRule) EffectiveArgs(args []string) []string {
	if r.RequiresArgs && len(args) == 0 && len(r.DefaultArgs) > 0 {
		return slices.Clone(r.DefaultArgs)
	}
	return args
}
