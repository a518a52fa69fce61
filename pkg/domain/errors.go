package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrEmptyRuleString is returned when the caller passes an empty or blank rule string.
var ErrEmptyRuleString = errors.New("rule string is empty")

// ErrUnrecognizedPrefix is returned when a rule string starts with neither '/' nor '-'.
var ErrUnrecognizedPrefix = errors.New("rule string must start with '/' or '-'")

// MaxAvailableSample bounds the rule names listed in an UnknownRuleError.
const MaxAvailableSample = 10

// StepContext locates a failure inside a pipeline run.
// Index is the 0-based token index, or -1 when the failure precedes execution.
type StepContext struct {
	Index   int      `json:"index"`
	Total   int      `json:"total"`
	Applied []string `json:"applied"`
}

// Describe renders the progress as "step 3 of 4, after t, l".
func (s StepContext) Describe() string {
	if s.Index < 0 {
		return "before execution"
	}
	msg := fmt.Sprintf("step %d of %d", s.Index+1, s.Total)
	if len(s.Applied) > 0 {
		msg += ", after " + strings.Join(s.Applied, ", ")
	}
	return msg
}

// ParseError reports a rule string that matched no grammar form or was
// structurally invalid.
type ParseError struct {
	StepContext
	Raw    string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Raw, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownRuleError reports a token whose name no registered strategy supports.
type UnknownRuleError struct {
	StepContext
	Name      string
	Available []string
}

func (e *UnknownRuleError) Error() string {
	msg := fmt.Sprintf("unknown rule %q", e.Name)
	if len(e.Available) > 0 {
		msg += fmt.Sprintf(" (available: %s)", strings.Join(e.Available, ", "))
	}
	return msg
}

// ArityError reports arguments a rule rejected as insufficient.
type ArityError struct {
	StepContext
	Name     string
	Expected int
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("rule %q requires %d argument(s), got %d", e.Name, e.Expected, e.Got)
}

// StrategyError wraps a failure raised by a strategy's own logic.
type StrategyError struct {
	StepContext
	Name  string
	Args  []string
	Cause error
}

func (e *StrategyError) Error() string {
	if len(e.Args) == 0 {
		return fmt.Sprintf("rule %q failed: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("rule %q %q failed: %v", e.Name, e.Args, e.Cause)
}

func (e *StrategyError) Unwrap() error { return e.Cause }

// CollisionError is returned while building a registry when two strategies
// declare the same rule name.
type CollisionError struct {
	Name     string
	Existing string
	New      string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("rule %q from strategy %q collides with strategy %q", e.Name, e.New, e.Existing)
}

// ProgressOf returns the step context carried by any pipeline error.
func ProgressOf(err error) (StepContext, bool) {
	var (
		pe *ParseError
		ue *UnknownRuleError
		ae *ArityError
		se *StrategyError
	)
	switch {
	case errors.As(err, &ue):
		return ue.StepContext, true
	case errors.As(err, &ae):
		return ae.StepContext, true
	case errors.As(err, &se):
		return se.StepContext, true
	case errors.As(err, &pe):
		return pe.StepContext, true
	}
	return StepContext{}, false
}

// Kind names the error category, for metrics labels and API payloads.
func Kind(err error) string {
	var (
		pe *ParseError
		ue *UnknownRuleError
		ae *ArityError
		se *StrategyError
		ce *CollisionError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ue):
		return "unknown_rule"
	case errors.As(err, &ae):
		return "arity"
	case errors.As(err, &se):
		return "strategy"
	case errors.As(err, &pe):
		return "parse"
	case errors.As(err, &ce):
		return "collision"
	default:
		return "internal"
	}
}

// RuleOf returns the rule name an error refers to, if any.
func RuleOf(err error) string {
	var (
		ue *UnknownRuleError
		ae *ArityError
		se *StrategyError
	)
	switch {
	case errors.As(err, &ue):
		return ue.Name
	case errors.As(err, &ae):
		return ae.Name
	case errors.As(err, &se):
		return se.Name
	}
	return ""
}

// WithStep returns a copy of err carrying the given step context. Errors that
// are not pipeline errors are wrapped in a StrategyError for rule name.
func WithStep(err error, name string, args []string, step StepContext) error {
	step.Applied = slices.Clone(step.Applied)
	var (
		ae *ArityError
		ue *UnknownRuleError
		se *StrategyError
	)
	switch {
	case errors.As(err, &ae):
		out := *ae
		out.StepContext = step
		return &out
	case errors.As(err, &ue):
		out := *ue
		out.StepContext = step
		return &out
	case errors.As(err, &se):
		out := *se
		out.StepContext = step
		if out.Name == "" {
			out.Name = name
		}
		if out.Args == nil {
			out.Args = slices.Clone(args)
		}
		return &out
	}
	return &StrategyError{StepContext: step, Name: name, Args: slices.Clone(args), Cause: err}
}

// ErrCacheMiss is returned by result caches when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")
