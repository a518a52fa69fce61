package runner

import (
	"errors"

	"github.com/aretw0/textkit/pkg/domain"
)

// ErrorInfo is the wire form of a pipeline error, shared by the JSON-lines
// handler and the HTTP and MCP adapters.
type ErrorInfo struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Rule    string   `json:"rule,omitempty"`
	Step    int      `json:"step"`
	Total   int      `json:"total,omitempty"`
	Applied []string `json:"applied"`
}

// NewErrorInfo describes err. Step is 1-based; zero means the failure is not
// tied to a rule.
func NewErrorInfo(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	info := &ErrorInfo{
		Kind:    Kind(err),
		Message: err.Error(),
		Rule:    domain.RuleOf(err),
		Applied: []string{},
	}
	if step, ok := domain.ProgressOf(err); ok {
		info.Step = step.Index + 1
		info.Total = step.Total
		if step.Applied != nil {
			info.Applied = step.Applied
		}
	}
	return info
}

// Kind extends domain.Kind with the runner's own failures.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrInputTooLarge):
		return "input_too_large"
	case errors.Is(err, ErrRuleDenied):
		return "denied"
	case errors.Is(err, ErrInvalidUTF8):
		return "parse"
	}
	return domain.Kind(err)
}
