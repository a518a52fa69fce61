package parser

import (
	"fmt"
	"strings"

	"github.com/aretw0/textkit/pkg/domain"
)

const forbiddenRuneSet = "<>|&"

// Validate rejects token lists that are empty, repeat a rule name, or
// contain an empty or suspicious name.
func Validate(tokens []domain.RuleToken) error {
	if index, reason, ok := check(tokens); !ok {
		return &domain.ParseError{
			Raw:         "",
			Reason:      reason,
			StepContext: domain.StepContext{Index: index, Total: len(tokens)},
		}
	}
	return nil
}

// Compile parses raw and validates the result.
func (p *Parser) Compile(raw string) ([]domain.RuleToken, error) {
	tokens, err := p.Parse(raw)
	if err != nil {
		return nil, err
	}
	if index, reason, ok := check(tokens); !ok {
		return nil, &domain.ParseError{
			Raw:         raw,
			Reason:      reason,
			StepContext: domain.StepContext{Index: index, Total: len(tokens)},
		}
	}
	return tokens, nil
}

func check(tokens []domain.RuleToken) (int, string, bool) {
	if len(tokens) == 0 {
		return -1, "no valid rules found", false
	}

	seen := make(map[string]int, len(tokens))
	for i, tok := range tokens {
		if tok.Name == "" {
			return i, "empty rule name", false
		}
		if strings.ContainsAny(tok.Name, forbiddenRuneSet) {
			return i, fmt.Sprintf("rule name %q contains forbidden characters", tok.Name), false
		}
		if first, dup := seen[tok.Name]; dup {
			return i, fmt.Sprintf("duplicate rule %q (first at step %d)", tok.Name, first+1), false
		}
		seen[tok.Name] = i
	}
	return 0, "", true
}
