package parser

import "errors"

var (
	errUnrecognized    = errors.New("unrecognized rule syntax")
	errEmptyFlag       = errors.New("empty rule name after '-'")
	errNoRules         = errors.New("no rules found in rule string")
	errUnbalancedQuote = errors.New("unbalanced quote")
)
