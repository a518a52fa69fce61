package parser

import (
	"strings"
	"unicode"

	"github.com/aretw0/textkit/pkg/domain"
)

type scanState int

const (
	expectingRule scanState = iota
	expectingRuleOrArg
)

// IsArgumentSegment reports whether a slash segment following a rule is an
// argument of that rule rather than the next rule name. A segment is an
// argument when it starts with a quote or contains no letter at all, so
// "'x'", "123" and "-" are arguments while "123abc" names a rule.
func IsArgumentSegment(seg string) bool {
	s := strings.TrimLeftFunc(seg, unicode.IsSpace)
	if strings.HasPrefix(s, "'") || strings.HasPrefix(s, `"`) {
		return true
	}
	return strings.IndexFunc(s, unicode.IsLetter) < 0
}

// CleanArgument strips every leading and trailing quote character, so both
// "'x'" and "'x\"" become "x".
func CleanArgument(seg string) string {
	return strings.Trim(strings.TrimSpace(seg), `'"`)
}

// parseQuotedSlash walks the segments with one token of lookahead: after a
// rule name, segments classified as arguments attach to it until the next
// segment that looks like a rule name.
func parseQuotedSlash(s string) ([]domain.RuleToken, error) {
	var tokens []domain.RuleToken
	state := expectingRule

	for _, seg := range splitSegments(s) {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		if state == expectingRuleOrArg && IsArgumentSegment(seg) {
			args, err := argumentValues(seg)
			if err != nil {
				return nil, err
			}
			last := &tokens[len(tokens)-1]
			last.Args = append(last.Args, args...)
			continue
		}
		tok, err := ruleToken(seg)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		state = expectingRuleOrArg
	}

	if len(tokens) == 0 {
		return nil, errNoRules
	}
	return tokens, nil
}

func ruleToken(seg string) (domain.RuleToken, error) {
	words, err := splitWords(seg)
	if err != nil {
		return domain.RuleToken{}, err
	}
	if len(words) == 0 {
		return domain.RuleToken{}, errNoRules
	}
	return domain.RuleToken{Name: words[0], Args: words[1:]}, nil
}

// argumentValues returns several arguments when the segment holds more than
// one word, e.g. "'a' 'b'", and the quote-stripped segment otherwise. A
// single word keeps the lenient stripping even when its quotes do not
// match; several words must balance.
func argumentValues(seg string) ([]string, error) {
	words, err := splitWords(seg)
	switch {
	case err == nil && len(words) > 1:
		return words, nil
	case err != nil && len(strings.Fields(seg)) > 1:
		return nil, err
	}
	return []string{CleanArgument(seg)}, nil
}

// splitSegments splits on '/' outside quotes. If the quotes do not balance
// it falls back to a plain split and leaves the segments to be checked one
// by one.
func splitSegments(s string) []string {
	var (
		segments []string
		cur      strings.Builder
		quote    rune
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			cur.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			cur.WriteRune(r)
		case r == '/':
			segments = append(segments, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if quote != 0 {
		return strings.Split(s, "/")
	}
	return append(segments, cur.String())
}

// splitWords splits a segment into shell-like words. Single quotes are
// literal; double quotes honour \" and \\. Backslashes outside quotes are
// kept as-is so escape sequences reach the rule untouched.
func splitWords(s string) ([]string, error) {
	var (
		words  []string
		cur    strings.Builder
		inWord bool
		quote  rune
		escape bool
	)
	for _, r := range s {
		switch {
		case escape:
			if r != '"' && r != '\\' {
				cur.WriteRune('\\')
			}
			cur.WriteRune(r)
			escape = false
		case quote == '"' && r == '\\':
			escape = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 || escape {
		return nil, errUnbalancedQuote
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}
