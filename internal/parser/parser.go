package parser

import (
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aretw0/textkit/pkg/domain"
)

var (
	// windowsGitPath matches "/rule" after Git Bash rewrote it into an
	// absolute path such as "C:/Program Files/Git/rule".
	windowsGitPath = regexp.MustCompile(`^[A-Za-z]:[\\/][^/\\]*[\\/]Git[\\/](.+)`)
	bareRule       = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
)

// Form identifies which grammar form a rule string matched.
type Form string

const (
	FormFlag        Form = "flag"
	FormSlash       Form = "slash"
	FormQuotedSlash Form = "quoted-slash"
	FormWindowsPath Form = "windows-path"
	FormSpace       Form = "space"
	FormBare        Form = "bare"
)

// Parser converts raw rule strings into RuleTokens.
// It holds no per-call state and is safe for concurrent use.
type Parser struct {
	logger   *slog.Logger
	maxRules int
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug traces of recognized forms.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMaxRules rejects chains longer than n tokens. Zero disables the limit.
func WithMaxRules(n int) Option {
	return func(p *Parser) {
		p.maxRules = n
	}
}

// NewParser creates a new parser instance.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse turns a rule string into tokens, trying each grammar form in
// priority order: flag, slash chain, Windows path correction, space
// separated and bare.
func (p *Parser) Parse(raw string) ([]domain.RuleToken, error) {
	tokens, _, err := p.ParseForm(raw)
	return tokens, err
}

// ParseForm is Parse that also reports the matched form.
func (p *Parser) ParseForm(raw string) ([]domain.RuleToken, Form, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, "", parseErr(raw, "empty rule string", domain.ErrEmptyRuleString)
	}

	var (
		tokens []domain.RuleToken
		form   Form
		err    error
	)
	switch {
	case strings.HasPrefix(s, "-"):
		form = FormFlag
		tokens, err = parseFlag(s)
	case strings.HasPrefix(s, "/"):
		if strings.ContainsAny(s, `'"`) {
			form = FormQuotedSlash
			tokens, err = parseQuotedSlash(s)
		} else {
			form = FormSlash
			tokens, err = parseSlash(s)
		}
	case windowsGitPath.MatchString(s):
		form = FormWindowsPath
		tokens = []domain.RuleToken{{Name: windowsGitPath.FindStringSubmatch(s)[1]}}
	case !strings.ContainsAny(s, `/'"`) && strings.ContainsAny(s, " \t"):
		form = FormSpace
		fields := strings.Fields(s)
		tokens = []domain.RuleToken{{Name: fields[0], Args: fields[1:]}}
	case bareRule.MatchString(s):
		form = FormBare
		tokens = []domain.RuleToken{{Name: s}}
	default:
		err = errUnrecognized
	}
	if err != nil {
		return nil, form, parseErr(raw, err.Error(), nil)
	}

	if p.maxRules > 0 && len(tokens) > p.maxRules {
		return nil, form, parseErr(raw, "too many rules in chain", nil)
	}

	p.logger.Debug("parsed rule string", "form", string(form), "rules", len(tokens))
	return tokens, form, nil
}

// IsWindowsGitPath reports whether s looks like a slash rule that Git Bash
// expanded into a Windows path.
func IsWindowsGitPath(s string) bool {
	return windowsGitPath.MatchString(strings.TrimSpace(s))
}

func parseFlag(s string) ([]domain.RuleToken, error) {
	name := s[1:]
	if strings.TrimSpace(name) == "" {
		return nil, errEmptyFlag
	}
	return []domain.RuleToken{{Name: name}}, nil
}

func parseSlash(s string) ([]domain.RuleToken, error) {
	var tokens []domain.RuleToken
	for _, seg := range strings.Split(s, "/") {
		fields := strings.Fields(seg)
		if len(fields) == 0 {
			continue
		}
		tokens = append(tokens, domain.RuleToken{Name: fields[0], Args: fields[1:]})
	}
	if len(tokens) == 0 {
		return nil, errNoRules
	}
	return tokens, nil
}

func parseErr(raw, reason string, sentinel error) *domain.ParseError {
	return &domain.ParseError{
		Raw:         raw,
		Reason:      reason,
		Err:         sentinel,
		StepContext: domain.StepContext{Index: -1},
	}
}
