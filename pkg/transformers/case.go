package transformers

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/textkit/pkg/domain"
)

var (
	wordPattern      = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	camelBoundary    = regexp.MustCompile(`(\p{Ll})(\p{Lu})`)
	separatorPattern = regexp.MustCompile(`[\s\-\.]+`)
)

// NewCase returns the identifier case conversions.
func NewCase() *Family {
	return NewFamily("case",
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "p",
				Description: "Convert to PascalCase",
				Example:     "'hello world' -> 'HelloWorld'",
				Category:    domain.CategoryCase,
			},
			Apply: noArgs(toPascal),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "c",
				Description: "Convert to camelCase",
				Example:     "'hello world' -> 'helloWorld'",
				Category:    domain.CategoryCase,
			},
			Apply: noArgs(toCamel),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "s",
				Description: "Convert to snake_case",
				Example:     "'Hello World' -> 'hello_world'",
				Category:    domain.CategoryCase,
			},
			Apply: noArgs(func(s string) string { return toDelimited(s, "_") }),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "k",
				Description: "Convert to kebab-case",
				Example:     "'Hello World' -> 'hello-world'",
				Category:    domain.CategoryCase,
			},
			Apply: noArgs(func(s string) string { return toDelimited(s, "-") }),
		},
	)
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}

// toPascal and toCamel leave text without any word unchanged.
func toPascal(s string) string {
	words := wordPattern.FindAllString(s, -1)
	if len(words) == 0 {
		return s
	}
	var b strings.Builder
	for _, w := range words {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

func toCamel(s string) string {
	words := wordPattern.FindAllString(s, -1)
	if len(words) == 0 {
		return s
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

func toDelimited(s, sep string) string {
	s = camelBoundary.ReplaceAllString(s, "${1}"+sep+"${2}")
	s = separatorPattern.ReplaceAllString(s, sep)
	if sep != "_" {
		s = strings.ReplaceAll(s, "_", sep)
	}
	return strings.ToLower(s)
}
