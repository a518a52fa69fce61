package transformers

import (
	"strings"

	"github.com/aretw0/textkit/pkg/domain"
)

// NewLineEnding returns tr and the newline conversion rules.
func NewLineEnding() *Family {
	conv := func(name, desc string, fn func(string) string) Rule {
		return Rule{
			TransformationRule: domain.TransformationRule{
				Name:        name,
				Description: desc,
				Category:    domain.CategoryBasic,
			},
			Apply: noArgs(fn),
		}
	}

	return NewFamily("lineending",
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:         "tr",
				Description:  `Translate a sequence like Unix tr (escapes such as \n and \r\n are understood)`,
				Example:      `/tr '\n' '\r\n'`,
				Category:     domain.CategoryBasic,
				RequiresArgs: true,
				DefaultArgs:  []string{`\n`, `\r\n`},
				MinArgs:      2,
			},
			Apply: func(text string, args []string) (string, error) {
				from, to := UnescapeArg(args[0]), UnescapeArg(args[1])
				if from == "" {
					return text, nil
				}
				return strings.ReplaceAll(text, from, to), nil
			},
		},
		conv("unix-to-windows", "Convert LF line endings to CRLF", func(s string) string { return bareLF(s, "\r\n") }),
		conv("windows-to-unix", "Convert CRLF line endings to LF", func(s string) string { return strings.ReplaceAll(s, "\r\n", "\n") }),
		conv("unix-to-mac", "Convert LF line endings to CR", func(s string) string { return bareLF(s, "\r") }),
		conv("mac-to-unix", "Convert CR line endings to LF", func(s string) string { return bareCR(s, "\n") }),
		conv("windows-to-mac", "Convert CRLF line endings to CR", func(s string) string { return strings.ReplaceAll(s, "\r\n", "\r") }),
		conv("mac-to-windows", "Convert CR line endings to CRLF", func(s string) string { return bareCR(s, "\r\n") }),
		conv("normalize", "Normalize every line ending to LF", normalizeNewlines),
	)
}

// bareLF replaces every LF not preceded by CR.
func bareLF(s, repl string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' && (i == 0 || s[i-1] != '\r') {
			b.WriteString(repl)
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// bareCR replaces every CR not followed by LF.
func bareCR(s, repl string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' && (i+1 == len(s) || s[i+1] != '\n') {
			b.WriteString(repl)
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}
