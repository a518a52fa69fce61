package transformers

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/textkit/pkg/domain"
	"golang.org/x/text/unicode/norm"
)

// NewString returns the string manipulation rules.
func NewString() *Family {
	return NewFamily("string",
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "R",
				Description: "Reverse text character order",
				Example:     "'hello' -> 'olleh'",
				Category:    domain.CategoryStringOps,
			},
			Apply: noArgs(reverse),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:         "r",
				Description:  "Replace every occurrence of the first argument with the second",
				Example:      "/r 'old' 'new'",
				Category:     domain.CategoryStringOps,
				RequiresArgs: true,
				MinArgs:      2,
			},
			Apply: replace,
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "i",
				Description: "Convert line-separated values to SQL IN clause items",
				Example:     `'001\n002' -> '001',\n'002',`,
				Category:    domain.CategoryStringOps,
			},
			Apply: noArgs(sqlInList),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:         "n",
				Description:  "Apply Unicode normalization (NFC, NFD, NFKC or NFKD)",
				Example:      "/n 'NFKC'",
				Category:     domain.CategoryStringOps,
				RequiresArgs: true,
				DefaultArgs:  []string{"NFC"},
				MinArgs:      1,
			},
			Apply: normalize,
		},
	)
}

func reverse(s string) string {
	runes := []rune(s)
	slices.Reverse(runes)
	return string(runes)
}

func replace(text string, args []string) (string, error) {
	old, repl := UnescapeArg(args[0]), UnescapeArg(args[1])
	if old == "" {
		return text, nil
	}
	return strings.ReplaceAll(text, old, repl), nil
}

func sqlInList(text string) string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		if v := strings.TrimSpace(line); v != "" {
			items = append(items, "'"+v+"'")
		}
	}
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, ",\n") + ","
}

func normalize(text string, args []string) (string, error) {
	var form norm.Form
	switch strings.ToUpper(args[0]) {
	case "NFC":
		form = norm.NFC
	case "NFD":
		form = norm.NFD
	case "NFKC":
		form = norm.NFKC
	case "NFKD":
		form = norm.NFKD
	default:
		return "", fmt.Errorf("unknown normalization form %q", args[0])
	}
	return form.String(text), nil
}
