package transformers

import (
	"strings"

	"github.com/aretw0/textkit/pkg/domain"
)

// NewBasic returns the trim and case folding rules.
func NewBasic() *Family {
	return NewFamily("basic",
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "t",
				Description: "Remove leading and trailing whitespace",
				Example:     "'  hello  ' -> 'hello'",
				Category:    domain.CategoryBasic,
			},
			Apply: noArgs(strings.TrimSpace),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "l",
				Description: "Convert text to lowercase",
				Example:     "'HELLO' -> 'hello'",
				Category:    domain.CategoryBasic,
			},
			Apply: noArgs(strings.ToLower),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "u",
				Description: "Convert text to uppercase",
				Example:     "'hello' -> 'HELLO'",
				Category:    domain.CategoryBasic,
			},
			Apply: noArgs(strings.ToUpper),
		},
	)
}
