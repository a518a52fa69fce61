package transformers

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aretw0/textkit/pkg/domain"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// NewMarkup returns the HTML and URL rules.
func NewMarkup() *Family {
	return NewFamily("markup",
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "strip-tags",
				Description: "Remove HTML/XML tags, scripts and styles, keeping text content",
				Example:     "'<b>hi</b>' -> 'hi'",
				Category:    domain.CategoryAdvanced,
			},
			Apply: noArgs(stripTags),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "he",
				Description: "Escape HTML special characters",
				Example:     "'<a>' -> '&lt;a&gt;'",
				Category:    domain.CategoryAdvanced,
			},
			Apply: noArgs(html.EscapeString),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "hd",
				Description: "Unescape HTML entities",
				Example:     "'&lt;a&gt;' -> '<a>'",
				Category:    domain.CategoryAdvanced,
			},
			Apply: noArgs(html.UnescapeString),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "e",
				Description: "URL-encode text",
				Example:     "'a b&c' -> 'a+b%26c'",
				Category:    domain.CategoryAdvanced,
			},
			Apply: noArgs(url.QueryEscape),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "d",
				Description: "URL-decode text",
				Example:     "'a+b%26c' -> 'a b&c'",
				Category:    domain.CategoryAdvanced,
			},
			Apply: fallible(url.QueryUnescape),
		},
	)
}

func stripTags(input string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return html.UnescapeString(tagPattern.ReplaceAllString(input, ""))
	}
	doc.Find("script, style").Remove()
	return doc.Text()
}
