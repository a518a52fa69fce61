package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/textkit/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// FilterRules returns the rules whose name, description or category
// contains search (case-insensitive), sorted by name. An empty search
// matches everything.
func FilterRules(rules map[string]domain.TransformationRule, search string) []domain.TransformationRule {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.TransformationRule, 0, len(rules))
	for _, r := range rules {
		if needle == "" ||
			strings.Contains(strings.ToLower(r.Name), needle) ||
			strings.Contains(strings.ToLower(r.Description), needle) ||
			strings.Contains(r.Category.String(), needle) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RulesMarkdown builds a markdown reference of rules grouped by category.
func RulesMarkdown(rules []domain.TransformationRule) string {
	if len(rules) == 0 {
		return "_No rules match._\n"
	}

	byCategory := make(map[domain.RuleCategory][]domain.TransformationRule)
	for _, r := range rules {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	var sb strings.Builder
	sb.WriteString("# Rules\n")
	for _, cat := range domain.Categories() {
		group := byCategory[cat]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n## %s\n\n", cat)
		sb.WriteString("| Rule | Description | Example |\n")
		sb.WriteString("|------|-------------|---------|\n")
		for _, r := range group {
			name := "`" + r.Name + "`"
			if len(r.DefaultArgs) > 0 {
				name += " (default: `" + strings.Join(r.DefaultArgs, " ") + "`)"
			}
			example := ""
			if r.Example != "" {
				example = "`" + r.Example + "`"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", name, escapeCell(r.Description), escapeCell(example))
		}
	}
	return sb.String()
}

// RenderRules filters, formats and renders the rules for a terminal.
// Markdown is returned unrendered when plain is set.
func RenderRules(rules map[string]domain.TransformationRule, search string, plain bool) (string, error) {
	md := RulesMarkdown(FilterRules(rules, search))
	if plain {
		return md, nil
	}
	return NewRenderer()(md)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
