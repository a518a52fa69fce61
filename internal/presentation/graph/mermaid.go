package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/textkit/pkg/domain"
)

// PipelineOverlay contains run data to visualize on the chart.
// Applied counts the steps that succeeded; Failed is the index of the step
// that failed, or -1.
type PipelineOverlay struct {
	Applied int
	Failed  int
}

// OverlayFromError builds the overlay for a failed run. A nil err, or one
// without step context, yields nil.
func OverlayFromError(err error) *PipelineOverlay {
	step, ok := domain.ProgressOf(err)
	if !ok || step.Index < 0 {
		return nil
	}
	return &PipelineOverlay{Applied: len(step.Applied), Failed: step.Index}
}

// GenerateMermaid produces a Mermaid flowchart of a rule chain.
// It applies semantic styling:
// - Input/Output: ((Circle))
// - Rule needing arguments: [[Subroutine]]
// - Unknown rule: {{Hexagon}}
// - Default: [Rectangle]
// It also applies overlay styles (applied/failed) if provided.
func GenerateMermaid(tokens []domain.RuleToken, rules map[string]domain.TransformationRule, overlay *PipelineOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	sb.WriteString("    input((\"input\"))\n")

	prev := "input"
	for i, tok := range tokens {
		id := stepID(i)

		opener, closer := "[", "]"
		rule, known := rules[tok.Name]
		switch {
		case !known:
			opener, closer = "{{", "}}"
		case rule.RequiresArgs:
			opener, closer = "[[", "]]"
		}

		label := tok.Name
		if known && rule.Description != "" {
			label += " <br/> " + rule.Description
		}
		if len(tok.Args) > 0 {
			label += " <br/> " + strings.Join(quoteArgs(tok.Args), " ")
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, escapeLabel(label), closer)
		fmt.Fprintf(&sb, "    %s --> %s\n", prev, id)
		prev = id
	}
	sb.WriteString("    output((\"output\"))\n")
	fmt.Fprintf(&sb, "    %s --> output\n", prev)

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef applied fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#c62828,stroke-width:4px,color:#000;\n")

		for i := 0; i < overlay.Applied && i < len(tokens); i++ {
			fmt.Fprintf(&sb, "    class %s applied;\n", stepID(i))
		}
		if overlay.Failed >= 0 && overlay.Failed < len(tokens) {
			fmt.Fprintf(&sb, "    class %s failed;\n", stepID(overlay.Failed))
		}
	}

	return sb.String()
}

func stepID(i int) string {
	return fmt.Sprintf("step%d", i)
}

func quoteArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = "'" + a + "'"
	}
	return out
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
