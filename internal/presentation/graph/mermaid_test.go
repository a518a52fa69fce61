package graph_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/textkit/internal/presentation/graph"
	"github.com/aretw0/textkit/pkg/domain"
)

var rules = map[string]domain.TransformationRule{
	"t": {Name: "t", Description: "Trim"},
	"r": {Name: "r", Description: "Replace", RequiresArgs: true},
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []domain.RuleToken
		overlay  *graph.PipelineOverlay
		contains []string
		excludes []string
	}{
		{
			name:   "Chain Shape",
			tokens: []domain.RuleToken{{Name: "t"}, {Name: "r", Args: []string{"a", "b"}}},
			contains: []string{
				"graph LR",
				"input((\"input\"))",
				"step0[\"t <br/> Trim\"]",
				"step1[[\"r <br/> Replace <br/> 'a' 'b'\"]]",
				"input --> step0",
				"step0 --> step1",
				"step1 --> output",
			},
			excludes: []string{"classDef"},
		},
		{
			name:     "Unknown Rule Shape",
			tokens:   []domain.RuleToken{{Name: "zz"}},
			contains: []string{"step0{{\"zz\"}}"},
		},
		{
			name:     "Empty Chain",
			tokens:   nil,
			contains: []string{"input --> output"},
		},
		{
			name:    "Overlay",
			tokens:  []domain.RuleToken{{Name: "t"}, {Name: "zz"}, {Name: "r"}},
			overlay: &graph.PipelineOverlay{Applied: 1, Failed: 1},
			contains: []string{
				"class step0 applied;",
				"class step1 failed;",
			},
			excludes: []string{"class step2"},
		},
		{
			name:     "Label Escaping",
			tokens:   []domain.RuleToken{{Name: "r", Args: []string{`"x"`}}},
			contains: []string{"#quot;x#quot;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.tokens, rules, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("expected output not to contain %q\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestOverlayFromError(t *testing.T) {
	err := &domain.UnknownRuleError{
		Name:        "zz",
		StepContext: domain.StepContext{Index: 1, Total: 3, Applied: []string{"t"}},
	}
	overlay := graph.OverlayFromError(err)
	if overlay == nil || overlay.Applied != 1 || overlay.Failed != 1 {
		t.Fatalf("unexpected overlay %+v", overlay)
	}

	if graph.OverlayFromError(errors.New("plain")) != nil {
		t.Error("expected nil overlay for plain error")
	}
	if graph.OverlayFromError(&domain.ParseError{StepContext: domain.StepContext{Index: -1}}) != nil {
		t.Error("expected nil overlay for pre-execution error")
	}
}
