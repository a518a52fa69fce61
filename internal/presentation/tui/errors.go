package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/textkit/pkg/domain"
	"github.com/muesli/termenv"
)

// ErrorReport renders a pipeline failure with its context: the failing rule,
// the step, and how far the chain got before stopping.
func ErrorReport(p termenv.Profile, err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(p.String("error: ").Foreground(p.Color("#ef4444")).Bold().String())
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	dim := func(label, value string) {
		fmt.Fprintf(&sb, "  %s %s\n", p.String(label).Faint(), value)
	}

	dim("kind:", domain.Kind(err))
	if rule := domain.RuleOf(err); rule != "" {
		dim("rule:", rule)
	}
	if step, ok := domain.ProgressOf(err); ok && step.Index >= 0 {
		dim("step:", step.Describe())
		switch n := len(step.Applied); n {
		case 0:
			dim("progress:", "no rule succeeded")
		default:
			dim("progress:", fmt.Sprintf("succeeded through step %d of %d", n, step.Total))
		}
	}
	return sb.String()
}

// PrintError writes ErrorReport to w using the terminal's color profile.
func PrintError(w io.Writer, err error) {
	fmt.Fprint(w, ErrorReport(termenv.ColorProfile(), err))
}
