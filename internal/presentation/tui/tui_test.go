package tui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aretw0/textkit/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleRules = map[string]domain.TransformationRule{
	"t":     {Name: "t", Description: "Trim whitespace", Category: domain.CategoryBasic},
	"u":     {Name: "u", Description: "Uppercase", Category: domain.CategoryBasic},
	"s":     {Name: "s", Description: "snake_case", Category: domain.CategoryCase},
	"iconv": {Name: "iconv", Description: "Convert encoding", Example: "/iconv -f sjis -t utf-8", RequiresArgs: true, DefaultArgs: []string{"-f", "auto", "-t", "utf-8"}, Category: domain.CategoryAdvanced},
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	printBanner(&buf, termenv.Ascii, "1.2.3")

	out := buf.String()
	assert.Contains(t, out, bannerLines[0].text)
	assert.Contains(t, out, "v1.2.3")
	assert.NotContains(t, out, "\x1b[")
}

func TestFilterRules(t *testing.T) {
	all := FilterRules(sampleRules, "")
	require.Len(t, all, 4)
	assert.Equal(t, "iconv", all[0].Name)

	assert.Len(t, FilterRules(sampleRules, "CASE"), 1)
	assert.Len(t, FilterRules(sampleRules, "basic"), 2)
	assert.Empty(t, FilterRules(sampleRules, "nothing-matches"))
}

func TestRulesMarkdown(t *testing.T) {
	md := RulesMarkdown(FilterRules(sampleRules, ""))

	assert.Contains(t, md, "## basic")
	assert.Contains(t, md, "## case")
	assert.NotContains(t, md, "## encryption")
	assert.Contains(t, md, "| `t` | Trim whitespace |  |")
	assert.Contains(t, md, "(default: `-f auto -t utf-8`)")
	assert.Less(t, bytes.Index([]byte(md), []byte("## basic")), bytes.Index([]byte(md), []byte("## advanced")))

	assert.Equal(t, "_No rules match._\n", RulesMarkdown(nil))
}

func TestRenderRules_Plain(t *testing.T) {
	out, err := RenderRules(sampleRules, "snake", true)
	require.NoError(t, err)
	assert.Contains(t, out, "`s`")
	assert.NotContains(t, out, "`t`")
}

func TestErrorReport(t *testing.T) {
	err := &domain.UnknownRuleError{
		Name:        "zz",
		StepContext: domain.StepContext{Index: 2, Total: 4, Applied: []string{"t", "l"}},
	}

	out := ErrorReport(termenv.Ascii, err)
	assert.Contains(t, out, `error: unknown rule "zz"`)
	assert.Contains(t, out, "kind: unknown_rule")
	assert.Contains(t, out, "rule: zz")
	assert.Contains(t, out, "step: step 3 of 4, after t, l")
	assert.Contains(t, out, "succeeded through step 2 of 4")

	first := ErrorReport(termenv.Ascii, &domain.ArityError{Name: "r", StepContext: domain.StepContext{Index: 0, Total: 1}})
	assert.Contains(t, first, "no rule succeeded")

	plain := ErrorReport(termenv.Ascii, errors.New("boom"))
	assert.Contains(t, plain, "kind: internal")
	assert.NotContains(t, plain, "step:")

	assert.Empty(t, ErrorReport(termenv.Ascii, nil))
}
