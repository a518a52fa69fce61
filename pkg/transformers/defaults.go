package transformers

import (
	"slices"

	"github.com/aretw0/textkit/pkg/ports"
)

// FamilyNames lists the built-in families that need no configuration.
var FamilyNames = []string{"basic", "case", "string", "markup", "hash", "json", "encoding", "lineending", "width"}

// Defaults returns the built-in families, skipping any named in disabled.
// The crypto family is added separately because it needs a key provider.
func Defaults(disabled ...string) []ports.Strategy {
	all := []ports.Strategy{
		NewBasic(),
		NewCase(),
		NewString(),
		NewMarkup(),
		NewHash(),
		NewJSON(),
		NewEncoding(),
		NewLineEnding(),
		NewWidth(),
	}
	out := all[:0]
	for _, s := range all {
		if !slices.Contains(disabled, s.Name()) {
			out = append(out, s)
		}
	}
	return out
}
