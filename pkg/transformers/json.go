package transformers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/textkit/pkg/domain"
)

// NewJSON returns the JSON formatting rules.
func NewJSON() *Family {
	return NewFamily("json",
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "json",
				Description: "Pretty-print JSON with sorted keys and 2-space indent",
				Example:     `'{"b":1,"a":2}' -> '{\n  "a": 2,\n  "b": 1\n}'`,
				Category:    domain.CategoryAdvanced,
			},
			Apply: fallible(func(s string) (string, error) { return formatJSON(s, "  ") }),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "jc",
				Description: "Compact JSON with sorted keys",
				Example:     `'{ "a": 1 }' -> '{"a":1}'`,
				Category:    domain.CategoryAdvanced,
			},
			Apply: fallible(func(s string) (string, error) { return formatJSON(s, "") }),
		},
	)
}

// formatJSON re-encodes a JSON document. Objects come out with sorted keys,
// numbers keep their original literal and non-ASCII text is not escaped.
func formatJSON(s, indent string) (string, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return "", fmt.Errorf("invalid JSON: trailing data after document")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
