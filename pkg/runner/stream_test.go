package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/textkit/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Lines(t *testing.T) {
	r := runner.NewRunner(newEngine(t))
	in := strings.NewReader("  one  \r\nTwo\n%%%\nthree")
	var out, errs bytes.Buffer

	err := r.Lines(context.Background(), in, &out, &errs, "/t/u")
	require.NoError(t, err)
	assert.Equal(t, "ONE\nTWO\n%%%\nTHREE\n", out.String())
	assert.Empty(t, errs.String())

	out.Reset()
	err = r.Lines(context.Background(), strings.NewReader("aGk=\n%%%\n"), &out, &errs, "/b64d")
	require.NoError(t, err)
	assert.Equal(t, "hi\n\n", out.String())
	assert.Contains(t, errs.String(), "line 2: ")
}

func TestRunner_Lines_BadDefaultRules(t *testing.T) {
	r := runner.NewRunner(newEngine(t))
	var out bytes.Buffer

	err := r.Lines(context.Background(), strings.NewReader("x\n"), &out, nil, "/t/t")
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestRunner_Serve_JSON(t *testing.T) {
	r := runner.NewRunner(newEngine(t))
	in := strings.NewReader(`{"id":"1","text":"  Hi  "}
{"id":"2","text":"hello","rules":"/r 'l' 'L'"}
{"id":"3","text":"x","rules":"/t/nope"}
{"id":"4","text":"<b>","rules":"/he"}
`)
	var out bytes.Buffer

	err := r.Serve(context.Background(), runner.NewJSONHandler(in, &out), "/t/l")
	require.NoError(t, err)

	dec := json.NewDecoder(&out)
	var responses []runner.Response
	for dec.More() {
		var resp runner.Response
		require.NoError(t, dec.Decode(&resp))
		responses = append(responses, resp)
	}
	require.Len(t, responses, 4)

	assert.Equal(t, "hi", responses[0].Output)
	assert.Equal(t, []string{"t", "l"}, responses[0].Applied)

	assert.Equal(t, "heLLo", responses[1].Output)

	require.NotNil(t, responses[2].Error)
	assert.Equal(t, "unknown_rule", responses[2].Error.Kind)
	assert.Equal(t, "nope", responses[2].Error.Rule)
	assert.Equal(t, 2, responses[2].Error.Step)
	assert.Equal(t, []string{"t"}, responses[2].Error.Applied)

	assert.Equal(t, "&lt;b&gt;", responses[3].Output)
}

func TestRunner_Serve_NoRules(t *testing.T) {
	r := runner.NewRunner(newEngine(t))
	var out bytes.Buffer

	err := r.Serve(context.Background(), runner.NewJSONHandler(strings.NewReader(`{"text":"x"}`), &out), "")
	require.NoError(t, err)

	var resp runner.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "parse", resp.Error.Kind)
}

func TestRunner_Serve_DecodeError(t *testing.T) {
	r := runner.NewRunner(newEngine(t))
	var out bytes.Buffer

	err := r.Serve(context.Background(), runner.NewJSONHandler(strings.NewReader(`{not json`), &out), "/u")
	assert.ErrorContains(t, err, "failed to decode request")
}
