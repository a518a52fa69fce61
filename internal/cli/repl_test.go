package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newREPL(t *testing.T, clip Clipboard) (*REPL, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cfg := testConfig(t)
	reload := func() (*Stack, error) {
		next := testConfig(t)
		next.Rules.Disabled = []string{"case"}
		return Build(next, BuildOptions{})
	}
	return NewREPL(build(t, cfg, BuildOptions{}), reload, clip, &out), &out
}

func TestREPL_ApplyRules(t *testing.T) {
	r, out := newREPL(t, nil)
	ctx := context.Background()
	r.SetBuffer("  Hello World  ")

	assert.True(t, r.Handle(ctx, "/t/l"))
	assert.Equal(t, "hello world", r.Buffer())
	assert.Contains(t, out.String(), "✓ applied t, l")

	assert.True(t, r.Handle(ctx, "-u"))
	assert.Equal(t, "HELLO WORLD", r.Buffer())

	out.Reset()
	assert.True(t, r.Handle(ctx, "/l/nope"))
	assert.Equal(t, "HELLO WORLD", r.Buffer())
	assert.Contains(t, out.String(), `unknown rule "nope"`)
	assert.Contains(t, out.String(), "stopped at step 2 of 2, after l; buffer unchanged")
}

func TestREPL_Commands(t *testing.T) {
	clip := &fakeClipboard{text: "from clipboard"}
	r, out := newREPL(t, clip)
	ctx := context.Background()

	assert.True(t, r.Handle(ctx, ":refresh"))
	assert.Equal(t, "from clipboard", r.Buffer())

	r.Handle(ctx, "/u")
	assert.True(t, r.Handle(ctx, ":copy"))
	assert.Equal(t, "FROM CLIPBOARD", clip.text)

	out.Reset()
	r.Handle(ctx, ":status")
	assert.Contains(t, out.String(), "buffer: 14 characters, 1 lines")
	assert.Contains(t, out.String(), "rule strings applied: 1")
	assert.Contains(t, out.String(), "last: /u")

	out.Reset()
	r.Handle(ctx, ":commands")
	assert.Contains(t, out.String(), "basic")
	assert.Contains(t, out.String(), "l t u")

	r.Handle(ctx, ":clear")
	assert.Empty(t, r.Buffer())

	out.Reset()
	r.Handle(ctx, ":help")
	assert.Contains(t, out.String(), ":refresh")

	out.Reset()
	r.Handle(ctx, ":bogus")
	assert.Contains(t, out.String(), "unknown command :bogus")

	out.Reset()
	r.Handle(ctx, "plain words")
	assert.Contains(t, out.String(), "neither a rule string")

	assert.True(t, r.Handle(ctx, ""))
	assert.False(t, r.Handle(ctx, ":quit"))
	assert.False(t, r.Handle(ctx, ":EXIT"))
}

func TestREPL_Reload(t *testing.T) {
	r, out := newREPL(t, nil)
	ctx := context.Background()
	r.SetBuffer("a b")

	r.Handle(ctx, "/s")
	assert.Equal(t, "a_b", r.Buffer())

	r.Handle(ctx, ":reload")
	assert.Contains(t, out.String(), "engine reloaded")
	t.Cleanup(func() { _ = r.Stack().Close() })

	r.Handle(ctx, "/k")
	assert.Equal(t, "a_b", r.Buffer())
}

func TestREPL_ClipboardFailures(t *testing.T) {
	r, out := newREPL(t, nil)
	r.Handle(context.Background(), ":copy")
	assert.Contains(t, out.String(), "clipboard unavailable")

	r, out = newREPL(t, &fakeClipboard{err: errors.New("no display")})
	r.Handle(context.Background(), ":refresh")
	assert.Contains(t, out.String(), "no display")
	require.Empty(t, r.Buffer())
}
