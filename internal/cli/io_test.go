package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, c.err }

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(file, []byte("from file"), 0o644))
	clip := &fakeClipboard{text: "from clipboard"}

	tests := []struct {
		name string
		opts InputOptions
		want string
	}{
		{"text wins", InputOptions{Text: "from flag", HasText: true, File: file, Clipboard: clip}, "from flag"},
		{"empty text is still text", InputOptions{HasText: true, Clipboard: clip}, ""},
		{"file", InputOptions{File: file, Clipboard: clip}, "from file"},
		{"piped stdin", InputOptions{Stdin: strings.NewReader("from stdin"), Clipboard: clip}, "from stdin"},
		{"clipboard", InputOptions{Clipboard: clip}, "from clipboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadInput(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadInput_Errors(t *testing.T) {
	_, err := ReadInput(InputOptions{})
	assert.ErrorIs(t, err, ErrNoInput)

	_, err = ReadInput(InputOptions{Clipboard: &fakeClipboard{}})
	assert.ErrorIs(t, err, ErrNoInput)

	_, err = ReadInput(InputOptions{Clipboard: &fakeClipboard{err: errors.New("no display")}})
	assert.ErrorContains(t, err, "no display")

	_, err = ReadInput(InputOptions{File: filepath.Join(t.TempDir(), "missing")})
	assert.ErrorContains(t, err, "failed to read input file")
}

func TestWriteOutput(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, WriteOutput("result", OutputOptions{Stdout: &stdout}))
	assert.Equal(t, "result", stdout.String())

	stdout.Reset()
	file := filepath.Join(t.TempDir(), "out.txt")
	clip := &fakeClipboard{}
	require.NoError(t, WriteOutput("result", OutputOptions{File: file, Clipboard: clip, Stdout: &stdout}))
	assert.Empty(t, stdout.String())
	assert.Equal(t, "result", clip.text)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "result", string(data))

	err = WriteOutput("x", OutputOptions{Clipboard: &fakeClipboard{err: errors.New("denied")}})
	assert.ErrorContains(t, err, "failed to write clipboard")
}
