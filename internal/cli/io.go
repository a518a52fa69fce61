package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/term"
)

// ErrNoInput is returned when no input source yields text.
var ErrNoInput = errors.New("no input: pass --text, --file, pipe stdin or copy text to the clipboard")

// Clipboard abstracts the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// SystemClipboard returns the OS clipboard.
func SystemClipboard() Clipboard {
	return systemClipboard{}
}

// InputOptions selects where the text comes from. The first source set
// wins: Text, File, Stdin (when it is not a terminal), then Clipboard.
type InputOptions struct {
	Text      string
	HasText   bool
	File      string
	Stdin     io.Reader
	Clipboard Clipboard
}

// ReadInput resolves the input text.
func ReadInput(opts InputOptions) (string, error) {
	switch {
	case opts.HasText:
		return opts.Text, nil
	case opts.File != "":
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	case opts.Stdin != nil && !isTerminal(opts.Stdin):
		data, err := io.ReadAll(opts.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	case opts.Clipboard != nil:
		text, err := opts.Clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		if text == "" {
			return "", ErrNoInput
		}
		return text, nil
	}
	return "", ErrNoInput
}

// OutputOptions selects where the result goes. File and Clipboard may be
// combined; Stdout is used when neither is set.
type OutputOptions struct {
	File      string
	Clipboard Clipboard
	Stdout    io.Writer
}

// WriteOutput delivers the result.
func WriteOutput(text string, opts OutputOptions) error {
	wrote := false
	if opts.File != "" {
		if err := os.WriteFile(opts.File, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		wrote = true
	}
	if opts.Clipboard != nil {
		if err := opts.Clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("failed to write clipboard: %w", err)
		}
		wrote = true
	}
	if !wrote && opts.Stdout != nil {
		_, err := io.WriteString(opts.Stdout, text)
		if err == nil && !strings.HasSuffix(text, "\n") && isTerminal(opts.Stdout) {
			_, err = io.WriteString(opts.Stdout, "\n")
		}
		return err
	}
	return nil
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
