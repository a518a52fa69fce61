package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/textkit/internal/presentation/tui"
)

// ErrReported marks errors already shown to the user; callers should only
// set the exit code.
var ErrReported = errors.New("error already reported")

// TransformOptions drives a one-shot transformation.
type TransformOptions struct {
	Args   []string
	Input  InputOptions
	Output OutputOptions
	Silent bool
	Stderr io.Writer
}

// Transform reads the input, applies the rule string built from Args and
// delivers the result. Pipeline errors are rendered to Stderr with their
// step context unless Silent is set.
func Transform(ctx context.Context, stack *Stack, opts TransformOptions) error {
	rules := BuildRuleString(opts.Args)

	text, err := ReadInput(opts.Input)
	if err != nil {
		return err
	}

	res, err := stack.Runner.Apply(ctx, text, rules)
	if err != nil {
		if !opts.Silent && opts.Stderr != nil {
			tui.PrintError(opts.Stderr, err)
		}
		return fmt.Errorf("%w: %w", ErrReported, err)
	}

	if err := WriteOutput(res.Output, opts.Output); err != nil {
		return err
	}
	if !opts.Silent && opts.Stderr != nil && opts.Output.Clipboard != nil {
		fmt.Fprintln(opts.Stderr, "✓ result copied to the clipboard")
	}
	return nil
}
