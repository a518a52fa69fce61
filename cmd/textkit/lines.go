package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/textkit/internal/cli"
	"github.com/aretw0/textkit/pkg/runner"
	"github.com/spf13/cobra"
)

var linesCmd = &cobra.Command{
	Use:   "lines [rules] [args...]",
	Short: "Apply rules to every line of a stream",
	Long: `Reads stdin (or --file) line by line and writes one result per line.
Failed lines produce an empty line and a message on stderr.

With --json, each input line is a request {"id", "text", "rules"} and each
output line a response {"id", "output", "applied", "error"}. Requests
without rules use the rule string given on the command line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		if len(args) == 0 && !asJSON {
			return fmt.Errorf("a rule string is required without --json")
		}

		stack, err := newStack(cmd, cli.BuildOptions{})
		if err != nil {
			return err
		}
		defer stack.Close()

		var in io.Reader = cmd.InOrStdin()
		if path, _ := cmd.Flags().GetString("file"); path != "" {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer f.Close()
			in = f
		}

		rules := cli.BuildRuleString(args)
		if asJSON {
			return stack.Runner.Serve(cmd.Context(), runner.NewJSONHandler(in, cmd.OutOrStdout()), rules)
		}
		return stack.Runner.Lines(cmd.Context(), in, cmd.OutOrStdout(), cmd.ErrOrStderr(), rules)
	},
}

func init() {
	rootCmd.AddCommand(linesCmd)
	linesCmd.Flags().String("file", "", "Read lines from a file instead of stdin")
	linesCmd.Flags().Bool("json", false, "Read and write JSON lines")
}
