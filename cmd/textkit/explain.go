package main

import (
	"fmt"

	"github.com/aretw0/textkit/internal/cli"
	"github.com/aretw0/textkit/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <rules> [args...]",
	Short: "Print a rule string as a Mermaid flowchart",
	Long: `Parses the rule string and prints its steps as a Mermaid flowchart.
With --run, the chain is also applied to the input and the chart marks the
steps that succeeded and the step that failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := newStack(cmd, cli.BuildOptions{})
		if err != nil {
			return err
		}
		defer stack.Close()

		tokens, err := stack.Engine.Parse(cli.BuildRuleString(args))
		if err != nil {
			return err
		}

		var overlay *graph.PipelineOverlay
		if run, _ := cmd.Flags().GetBool("run"); run {
			text, err := cli.ReadInput(inputOptions(cmd))
			if err != nil {
				return err
			}
			_, trace, err := stack.Engine.Execute(cmd.Context(), text, tokens)
			if err != nil {
				overlay = graph.OverlayFromError(err)
			} else {
				overlay = &graph.PipelineOverlay{Applied: len(trace.Applied), Failed: -1}
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(tokens, stack.Engine.Rules(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
	addInputFlags(explainCmd)
	explainCmd.Flags().Bool("run", false, "Apply the chain to the input and mark the outcome")
}
