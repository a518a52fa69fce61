package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/textkit/internal/cli"
	"github.com/aretw0/textkit/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		plain, _ := cmd.Flags().GetBool("plain")
		asJSON, _ := cmd.Flags().GetBool("json")

		stack, err := newStack(cmd, cli.BuildOptions{})
		if err != nil {
			return err
		}
		defer stack.Close()

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tui.FilterRules(stack.Engine.Rules(), search))
		}

		out, err := tui.RenderRules(stack.Engine.Rules(), search, plain)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().String("search", "", "Only show rules whose name, description or category matches")
	rulesCmd.Flags().Bool("plain", false, "Print markdown without terminal styling")
	rulesCmd.Flags().Bool("json", false, "Print rules as JSON")
}
