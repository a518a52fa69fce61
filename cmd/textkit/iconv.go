package main

import (
	"github.com/aretw0/textkit/internal/cli"
	"github.com/aretw0/textkit/pkg/transformers"
	"github.com/spf13/cobra"
)

var iconvCmd = &cobra.Command{
	Use:   "iconv",
	Short: "Convert text between character encodings",
	Long: `Converts the input from one encoding to another, like the iconv rule.
The source encoding "auto" detects UTF-8, Shift_JIS, EUC-JP and Latin-1.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		mode, _ := cmd.Flags().GetString("errors")

		text, err := cli.ReadInput(inputOptions(cmd))
		if err != nil {
			return err
		}
		out, err := transformers.Convert(text, from, to, transformers.ErrorMode(mode))
		if err != nil {
			return err
		}
		return cli.WriteOutput(out, cli.OutputOptions{Stdout: cmd.OutOrStdout()})
	},
}

func init() {
	rootCmd.AddCommand(iconvCmd)
	addInputFlags(iconvCmd)
	iconvCmd.Flags().StringP("from", "f", "auto", "Source encoding")
	iconvCmd.Flags().StringP("to", "t", "utf-8", "Target encoding")
	iconvCmd.Flags().String("errors", string(transformers.ModeStrict), "strict, replace or ignore")
}
