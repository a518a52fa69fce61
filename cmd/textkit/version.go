package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/textkit"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of textkit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "textkit version %s\n", strings.TrimSpace(textkit.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
