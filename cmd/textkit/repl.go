package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/textkit"
	"github.com/aretw0/textkit/internal/cli"
	"github.com/aretw0/textkit/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Apply rules interactively to a text buffer",
	Long: `Starts an interactive session. The buffer starts from --text, --file or
the clipboard; every line starting with / or - is applied to it. Type :help
for the session commands.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := newStack(cmd, cli.BuildOptions{})
		if err != nil {
			return err
		}

		clip := cli.SystemClipboard()
		reload := func() (*cli.Stack, error) {
			return newStack(cmd, cli.BuildOptions{})
		}
		session := cli.NewREPL(stack, reload, clip, cmd.OutOrStdout())
		defer func() { _ = session.Stack().Close() }()

		in := inputOptions(cmd)
		in.Stdin = nil
		text, err := cli.ReadInput(in)
		switch {
		case err == nil:
			session.SetBuffer(text)
		case !errors.Is(err, cli.ErrNoInput):
			return err
		}

		if !quiet(cmd) {
			tui.PrintBanner(cmd.ErrOrStderr(), strings.TrimSpace(textkit.Version))
		}
		return session.Run(cmd.Context(), historyFile())
	},
}

// historyFile returns the REPL history location, or "" to keep history in
// memory only.
func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "textkit")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "repl_history")
}

func init() {
	rootCmd.AddCommand(replCmd)
	addInputFlags(replCmd)
}
