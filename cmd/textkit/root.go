package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/textkit/internal/cli"
	"github.com/aretw0/textkit/internal/config"
	"github.com/aretw0/textkit/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "textkit [rules] [args...]",
	Short: "Apply compact rule strings to text",
	Long: `textkit transforms text with a chain of rules written as one compact string.

  textkit /t/l --text "  Hello World  "     trim, then lowercase
  textkit /r old new --file notes.txt       replace "old" with "new"
  echo hi | textkit -u                      flag form
  textkit /t/s                              reads and writes the clipboard

Rule strings start with '/' (slash form) or '-' (flag form). Extra
arguments after the rule string are appended as quoted arguments.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTransform,
}

func init() {
	// Persistent flags carry no shorthands: single letters are rule names.
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file (default ./textkit.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Print nothing but the result")

	addInputFlags(rootCmd)
	rootCmd.Flags().String("output", "", "Write the result to a file")
	rootCmd.Flags().Bool("clipboard", false, "Copy the result to the clipboard instead of printing it")
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("text", "", "Input text")
	cmd.Flags().String("file", "", "Read input from a file")
}

// execute runs the root command and returns the process exit code.
func execute(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetArgs(cli.RewriteArgs(args, isRootFlag))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cli.ErrReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func isRootFlag(arg string) bool {
	name := strings.SplitN(arg, "=", 2)[0]
	if name == "-h" || name == "--help" {
		return true
	}
	switch {
	case strings.HasPrefix(name, "--"):
		n := name[2:]
		return rootCmd.Flags().Lookup(n) != nil || rootCmd.PersistentFlags().Lookup(n) != nil
	case len(name) == 2:
		n := name[1:]
		return rootCmd.Flags().ShorthandLookup(n) != nil || rootCmd.PersistentFlags().ShorthandLookup(n) != nil
	}
	return false
}

func runTransform(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	stack, err := newStack(cmd, cli.BuildOptions{})
	if err != nil {
		return err
	}
	defer stack.Close()

	opts := cli.TransformOptions{
		Args:   args,
		Input:  inputOptions(cmd),
		Silent: quiet(cmd),
		Stderr: cmd.ErrOrStderr(),
	}
	opts.Output.File, _ = cmd.Flags().GetString("output")
	opts.Output.Stdout = cmd.OutOrStdout()
	if toClipboard, _ := cmd.Flags().GetBool("clipboard"); toClipboard {
		opts.Output.Clipboard = cli.SystemClipboard()
	}
	return cli.Transform(cmd.Context(), stack, opts)
}

// inputOptions reads --text and --file; stdin and the clipboard are the
// fallbacks.
func inputOptions(cmd *cobra.Command) cli.InputOptions {
	opts := cli.InputOptions{
		Stdin:     cmd.InOrStdin(),
		Clipboard: cli.SystemClipboard(),
	}
	opts.Text, _ = cmd.Flags().GetString("text")
	opts.HasText = cmd.Flags().Changed("text")
	opts.File, _ = cmd.Flags().GetString("file")
	return opts
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Flags().GetBool("quiet")
	return q
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		return logging.New(slog.LevelDebug)
	}
	if quiet(cmd) {
		return logging.NewNop()
	}
	return logging.New(logging.ParseLevel(cfg.LogLevel))
}

func newStack(cmd *cobra.Command, opts cli.BuildOptions) (*cli.Stack, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return buildStack(cmd, cfg, opts)
}

func buildStack(cmd *cobra.Command, cfg *config.Config, opts cli.BuildOptions) (*cli.Stack, error) {
	if opts.Logger == nil {
		opts.Logger = newLogger(cmd, cfg)
	}
	return cli.Build(cfg, opts)
}
