package main

import (
	"fmt"

	"github.com/aretw0/textkit/internal/cli"
	"github.com/aretw0/textkit/pkg/keystore"
	"github.com/spf13/cobra"
)

func cryptoCommand(use, short, rule string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Crypto.Enabled = true

			stack, err := buildStack(cmd, cfg, cli.BuildOptions{})
			if err != nil {
				return err
			}
			defer stack.Close()

			return cli.Transform(cmd.Context(), stack, cli.TransformOptions{
				Args:   []string{rule},
				Input:  inputOptions(cmd),
				Output: cli.OutputOptions{Stdout: cmd.OutOrStdout()},
				Silent: quiet(cmd),
				Stderr: cmd.ErrOrStderr(),
			})
		},
	}
	addInputFlags(cmd)
	return cmd
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage the RSA key pair used by enc and dec",
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key pair, replacing the current one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		bits, _ := cmd.Flags().GetInt("bits")
		if bits == 0 {
			bits = cfg.Crypto.KeyBits
		}

		store := keystore.NewFileStore(cfg.Crypto.KeyDir, keystore.WithKeyBits(bits))
		if err := store.Generate(); err != nil {
			return err
		}
		if !quiet(cmd) {
			cmd.Printf("Generated %d-bit key pair in %s\n", bits, store.Dir())
		}
		return nil
	},
}

var keysPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the key directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), cfg.Crypto.KeyDir)
		return err
	},
}

func init() {
	rootCmd.AddCommand(cryptoCommand("encrypt", "Encrypt the input with the configured public key", "/enc"))
	rootCmd.AddCommand(cryptoCommand("decrypt", "Decrypt the input with the configured private key", "/dec"))

	keysGenerateCmd.Flags().Int("bits", 0, "RSA modulus size (default from configuration)")
	keysCmd.AddCommand(keysGenerateCmd, keysPathCmd)
	rootCmd.AddCommand(keysCmd)
}
