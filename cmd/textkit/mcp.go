package main

import (
	"fmt"

	"github.com/aretw0/textkit/internal/cli"
	"github.com/aretw0/textkit/pkg/adapters/mcp"
	"github.com/aretw0/textkit/pkg/runner"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes textkit to MCP clients with the tools transform, list_rules and
explain, and the resource textkit://rules.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cmd, cfg)

		stack, err := cli.Build(cfg, cli.BuildOptions{
			Logger:      logger,
			Interceptor: runner.DenyRules(cfg.Server.DenyRules...),
		})
		if err != nil {
			return err
		}
		defer stack.Close()

		srv := mcp.NewServer(stack.Engine, stack.Runner, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			logger.Info("starting textkit MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			return srv.ServeSSE(cmd.Context(), port)
		default:
			return fmt.Errorf("unknown transport %q, supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
}
