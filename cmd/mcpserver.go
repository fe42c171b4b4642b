package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/runloopai/rl-cli-sub001/internal/mcpserver"
	"github.com/runloopai/rl-cli-sub001/pkg/logging"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve devbox operations as MCP tools over stdio",
	Long: `Run an MCP (Model Context Protocol) server on stdio exposing
devbox operations as tools: listing, creation, command execution,
logs, and shutdown.

Point an MCP-capable agent runtime at 'rl mcp' to let it drive
devboxes. Logging goes to stderr since stdout carries the protocol.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	// stdout belongs to the MCP transport.
	logging.InitForCLI(logging.LevelInfo, os.Stderr)

	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	server := mcpserver.NewServer(client, rootCmd.Version)
	logging.Info("mcp", "serving MCP tools on stdio")
	return server.ServeStdio()
}
