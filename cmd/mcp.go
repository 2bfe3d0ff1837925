package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sprintlens/sprintlens/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Sprintlens MCP server",
	Long:  `Launch an MCP server that allows AI agents to build sprint reports and burndown projections via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdio carries the protocol, so setup must not write to stdout.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		defer closeStore(nil, nil)
		return mcp.StartMCPServer(rootCtx, cfg, client, store, log)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
