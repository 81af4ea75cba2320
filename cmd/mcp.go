package cmd

import (
	"github.com/episense/episense/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [input-csv]",
	Short: "Start the EpiSense MCP server",
	Long: `Launch an MCP server that lets AI agents run risk analyses via standard tools.

Exposes get_risk_table, get_country_alerts and get_country_timeseries over
stdio. An input CSV given here becomes the default for tool calls that omit
input_path.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Header logs are suppressed per tool call to keep stdio clean
		// for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
