package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vvasiu/strides/internal/mcp"
	"github.com/vvasiu/strides/internal/workoutstore"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Strides MCP server",
	Long:  `Launch an MCP server that allows AI agents to query stored workouts via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Suppress the normal header logs when running in MCP mode
		// to avoid polluting stdio which is used for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := workoutstore.NewWorkoutStore(cfg.Backend, cfg.DBConnect)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		return mcp.StartMCPServer(rootCtx, cfg, store)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
