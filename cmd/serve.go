package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/gengoka/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	Long: `Run an MCP server over stdin/stdout exposing submit_answer, get_report,
get_progress, get_history and export_data. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		d.log.Info("mcp server starting", zap.String("version", version))
		return server.ServeStdio(server.New(d.tracker, version))
	},
}
