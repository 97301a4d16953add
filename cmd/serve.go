package cmd

import (
	"github.com/danielolaszy/poagent/internal/mcpserver"
	"github.com/spf13/cobra"
)

// serveCmd exposes the analysis tools over the Model Context Protocol.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis tools as an MCP server on stdio",
	Long: `Serve the analysis tools over the Model Context Protocol on stdin and stdout.

Registered tools:
- analyze_dependencies(initiative_name, target_date, issues_json, format)
- generate_gantt_chart(initiative_name, issues_json, start_date)
- sprint_metrics(issues_json, format)

Logs are written to stderr so they never mix with protocol messages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return mcpserver.ServeStdio(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
