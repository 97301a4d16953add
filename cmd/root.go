// Package cmd provides the command-line interface for the product owner agent.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "po-agent",
	Short: "po-agent analyzes cross-team dependencies and delivery risk",
	Long: `po-agent is a CLI tool and MCP server that helps product owners reason about
the work of an initiative. It reads issues from JIRA, GitHub or a JSON export,
builds the dependency graph between them and reports the critical path, the
issues currently blocking others and the risk of missing a target date.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add persistent flags that will be available to all commands
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a config file (yaml, json or toml)")
}
