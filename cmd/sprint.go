package cmd

import (
	"fmt"

	"github.com/danielolaszy/poagent/internal/analysis"
	"github.com/danielolaszy/poagent/internal/jira"
	"github.com/danielolaszy/poagent/internal/report"
	"github.com/danielolaszy/poagent/pkg/models"
	"github.com/spf13/cobra"
)

// sprintCmd summarizes the progress of a sprint.
var sprintCmd = &cobra.Command{
	Use:   "sprint",
	Short: "Summarize sprint progress",
	Long: `Summarize the progress of a sprint: issues per status, completion rate
and completed story points.

The sprint is read from a JIRA board sprint with --sprint, or from any issue
source (--input, --jql or --repository).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sprintID, err := cmd.Flags().GetInt("sprint")
		if err != nil {
			return err
		}
		formatName, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		format, err := report.ParseFormat(formatName)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var issues []models.RawIssue
		if sprintID > 0 {
			client, err := jira.NewClient(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize jira client: %w", err)
			}
			if issues, err = client.SprintIssues(cmd.Context(), sprintID); err != nil {
				return err
			}
		} else {
			src, err := sourceFromFlags(cmd)
			if err != nil {
				return err
			}
			if issues, err = src.load(cmd.Context(), cfg, cmd.InOrStdin()); err != nil {
				return err
			}
		}

		graph := analysis.NewNormalizer(cfg.FieldMapping()).BuildGraph(issues)
		metrics := analysis.SprintMetrics(graph.OrderedNodes())

		if format == report.FormatText {
			return report.WriteSprintSummary(cmd.OutOrStdout(), metrics)
		}
		return report.Encode(cmd.OutOrStdout(), metrics, format)
	},
}

func init() {
	rootCmd.AddCommand(sprintCmd)
	addSourceFlags(sprintCmd)
	sprintCmd.Flags().IntP("sprint", "s", 0, "JIRA sprint ID")
	sprintCmd.Flags().StringP("format", "f", string(report.FormatText), "Output format: text, json or yaml")
}
