package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/danielolaszy/poagent/internal/analysis"
	"github.com/danielolaszy/poagent/internal/logging"
	"github.com/danielolaszy/poagent/internal/report"
	"github.com/spf13/cobra"
)

// analyzeCmd runs the full dependency analysis of an initiative.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze dependencies, blockers and timeline risk of an initiative",
	Long: `Analyze the dependencies between the issues of an initiative.

The command builds the dependency graph from the issues' "Blocks" links and reports:

1. The critical path: the chain of blocking issues with the most story points
2. Active blockers: unfinished issues that block other unfinished issues
3. Dependency cycles, if any
4. Timeline risk: remaining story points against the capacity left before the target date

Issues are read from exactly one source:
  po-agent analyze --target-date 2026-06-30 --jql 'project = PAY AND labels = checkout'
  po-agent analyze --target-date 2026-06-30 -r owner/repo -l checkout
  po-agent analyze --target-date 2026-06-30 -i issues.json

With --comment-on the plain-text summary is posted as a comment on the given
issue in the tracker the issues were read from.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetDate, err := cmd.Flags().GetString("target-date")
		if err != nil {
			return err
		}
		initiative, err := cmd.Flags().GetString("initiative")
		if err != nil {
			return err
		}
		formatName, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		save, err := cmd.Flags().GetBool("save")
		if err != nil {
			return err
		}
		commentOn, err := cmd.Flags().GetString("comment-on")
		if err != nil {
			return err
		}

		if _, err := time.Parse("2006-01-02", targetDate); err != nil {
			return fmt.Errorf("invalid --target-date %q, expected YYYY-MM-DD", targetDate)
		}
		format, err := report.ParseFormat(formatName)
		if err != nil {
			return err
		}

		src, err := sourceFromFlags(cmd)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		issues, err := src.load(cmd.Context(), cfg, cmd.InOrStdin())
		if err != nil {
			return err
		}

		graph := analysis.NewNormalizer(cfg.FieldMapping()).BuildGraph(issues)
		analyzer := analysis.NewAnalyzer(&analysis.Estimator{
			WeeklyVelocity: cfg.Risk.WeeklyVelocity,
			Now:            time.Now,
		})

		result, err := analyzer.Analyze(graph, analysis.Options{
			Initiative: initiative,
			TargetDate: targetDate,
		})
		if err != nil {
			return err
		}

		// Terminal output may carry color; saved and posted copies never do.
		var plain bytes.Buffer
		if format == report.FormatText {
			if err := report.WriteSummary(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if err := report.WriteSummary(&plain, result); err != nil {
				return err
			}
		} else {
			if err := report.Encode(&plain, result, format); err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(plain.Bytes()); err != nil {
				return err
			}
		}

		if save {
			if err := cfg.EnsureOutputDirs(); err != nil {
				return err
			}
			name := initiative
			if name == "" {
				name = "dependency_analysis"
			}
			path, err := report.Save(cfg.Output.ReportDir, name, format.Extension(), plain.Bytes(), result.GeneratedAt)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to %s\n", path)
		}

		if commentOn != "" {
			var summary bytes.Buffer
			if err := report.WriteSummary(&summary, result); err != nil {
				return err
			}
			if err := postComment(cmd.Context(), cfg, src, commentOn, summary.String()); err != nil {
				return fmt.Errorf("failed to post analysis comment: %w", err)
			}
			logging.Info("posted analysis comment", "issue", commentOn, "run_id", result.RunID)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addSourceFlags(analyzeCmd)
	analyzeCmd.Flags().StringP("target-date", "t", "", "Target completion date (YYYY-MM-DD)")
	analyzeCmd.Flags().String("initiative", "", "Initiative name used in titles and file names")
	analyzeCmd.Flags().StringP("format", "f", string(report.FormatText), "Output format: text, json or yaml")
	analyzeCmd.Flags().Bool("save", false, "Also save the report to the report output directory")
	analyzeCmd.Flags().String("comment-on", "", "Post the summary as a comment on this issue key")
	analyzeCmd.MarkFlagRequired("target-date")
}
