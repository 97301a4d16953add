package cmd

import (
	"fmt"
	"time"

	"github.com/danielolaszy/poagent/internal/analysis"
	"github.com/danielolaszy/poagent/internal/report"
	"github.com/spf13/cobra"
)

// ganttCmd renders a Mermaid gantt chart of an initiative.
var ganttCmd = &cobra.Command{
	Use:   "gantt",
	Short: "Generate a Mermaid gantt chart of an initiative's issues",
	Long: `Generate a Mermaid gantt chart with one section per team.

Each team shows at most five issues as two-week bars. Issues with a due date
end on it; the others start on --start-date (today by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		initiative, err := cmd.Flags().GetString("initiative")
		if err != nil {
			return err
		}
		startDate, err := cmd.Flags().GetString("start-date")
		if err != nil {
			return err
		}
		save, err := cmd.Flags().GetBool("save")
		if err != nil {
			return err
		}

		start := time.Now()
		if startDate != "" {
			if start, err = time.Parse("2006-01-02", startDate); err != nil {
				return fmt.Errorf("invalid --start-date %q, expected YYYY-MM-DD", startDate)
			}
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
		chart, err := report.GanttChart(initiative, graph.OrderedNodes(), start)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), chart)

		if save {
			if err := cfg.EnsureOutputDirs(); err != nil {
				return err
			}
			path, err := report.Save(cfg.Output.ChartDir, initiative+"_gantt", "md", []byte(chart+"\n"), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Chart saved to %s\n", path)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(ganttCmd)
	addSourceFlags(ganttCmd)
	ganttCmd.Flags().String("initiative", "Initiative", "Initiative name used as the chart title")
	ganttCmd.Flags().String("start-date", "", "Start date (YYYY-MM-DD) for issues without a due date")
	ganttCmd.Flags().Bool("save", false, "Also save the chart to the chart output directory")
}
