package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/danielolaszy/poagent/internal/analysis"
	"github.com/danielolaszy/poagent/pkg/models"
)

const (
	ganttTasksPerTeam  = 5
	ganttSummaryLength = 30
	ganttBarDays       = 14
	otherTeam          = "Other"
)

// GanttChart renders a Mermaid gantt chart with one section per team. Each
// team shows at most five issues as two-week bars; a bar ends on the issue's
// due date when it has one and starts at start otherwise. An empty issue
// set fails with analysis.ErrInvalidInput.
func GanttChart(initiative string, nodes []models.IssueNode, start time.Time) (string, error) {
	if len(nodes) == 0 {
		return "", fmt.Errorf("no issues provided for chart generation: %w", analysis.ErrInvalidInput)
	}

	var teams []string
	byTeam := make(map[string][]models.IssueNode)
	for _, node := range nodes {
		team := node.Team
		if team == "" {
			team = otherTeam
		}
		if _, ok := byTeam[team]; !ok {
			teams = append(teams, team)
		}
		byTeam[team] = append(byTeam[team], node)
	}

	lines := []string{
		"```mermaid",
		"gantt",
		fmt.Sprintf("    title %s - Cross-Team Dependencies", initiative),
		"    dateFormat YYYY-MM-DD",
		"",
	}

	for teamIdx, team := range teams {
		lines = append(lines, "    section "+team)

		for issueIdx, node := range byTeam[team] {
			if issueIdx == ganttTasksPerTeam {
				break
			}
			begin := start
			if node.DueDate != nil {
				begin = node.DueDate.AddDate(0, 0, -ganttBarDays)
			}
			lines = append(lines, fmt.Sprintf("    %s :%s, t%d_%d, %s, %dd",
				ganttLabel(node.Summary), ganttState(node.Category),
				teamIdx, issueIdx, begin.Format("2006-01-02"), ganttBarDays))
		}

		lines = append(lines, "")
	}

	lines = append(lines, "```")
	return strings.Join(lines, "\n"), nil
}

func ganttState(category models.StatusCategory) string {
	switch category {
	case models.StatusDone:
		return "done"
	case models.StatusBlocked:
		return "crit"
	default:
		return "active"
	}
}

// ganttLabel truncates a summary and strips characters Mermaid treats as
// task syntax.
func ganttLabel(summary string) string {
	label := strings.NewReplacer(":", " ", ";", " ", "#", "").Replace(summary)
	runes := []rune(label)
	if len(runes) > ganttSummaryLength {
		runes = runes[:ganttSummaryLength]
	}
	label = strings.TrimSpace(string(runes))
	if label == "" {
		return "Untitled"
	}
	return label
}
