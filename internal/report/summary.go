// Package report renders analysis results for people and for LLM prompts.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/danielolaszy/poagent/pkg/models"
)

const (
	criticalPathPreview = 5
	topBlockers         = 3
)

// Palette shared by the terminal renderings.
var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorDim    = lipgloss.Color("#928374")
	colorHeader = lipgloss.Color("#fe8019")
)

type styles struct {
	header lipgloss.Style
	dim    lipgloss.Style
	risk   map[models.RiskLevel]lipgloss.Style
}

// newStyles binds the palette to w, so colors are only emitted when w is a
// terminal that supports them.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header: r.NewStyle().Foreground(colorHeader).Bold(true),
		dim:    r.NewStyle().Foreground(colorDim),
		risk: map[models.RiskLevel]lipgloss.Style{
			models.RiskHigh:    r.NewStyle().Foreground(colorRed).Bold(true),
			models.RiskMedium:  r.NewStyle().Foreground(colorYellow).Bold(true),
			models.RiskLow:     r.NewStyle().Foreground(colorGreen).Bold(true),
			models.RiskUnknown: r.NewStyle().Foreground(colorDim),
		},
	}
}

// WriteSummary writes the human-readable dependency analysis summary,
// followed by the task and dependency listings.
func WriteSummary(w io.Writer, report *models.DependencyReport) error {
	s := newStyles(w)
	var b strings.Builder

	title := "Dependency Analysis Summary"
	if report.Initiative != "" {
		title += ": " + report.Initiative
	}
	b.WriteString(s.header.Render(title) + "\n")

	risk := report.Risk
	teams := ""
	if len(report.Teams) > 0 {
		teams = " (" + strings.Join(report.Teams, ", ") + ")"
	}
	fmt.Fprintf(&b, "- Total Issues: %d\n", report.IssueCount)
	fmt.Fprintf(&b, "- Teams Involved: %d%s\n", len(report.Teams), teams)
	fmt.Fprintf(&b, "- Critical Path Length: %d issues (%s points)\n",
		len(report.CriticalPath.Keys), formatPoints(report.CriticalPath.Weight))
	fmt.Fprintf(&b, "- Active Blockers: %d\n", len(report.Blockers))
	fmt.Fprintf(&b, "- Timeline Risk: %s (%d%% confidence)\n",
		s.risk[risk.Level].Render(string(risk.Level)), risk.Confidence)
	fmt.Fprintf(&b, "- Days to Target: %d\n", risk.DaysRemaining)
	fmt.Fprintf(&b, "- Completion: %.1f%% (%s of %s points)\n",
		risk.CompletionRate, formatPoints(risk.CompletedPoints), formatPoints(risk.TotalPoints))

	b.WriteString("\nCritical Path: " + previewPath(report.CriticalPath.Keys) + "\n")

	b.WriteString("\nTop Blockers:\n")
	if len(report.Blockers) == 0 {
		b.WriteString(s.dim.Render("- none") + "\n")
	}
	for i, blocker := range report.Blockers {
		if i == topBlockers {
			break
		}
		fmt.Fprintf(&b, "- %s: %s (blocks %d issues, owner %s)\n",
			blocker.Key, blocker.Summary, blocker.BlocksCount, blocker.Owner)
	}

	if len(report.Cycles) > 0 {
		b.WriteString("\nDependency Cycles (critical path is partial):\n")
		for _, cycle := range report.Cycles {
			b.WriteString("- " + strings.Join(cycle, " ↔ ") + "\n")
		}
	}

	if report.Graph != nil {
		b.WriteString("\nTasks:\n" + TaskLines(report.Graph) + "\n")
		b.WriteString("\nDependencies:\n" + DependencyLines(report.Graph) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func previewPath(keys []string) string {
	if len(keys) <= criticalPathPreview {
		return strings.Join(keys, " → ")
	}
	return strings.Join(keys[:criticalPathPreview], " → ") + "..."
}

// TaskLines lists every issue with its status, team and effort, one per line.
func TaskLines(graph *models.DependencyGraph) string {
	lines := make([]string, 0, len(graph.Order))
	for _, node := range graph.OrderedNodes() {
		team := node.Team
		if team == "" {
			team = "N/A"
		}
		lines = append(lines, fmt.Sprintf("- %s: %s [%s] (Team: %s, SP: %s)",
			node.Key, node.Summary, node.Status, team, formatPoints(node.Weight)))
	}
	if len(lines) == 0 {
		return "No tasks"
	}
	return strings.Join(lines, "\n")
}

// DependencyLines lists every blocking relationship, including those that
// point outside the analysed issue set.
func DependencyLines(graph *models.DependencyGraph) string {
	var lines []string
	for _, edge := range graph.Edges {
		lines = append(lines, fmt.Sprintf("- %s blocks %s (%s)", edge.From, edge.To, edge.Type))
	}
	for _, edge := range graph.Dangling {
		lines = append(lines, fmt.Sprintf("- %s blocks %s (%s, external)", edge.From, edge.To, edge.Type))
	}
	if len(lines) == 0 {
		return "No explicit dependencies found"
	}
	return strings.Join(lines, "\n")
}

func formatPoints(points float64) string {
	return fmt.Sprintf("%g", points)
}
