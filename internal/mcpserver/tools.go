package mcpserver

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/danielolaszy/poagent/internal/analysis"
	"github.com/danielolaszy/poagent/internal/logging"
	"github.com/danielolaszy/poagent/internal/report"
	"github.com/danielolaszy/poagent/pkg/models"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	argInitiative = "initiative_name"
	argTargetDate = "target_date"
	argIssues     = "issues_json"
	argFormat     = "format"
	argStartDate  = "start_date"

	issuesDescription = `Issues as a JSON array of {"key", "fields"} records in Jira REST layout, or a Jira search response with an "issues" array`
)

func formatOption() mcp.ToolOption {
	return mcp.WithString(argFormat,
		mcp.Description("Output format: text (default), json or yaml"),
		mcp.Enum(string(report.FormatText), string(report.FormatJSON), string(report.FormatYAML)),
	)
}

// decodeGraph parses the issues argument and builds its dependency graph.
func decodeGraph(req mcp.CallToolRequest, normalizer *analysis.Normalizer) (*models.DependencyGraph, error) {
	raw, err := req.RequireString(argIssues)
	if err != nil {
		return nil, err
	}
	issues, err := analysis.DecodeIssues([]byte(raw))
	if err != nil {
		return nil, err
	}
	return normalizer.BuildGraph(issues), nil
}

// render encodes v in the requested format, using text for the default.
func render(req mcp.CallToolRequest, v any, text func(*bytes.Buffer) error) (*mcp.CallToolResult, error) {
	format, err := report.ParseFormat(req.GetString(argFormat, string(report.FormatText)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var buf bytes.Buffer
	if format == report.FormatText {
		err = text(&buf)
	} else {
		err = report.Encode(&buf, v, format)
	}
	if err != nil {
		return nil, fmt.Errorf("rendering result: %w", err)
	}
	return mcp.NewToolResultText(buf.String()), nil
}

// AnalyzeTool handles the analyze_dependencies tool.
type AnalyzeTool struct {
	normalizer *analysis.Normalizer
	analyzer   *analysis.Analyzer
}

// NewAnalyzeTool creates an AnalyzeTool.
func NewAnalyzeTool(normalizer *analysis.Normalizer, analyzer *analysis.Analyzer) *AnalyzeTool {
	return &AnalyzeTool{normalizer: normalizer, analyzer: analyzer}
}

// Definition returns the MCP tool definition.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_dependencies",
		mcp.WithDescription("Analyze cross-team dependencies of an initiative: critical path, active blockers and timeline risk against a target date."),
		mcp.WithString(argInitiative, mcp.Required(), mcp.Description("Name of the initiative or epic")),
		mcp.WithString(argTargetDate, mcp.Required(), mcp.Description("Target completion date, YYYY-MM-DD")),
		mcp.WithString(argIssues, mcp.Required(), mcp.Description(issuesDescription)),
		formatOption(),
	)
}

// Handle runs the analysis.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	initiative, err := req.RequireString(argInitiative)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	targetDate, err := req.RequireString(argTargetDate)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	graph, err := decodeGraph(req, t.normalizer)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := t.analyzer.Analyze(graph, analysis.Options{
		Initiative: initiative,
		TargetDate: targetDate,
	})
	if err != nil {
		logging.Warn("analyze_dependencies failed", "initiative", initiative, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return render(req, result, func(buf *bytes.Buffer) error {
		return report.WriteSummary(buf, result)
	})
}

// GanttTool handles the generate_gantt_chart tool.
type GanttTool struct {
	normalizer *analysis.Normalizer
	now        func() time.Time
}

// NewGanttTool creates a GanttTool. Bars without a due date start at now.
func NewGanttTool(normalizer *analysis.Normalizer, now func() time.Time) *GanttTool {
	return &GanttTool{normalizer: normalizer, now: now}
}

// Definition returns the MCP tool definition.
func (t *GanttTool) Definition() mcp.Tool {
	return mcp.NewTool("generate_gantt_chart",
		mcp.WithDescription("Generate a Mermaid gantt chart of an initiative's issues, one section per team."),
		mcp.WithString(argInitiative, mcp.Required(), mcp.Description("Name of the initiative, used as the chart title")),
		mcp.WithString(argIssues, mcp.Required(), mcp.Description(issuesDescription)),
		mcp.WithString(argStartDate, mcp.Description("Start date, YYYY-MM-DD, for issues without a due date; defaults to today")),
	)
}

// Handle renders the chart.
func (t *GanttTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	initiative, err := req.RequireString(argInitiative)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start := t.now()
	if raw := req.GetString(argStartDate, ""); raw != "" {
		start, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid start_date %q, expected YYYY-MM-DD", raw)), nil
		}
	}

	graph, err := decodeGraph(req, t.normalizer)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	chart, err := report.GanttChart(initiative, graph.OrderedNodes(), start)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(chart), nil
}

// SprintTool handles the sprint_metrics tool.
type SprintTool struct {
	normalizer *analysis.Normalizer
}

// NewSprintTool creates a SprintTool.
func NewSprintTool(normalizer *analysis.Normalizer) *SprintTool {
	return &SprintTool{normalizer: normalizer}
}

// Definition returns the MCP tool definition.
func (t *SprintTool) Definition() mcp.Tool {
	return mcp.NewTool("sprint_metrics",
		mcp.WithDescription("Summarize sprint progress: issues by status, completion rate and completed story points."),
		mcp.WithString(argIssues, mcp.Required(), mcp.Description(issuesDescription)),
		formatOption(),
	)
}

// Handle computes the metrics.
func (t *SprintTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	graph, err := decodeGraph(req, t.normalizer)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	metrics := analysis.SprintMetrics(graph.OrderedNodes())
	return render(req, metrics, func(buf *bytes.Buffer) error {
		return report.WriteSprintSummary(buf, metrics)
	})
}
