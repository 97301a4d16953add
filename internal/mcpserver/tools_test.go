package mcpserver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/danielolaszy/poagent/internal/analysis"
	"github.com/danielolaszy/poagent/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleIssues = `[
	{"key": "PAY-1", "fields": {
		"summary": "Payment gateway",
		"status": {"name": "In Progress"},
		"customfield_10004": "Payments",
		"customfield_10016": 5,
		"issuelinks": [{"type": {"name": "Blocks"}, "outwardIssue": {"key": "WEB-1"}}]
	}},
	{"key": "WEB-1", "fields": {
		"summary": "Checkout page",
		"status": {"name": "To Do"},
		"customfield_10004": "Web",
		"customfield_10016": 3
	}},
	{"key": "OPS-1", "fields": {
		"summary": "Rollout",
		"status": {"name": "Done"},
		"customfield_10016": 2
	}}
]`

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func testNormalizer() *analysis.Normalizer {
	return analysis.NewNormalizer(analysis.DefaultFieldMapping())
}

func analyzeTool() *AnalyzeTool {
	estimator := &analysis.Estimator{
		WeeklyVelocity: 5,
		Now:            func() time.Time { return fixedNow },
	}
	return NewAnalyzeTool(testNormalizer(), analysis.NewAnalyzer(estimator))
}

func TestAnalyzeToolText(t *testing.T) {
	res, err := analyzeTool().Handle(context.Background(), newRequest(map[string]any{
		"initiative_name": "Checkout",
		"target_date":     "2026-03-30",
		"issues_json":     sampleIssues,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	text := resultText(t, res)
	assert.Contains(t, text, "Dependency Analysis Summary: Checkout")
	assert.Contains(t, text, "Critical Path: PAY-1 → WEB-1")
	assert.Contains(t, text, "- Days to Target: 28")
	assert.Contains(t, text, "- PAY-1: Payment gateway (blocks 1 issues")
}

func TestAnalyzeToolJSON(t *testing.T) {
	res, err := analyzeTool().Handle(context.Background(), newRequest(map[string]any{
		"initiative_name": "Checkout",
		"target_date":     "2026-03-30",
		"issues_json":     sampleIssues,
		"format":          "json",
	}))
	require.NoError(t, err)

	var decoded struct {
		Initiative   string `json:"initiative"`
		CriticalPath struct {
			Keys   []string `json:"keys"`
			Weight float64  `json:"weight"`
		} `json:"critical_path"`
		Risk struct {
			Level          string  `json:"risk_level"`
			CompletionRate float64 `json:"completion_rate"`
		} `json:"risk"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &decoded))

	assert.Equal(t, "Checkout", decoded.Initiative)
	assert.Equal(t, []string{"PAY-1", "WEB-1"}, decoded.CriticalPath.Keys)
	assert.Equal(t, 8.0, decoded.CriticalPath.Weight)
	// 8 remaining points against four weeks at 5 per week
	assert.Equal(t, "LOW", decoded.Risk.Level)
	assert.Equal(t, 20.0, decoded.Risk.CompletionRate)
}

func TestAnalyzeToolUnparsableTargetDate(t *testing.T) {
	res, err := analyzeTool().Handle(context.Background(), newRequest(map[string]any{
		"initiative_name": "Checkout",
		"target_date":     "end of June",
		"issues_json":     sampleIssues,
		"format":          "json",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var decoded struct {
		Risk struct {
			Level         string `json:"risk_level"`
			Confidence    int    `json:"confidence"`
			DaysRemaining int    `json:"days_remaining"`
		} `json:"risk"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &decoded))
	assert.Equal(t, "UNKNOWN", decoded.Risk.Level)
	assert.Zero(t, decoded.Risk.Confidence)
	assert.Zero(t, decoded.Risk.DaysRemaining)
}

func TestAnalyzeToolErrors(t *testing.T) {
	testCases := []struct {
		name     string
		args     map[string]any
		expected string
	}{
		{
			name:     "Missing target date",
			args:     map[string]any{"initiative_name": "X", "issues_json": sampleIssues},
			expected: "target_date",
		},
		{
			name:     "Malformed issues",
			args:     map[string]any{"initiative_name": "X", "target_date": "2026-03-30", "issues_json": "{nope"},
			expected: "invalid input",
		},
		{
			name:     "No issues",
			args:     map[string]any{"initiative_name": "X", "target_date": "2026-03-30", "issues_json": "[]"},
			expected: "no issues provided",
		},
		{
			name:     "Unknown format",
			args:     map[string]any{"initiative_name": "X", "target_date": "2026-03-30", "issues_json": sampleIssues, "format": "csv"},
			expected: "unsupported output format",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := analyzeTool().Handle(context.Background(), newRequest(tc.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tc.expected)
		})
	}
}

func TestGanttTool(t *testing.T) {
	tool := NewGanttTool(testNormalizer(), func() time.Time { return fixedNow })

	res, err := tool.Handle(context.Background(), newRequest(map[string]any{
		"initiative_name": "Checkout",
		"issues_json":     sampleIssues,
	}))
	require.NoError(t, err)

	text := resultText(t, res)
	assert.Contains(t, text, "title Checkout - Cross-Team Dependencies")
	assert.Contains(t, text, "section Payments")
	assert.Contains(t, text, "Payment gateway :active, t0_0, 2026-03-02, 14d")
	assert.Contains(t, text, "section Other")
	assert.Contains(t, text, "Rollout :done, t2_0, 2026-03-02, 14d")

	res, err = tool.Handle(context.Background(), newRequest(map[string]any{
		"initiative_name": "Checkout",
		"issues_json":     sampleIssues,
		"start_date":      "2026-05-01",
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "t1_0, 2026-05-01, 14d")

	res, err = tool.Handle(context.Background(), newRequest(map[string]any{
		"initiative_name": "Checkout",
		"issues_json":     sampleIssues,
		"start_date":      "May 1st",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = tool.Handle(context.Background(), newRequest(map[string]any{
		"initiative_name": "Checkout",
		"issues_json":     "[]",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "no issues provided for chart generation")
}

func TestSprintTool(t *testing.T) {
	res, err := NewSprintTool(testNormalizer()).Handle(context.Background(), newRequest(map[string]any{
		"issues_json": sampleIssues,
		"format":      "yaml",
	}))
	require.NoError(t, err)

	text := resultText(t, res)
	assert.Contains(t, text, "total_issues: 3")
	assert.Contains(t, text, "completion_rate: 33.3")
	assert.Contains(t, text, "velocity: 2")

	res, err = NewSprintTool(testNormalizer()).Handle(context.Background(), newRequest(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestNewRegistersTools(t *testing.T) {
	cfg := &config.Config{
		Jira: config.JiraConfig{TeamField: "customfield_10004", StoryPointsField: "customfield_10016"},
		Risk: config.RiskConfig{WeeklyVelocity: 5},
	}
	s := New(cfg)

	response := s.HandleMessage(context.Background(), []byte(`{"jsonrpc": "2.0", "id": 1, "method": "tools/list"}`))
	data, err := json.Marshal(response)
	require.NoError(t, err)

	for _, name := range []string{"analyze_dependencies", "generate_gantt_chart", "sprint_metrics"} {
		assert.Contains(t, string(data), name)
	}
}
