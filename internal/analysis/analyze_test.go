package analysis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/danielolaszy/poagent/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeChainScenario(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	analyzer := NewAnalyzer(fixedEstimator(now))

	issues := chain("To Do", "To Do", "To Do")
	issues[0].Fields["customfield_10004"] = "Payments"
	issues[2].Fields["customfield_10004"] = map[string]any{"value": "Checkout"}

	report, err := analyzer.Analyze(BuildGraph(issues), Options{
		Initiative: "Checkout revamp",
		TargetDate: "2026-03-16",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "Checkout revamp", report.Initiative)
	assert.Equal(t, now, report.GeneratedAt)
	assert.Equal(t, 3, report.IssueCount)
	assert.Equal(t, []string{"Checkout", "Payments"}, report.Teams)
	assert.Equal(t, []string{"A", "B", "C"}, report.CriticalPath.Keys)
	assert.Equal(t, 10.0, report.CriticalPath.Weight)
	assert.Empty(t, report.Cycles)

	require.Len(t, report.Blockers, 2)
	assert.Equal(t, "A", report.Blockers[0].Key)
	assert.Equal(t, "Payments", report.Blockers[0].Team)
	assert.Equal(t, "B", report.Blockers[1].Key)

	// remaining 10 against a two-week capacity of 10
	assert.Equal(t, models.RiskMedium, report.Risk.Level)
	assert.Equal(t, 14, report.Risk.DaysRemaining)
}

func TestAnalyzeReportsCycles(t *testing.T) {
	graph := BuildGraph([]models.RawIssue{
		rawIssue("A", "To Do", 1, outward("Blocks", "B")),
		rawIssue("B", "To Do", 1, outward("Blocks", "A")),
	})

	report, err := NewAnalyzer(nil).Analyze(graph, Options{TargetDate: "not-a-date"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"A", "B"}}, report.Cycles)
	assert.Equal(t, models.RiskUnknown, report.Risk.Level)
}

func TestAnalyzeEmptyGraph(t *testing.T) {
	report, err := NewAnalyzer(nil).Analyze(BuildGraph(nil), Options{TargetDate: "2026-03-16"})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, report)
}

func TestAnalyzeNonFiniteWeights(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	graph := BuildGraph([]models.RawIssue{
		rawIssue("A", "To Do", "NaN", outward("Blocks", "B")),
		rawIssue("B", "To Do", 4, outward("Blocks", "C")),
		rawIssue("C", "To Do", "+Inf"),
	})

	report, err := NewAnalyzer(fixedEstimator(now)).Analyze(graph, Options{TargetDate: "2026-03-16"})
	require.NoError(t, err)

	// zero-weight A never improves B's distance, and B ties C but comes first
	assert.Equal(t, []string{"B"}, report.CriticalPath.Keys)
	assert.Equal(t, 4.0, report.CriticalPath.Weight)
	assert.Equal(t, 4.0, report.Risk.TotalPoints)
	assert.Equal(t, 4.0, report.Risk.RemainingPoints)
	assert.Equal(t, models.RiskLow, report.Risk.Level)

	_, err = json.Marshal(report)
	assert.NoError(t, err)
}
