package analysis

import (
	"math"

	"github.com/danielolaszy/poagent/pkg/models"
)

// SprintMetrics buckets the issues of a sprint by status category and sums
// their effort. Completion rate is by issue count; velocity is the completed
// effort.
func SprintMetrics(nodes []models.IssueNode) models.SprintMetrics {
	metrics := models.SprintMetrics{
		TotalIssues: len(nodes),
		Completed:   []string{},
		InProgress:  []string{},
		Blocked:     []string{},
		NotStarted:  []string{},
	}

	for _, node := range nodes {
		metrics.TotalPoints += node.Weight

		switch node.Category {
		case models.StatusDone:
			metrics.Completed = append(metrics.Completed, node.Key)
			metrics.CompletedPoints += node.Weight
		case models.StatusInProgress:
			metrics.InProgress = append(metrics.InProgress, node.Key)
		case models.StatusBlocked:
			metrics.Blocked = append(metrics.Blocked, node.Key)
		default:
			metrics.NotStarted = append(metrics.NotStarted, node.Key)
		}
	}

	if len(nodes) > 0 {
		rate := float64(len(metrics.Completed)) / float64(len(nodes)) * 100
		metrics.CompletionRate = math.Round(rate*10) / 10
	}
	metrics.Velocity = metrics.CompletedPoints

	return metrics
}
