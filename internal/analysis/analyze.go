package analysis

import (
	"fmt"
	"sort"

	"github.com/danielolaszy/poagent/internal/logging"
	"github.com/danielolaszy/poagent/pkg/models"
	"github.com/google/uuid"
)

// Options parameterizes a dependency analysis run.
type Options struct {
	Initiative string
	TargetDate string
}

// Analyzer runs the full dependency analysis over a graph.
type Analyzer struct {
	estimator *Estimator
}

// NewAnalyzer creates an Analyzer that assesses timeline risk with estimator.
// A nil estimator uses NewEstimator.
func NewAnalyzer(estimator *Estimator) *Analyzer {
	if estimator == nil {
		estimator = NewEstimator()
	}
	return &Analyzer{estimator: estimator}
}

// Analyze computes the critical path, blockers, cycles and timeline risk of
// graph. It fails with ErrInvalidInput when the graph has no issues.
func (a *Analyzer) Analyze(graph *models.DependencyGraph, opts Options) (*models.DependencyReport, error) {
	if graph == nil || len(graph.Order) == 0 {
		return nil, fmt.Errorf("no issues provided for analysis: %w", ErrInvalidInput)
	}

	runID := uuid.NewString()
	logging.Info("analyzing dependencies",
		"run_id", runID,
		"initiative", opts.Initiative,
		"issues", len(graph.Order),
		"edges", len(graph.Edges))

	path, err := CriticalPath(graph)
	if err != nil {
		return nil, err
	}

	cycles := FindCycles(graph)
	if len(cycles) > 0 {
		logging.Warn("dependency cycles found, critical path is partial",
			"run_id", runID,
			"cycles", len(cycles))
	}

	report := &models.DependencyReport{
		RunID:        runID,
		Initiative:   opts.Initiative,
		TargetDate:   opts.TargetDate,
		GeneratedAt:  a.estimator.now(),
		IssueCount:   len(graph.Order),
		Teams:        Teams(graph),
		Graph:        graph,
		CriticalPath: path,
		Blockers:     FindBlockers(graph),
		Risk:         a.estimator.TimelineRisk(graph, opts.TargetDate),
		Cycles:       cycles,
	}

	logging.Info("dependency analysis complete",
		"run_id", runID,
		"critical_path_length", len(path.Keys),
		"blockers", len(report.Blockers),
		"risk_level", report.Risk.Level)

	return report, nil
}

// Teams returns the sorted set of non-empty team names in graph.
func Teams(graph *models.DependencyGraph) []string {
	set := make(map[string]bool)
	for _, node := range graph.Nodes {
		if node.Team != "" {
			set[node.Team] = true
		}
	}

	teams := make([]string, 0, len(set))
	for team := range set {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}
