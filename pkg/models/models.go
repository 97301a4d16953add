// Package models defines data structures shared across the application.
package models

import (
	"time"
)

// RawIssue is a work item as delivered by an external tracker. Fields follows
// the Jira REST layout: "summary", "status", "assignee", "duedate",
// "issuelinks" and any number of custom fields.
type RawIssue struct {
	// Key is the tracker identifier (e.g., "PROJ-123" or "#42")
	Key string `json:"key" yaml:"key"`

	// Fields is the nested field set of the issue
	Fields map[string]any `json:"fields" yaml:"fields"`
}

// StatusCategory is the coarse bucket an issue status falls into.
type StatusCategory string

const (
	StatusNotStarted StatusCategory = "not-started"
	StatusInProgress StatusCategory = "in-progress"
	StatusBlocked    StatusCategory = "blocked"
	StatusDone       StatusCategory = "done"
)

// IssueNode is one normalized work item in a dependency graph.
type IssueNode struct {
	// Key is the unique issue identifier within the graph
	Key string `json:"key" yaml:"key"`

	// Summary is the issue's one-line title
	Summary string `json:"summary" yaml:"summary"`

	// Status is the raw status name, kept for display
	Status string `json:"status" yaml:"status"`

	// Category is the bucket derived from Status
	Category StatusCategory `json:"category" yaml:"category"`

	// Owner is the assignee display name, "Unassigned" when absent
	Owner string `json:"owner" yaml:"owner"`

	// DueDate is the optional due date
	DueDate *time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`

	// Team is the free-text team assignment, empty when absent
	Team string `json:"team,omitempty" yaml:"team,omitempty"`

	// Weight is the non-negative effort weight (story points)
	Weight float64 `json:"weight" yaml:"weight"`
}

// Finished reports whether the node is in a terminal status.
func (n IssueNode) Finished() bool {
	return n.Category == StatusDone
}

// DependencyEdge is a directed "blocks" relationship: From blocks To.
type DependencyEdge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	Type string `json:"type" yaml:"type"`
}

// DependencyGraph is the set of normalized nodes and the edges between them.
type DependencyGraph struct {
	// Nodes maps issue keys to nodes
	Nodes map[string]IssueNode `json:"nodes" yaml:"nodes"`

	// Order is the insertion order of Nodes keys
	Order []string `json:"order" yaml:"order"`

	// Edges holds edges whose endpoints are both in Nodes, in source order
	Edges []DependencyEdge `json:"edges" yaml:"edges"`

	// Dangling holds edges referencing issues outside the node set
	Dangling []DependencyEdge `json:"dangling,omitempty" yaml:"dangling,omitempty"`
}

// NewDependencyGraph returns an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		Nodes: make(map[string]IssueNode),
		Order: []string{},
		Edges: []DependencyEdge{},
	}
}

// OrderedNodes returns the nodes in insertion order.
func (g *DependencyGraph) OrderedNodes() []IssueNode {
	nodes := make([]IssueNode, 0, len(g.Order))
	for _, key := range g.Order {
		nodes = append(nodes, g.Nodes[key])
	}
	return nodes
}

// CriticalPath is the longest weighted chain of blocking dependencies.
type CriticalPath struct {
	Keys   []string `json:"keys" yaml:"keys"`
	Weight float64  `json:"weight" yaml:"weight"`
}

// BlockerRecord describes an unfinished issue that gates other unfinished issues.
type BlockerRecord struct {
	Key           string   `json:"key" yaml:"key"`
	Summary       string   `json:"summary" yaml:"summary"`
	Status        string   `json:"status" yaml:"status"`
	BlocksCount   int      `json:"blocks_count" yaml:"blocks_count"`
	BlockedIssues []string `json:"blocked_issues" yaml:"blocked_issues"`
	Owner         string   `json:"owner" yaml:"owner"`
	Team          string   `json:"team,omitempty" yaml:"team,omitempty"`
}

// RiskLevel is the qualitative timeline risk classification.
type RiskLevel string

const (
	RiskLow     RiskLevel = "LOW"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskHigh    RiskLevel = "HIGH"
	RiskUnknown RiskLevel = "UNKNOWN"
)

// RiskAssessment is the outcome of the timeline risk heuristic.
type RiskAssessment struct {
	Level           RiskLevel `json:"risk_level" yaml:"risk_level"`
	Confidence      int       `json:"confidence" yaml:"confidence"`
	CompletionRate  float64   `json:"completion_rate" yaml:"completion_rate"`
	DaysRemaining   int       `json:"days_remaining" yaml:"days_remaining"`
	TotalPoints     float64   `json:"total_points" yaml:"total_points"`
	CompletedPoints float64   `json:"completed_points" yaml:"completed_points"`
	RemainingPoints float64   `json:"remaining_points" yaml:"remaining_points"`
}

// DependencyReport is the consolidated result of a dependency analysis run.
type DependencyReport struct {
	RunID        string           `json:"run_id" yaml:"run_id"`
	Initiative   string           `json:"initiative" yaml:"initiative"`
	TargetDate   string           `json:"target_date" yaml:"target_date"`
	GeneratedAt  time.Time        `json:"generated_at" yaml:"generated_at"`
	IssueCount   int              `json:"issue_count" yaml:"issue_count"`
	Teams        []string         `json:"teams" yaml:"teams"`
	Graph        *DependencyGraph `json:"graph" yaml:"graph"`
	CriticalPath CriticalPath     `json:"critical_path" yaml:"critical_path"`
	Blockers     []BlockerRecord  `json:"blockers" yaml:"blockers"`
	Risk         RiskAssessment   `json:"risk" yaml:"risk"`
	Cycles       [][]string       `json:"cycles,omitempty" yaml:"cycles,omitempty"`
}

// SprintMetrics summarizes the progress of a set of sprint issues.
type SprintMetrics struct {
	TotalIssues     int      `json:"total_issues" yaml:"total_issues"`
	Completed       []string `json:"completed" yaml:"completed"`
	InProgress      []string `json:"in_progress" yaml:"in_progress"`
	Blocked         []string `json:"blocked" yaml:"blocked"`
	NotStarted      []string `json:"not_started" yaml:"not_started"`
	CompletionRate  float64  `json:"completion_rate" yaml:"completion_rate"`
	TotalPoints     float64  `json:"total_points" yaml:"total_points"`
	CompletedPoints float64  `json:"completed_points" yaml:"completed_points"`
	Velocity        float64  `json:"velocity" yaml:"velocity"`
}
