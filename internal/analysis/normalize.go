// Package analysis turns tracker issues into a dependency graph and derives
// the critical path, live blockers and a timeline risk assessment from it.
//
// Every function in this package is a pure, in-memory computation over the
// data it is given. Independent calls are safe to run concurrently.
package analysis

import (
	"math"
	"strings"
	"time"

	"github.com/danielolaszy/poagent/internal/logging"
	"github.com/danielolaszy/poagent/pkg/models"
	"github.com/spf13/cast"
)

const (
	dateLayout = "2006-01-02"

	// UnassignedOwner is the owner label of issues without an assignee.
	UnassignedOwner = "Unassigned"
)

var (
	finishedStatuses   = []string{"Done", "Closed", "Resolved"}
	inProgressStatuses = []string{"In Progress", "In Review"}
	blockedStatuses    = []string{"Blocked", "Impediment"}
)

// FieldMapping names the custom fields that carry team and effort weight.
type FieldMapping struct {
	Team        string
	StoryPoints string
}

// DefaultFieldMapping returns the stock Jira Cloud custom field names.
func DefaultFieldMapping() FieldMapping {
	return FieldMapping{
		Team:        "customfield_10004",
		StoryPoints: "customfield_10016",
	}
}

// Normalizer converts raw tracker records into issue nodes.
type Normalizer struct {
	fields FieldMapping
}

// NewNormalizer creates a Normalizer for the given field mapping.
func NewNormalizer(fields FieldMapping) *Normalizer {
	return &Normalizer{fields: fields}
}

// IsFinished reports whether a status name is terminal.
func IsFinished(status string) bool {
	return matchesAny(status, finishedStatuses)
}

// Categorize maps a raw status name to its StatusCategory.
func Categorize(status string) models.StatusCategory {
	switch {
	case matchesAny(status, finishedStatuses):
		return models.StatusDone
	case matchesAny(status, inProgressStatuses):
		return models.StatusInProgress
	case matchesAny(status, blockedStatuses):
		return models.StatusBlocked
	default:
		return models.StatusNotStarted
	}
}

func matchesAny(status string, vocabulary []string) bool {
	for _, candidate := range vocabulary {
		if strings.EqualFold(status, candidate) {
			return true
		}
	}
	return false
}

// Normalize converts a single record. Missing or malformed fields fall back
// to their defaults; it never fails.
func (n *Normalizer) Normalize(issue models.RawIssue) models.IssueNode {
	fields := issue.Fields

	status := stringAt(fields, "status", "name")
	node := models.IssueNode{
		Key:      issue.Key,
		Summary:  stringAt(fields, "summary"),
		Status:   status,
		Category: Categorize(status),
		Owner:    stringAt(fields, "assignee", "displayName"),
		Team:     displayValue(fields[n.fields.Team]),
		Weight:   weight(fields[n.fields.StoryPoints]),
	}
	if node.Owner == "" {
		node.Owner = UnassignedOwner
	}

	if raw := stringAt(fields, "duedate"); raw != "" {
		if due, err := time.Parse(dateLayout, raw); err == nil {
			node.DueDate = &due
		} else {
			logging.Debug("ignoring malformed due date",
				"issue", issue.Key,
				"duedate", raw)
		}
	}

	return node
}

// weight coerces an effort value to a finite, non-negative number.
func weight(value any) float64 {
	if value == nil {
		return 0
	}
	w, err := cast.ToFloat64E(value)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

// stringAt walks nested maps along path and returns the string found there.
func stringAt(fields map[string]any, path ...string) string {
	var current any = fields
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current = m[key]
	}
	s, _ := current.(string)
	return s
}

// displayValue flattens select-list style custom fields ({"value": "..."} or
// {"name": "..."}) and plain scalars into a display string.
func displayValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		for _, key := range []string{"value", "name", "displayName"} {
			if s, ok := v[key].(string); ok {
				return s
			}
		}
		return ""
	case []any:
		if len(v) > 0 {
			return displayValue(v[0])
		}
		return ""
	default:
		return cast.ToString(v)
	}
}
